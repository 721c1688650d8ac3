// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/exports"
	"github.com/cssocial/desk/internal/remote"
)

// ExportPostsHandler streams the viewer's own posts as a CSV download.
func (h *Handler) ExportPostsHandler(c *gin.Context) {
	viewer, ok := h.GetAuthenticatedUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	posts, err := h.API.ListPosts(c.Request.Context(), viewer.ID)
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Failed to load posts for export"),
		}))
		return
	}

	rows := make([]exports.PostRow, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, exports.PostRow{
			Post:   post,
			Pinned: sess.IsPinned(post.ID),
		})
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exports.Filename(viewer.Username)))
	if err := exports.WritePostsCSV(c.Writer, rows); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
