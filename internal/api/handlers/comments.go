// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CommentAddHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	postID := c.Param("id")
	sess.CommentsFor(postID).Add(c.Request.Context(), sess.Live, c.PostForm("content"))
	c.Redirect(http.StatusFound, "/posts/"+postID)
}

func (h *Handler) CommentEditHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	postID := c.Param("id")
	commentID := c.Param("commentId")
	sess.CommentsFor(postID).Edit(c.Request.Context(), sess.Live, commentID, c.PostForm("content"))
	c.Redirect(http.StatusFound, "/posts/"+postID)
}

func (h *Handler) CommentDeleteHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	postID := c.Param("id")
	commentID := c.Param("commentId")
	sess.CommentsFor(postID).Delete(c.Request.Context(), sess.Live, commentID)
	c.Redirect(http.StatusFound, "/posts/"+postID)
}
