// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/media"
	"github.com/cssocial/desk/internal/remote"
)

func (h *Handler) ProfileHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	userID := c.Param("id")

	user, err := h.API.GetUser(ctx, userID)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "User not found"),
		}))
		return
	}

	posts, err := h.API.ListPosts(ctx, userID)
	if err != nil {
		zap.S().Warnw("profile posts not loaded", "user_id", userID, "error", err)
	}

	cards := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		sess.Likes.Seed(post)
		cards = append(cards, h.postCard(sess, post))
	}

	isSelf := userID == sess.Viewer().ID

	// Pinned posts only exist for the viewer themselves; pins a post no
	// longer resolves to are skipped rather than surfaced as errors.
	var pinned []PostCard
	if isSelf {
		for _, postID := range sess.Pins.ListFor(sess.Viewer().ID) {
			post, err := h.API.GetPost(ctx, postID)
			if err != nil {
				continue
			}
			sess.Likes.Seed(post)
			pinned = append(pinned, h.postCard(sess, post))
		}
	}

	c.HTML(http.StatusOK, "profile.html", h.CommonData(c, gin.H{
		"title":        user.DisplayName(),
		"profile":      h.userCard(sess, user),
		"posts":        cards,
		"pinned_posts": pinned,
		"is_self":      isSelf,
	}))
}

func (h *Handler) FollowToggleHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	userID := c.Param("id")
	if userID != sess.Viewer().ID {
		sess.Follows.Toggle(c.Request.Context(), sess.Live, userID)
	}
	redirectBack(c)
}

func (h *Handler) SettingsViewHandler(c *gin.Context) {
	viewer, ok := h.GetAuthenticatedUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	lockHash := ""
	if h.DB != nil {
		lockHash, _ = h.DB.GetAppLock(c.Request.Context())
	}

	c.HTML(http.StatusOK, "settings.html", h.CommonData(c, gin.H{
		"title":            "Settings",
		"profile":          viewer,
		"app_lock_enabled": lockHash != "",
		"refresher_active": h.Refresher.IsActive(),
		"media_enabled":    h.Media != nil,
	}))
}

// ProfileUpdateHandler pushes profile edits to the server and refreshes
// the cached viewer from the response.
func (h *Handler) ProfileUpdateHandler(c *gin.Context) {
	viewer, ok := h.GetAuthenticatedUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	username := strings.TrimSpace(c.PostForm("username"))
	bio := strings.TrimSpace(c.PostForm("bio"))
	if username == "" {
		username = viewer.Username
	}

	var avatarURL *string
	if file, header, err := c.Request.FormFile("avatar"); err == nil {
		defer file.Close()
		switch {
		case h.Media == nil:
			sess.Notices.Push("Avatar uploads are not configured")
		case header.Size > media.MaxUploadBytes:
			sess.Notices.Push("File size too large (max 25MB)")
		case !media.AllowedImage(header.Filename):
			sess.Notices.Push("Invalid file type (allowed: jpg, jpeg, png, webp)")
		default:
			url, err := h.Media.UploadAvatar(ctx, file)
			if err != nil {
				sess.Notices.Push("Avatar upload failed: " + err.Error())
			} else {
				avatarURL = &url
			}
		}
	}

	if _, err := h.API.UpdateProfile(ctx, username, bio, avatarURL); err != nil {
		sess.Notices.Push(remote.Detail(err, "Failed to update profile"))
		c.Redirect(http.StatusFound, "/settings")
		return
	}

	if err := sess.RefreshViewer(ctx); err != nil {
		zap.S().Warnw("viewer not refreshed after profile update", "error", err)
	}
	c.Redirect(http.StatusFound, "/settings")
}
