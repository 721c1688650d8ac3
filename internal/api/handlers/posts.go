// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/media"
	"github.com/cssocial/desk/internal/preview"
	"github.com/cssocial/desk/internal/remote"
)

func redirectBack(c *gin.Context) {
	target := c.Request.Referer()
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) PostViewHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	postID := c.Param("id")

	post, err := h.API.GetPost(ctx, postID)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Post not found"),
		}))
		return
	}
	sess.Likes.Seed(post)

	comments := sess.CommentsFor(postID)
	if err := comments.Load(ctx); err != nil {
		zap.S().Warnw("comments not loaded", "post_id", postID, "error", err)
	}

	card := h.postCard(sess, post)
	if url := preview.FirstURL(post.Content); url != "" && h.Previews != nil {
		if linkCard, err := h.Previews.Fetch(ctx, url); err == nil {
			card.Preview = linkCard
		}
	}

	c.HTML(http.StatusOK, "post.html", h.CommonData(c, gin.H{
		"title":    "Post",
		"post":     card,
		"comments": comments.List(),
	}))
}

func (h *Handler) PostCreateHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		sess.Notices.Push("Post content cannot be empty")
		redirectBack(c)
		return
	}

	imageURL := ""
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if h.Media == nil {
			sess.Notices.Push("Image uploads are not configured")
			redirectBack(c)
			return
		}
		if !media.AllowedImage(header.Filename) {
			sess.Notices.Push("Invalid file type (allowed: jpg, jpeg, png, webp)")
			redirectBack(c)
			return
		}
		url, err := h.Media.UploadPostImage(ctx, header.Filename, file)
		if err != nil {
			sess.Notices.Push("Image upload failed: " + err.Error())
			redirectBack(c)
			return
		}
		imageURL = url
	}

	if _, err := h.API.CreatePost(ctx, content, imageURL); err != nil {
		sess.Notices.Push(remote.Detail(err, "Failed to create post"))
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) PostEditViewHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	post, err := h.API.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Post not found"),
		}))
		return
	}
	if post.User.ID != sess.Viewer().ID {
		c.Redirect(http.StatusFound, "/posts/"+post.ID)
		return
	}

	c.HTML(http.StatusOK, "post-edit.html", h.CommonData(c, gin.H{
		"title": "Edit post",
		"post":  h.postCard(sess, post),
	}))
}

// PostEditSubmitHandler applies the edit only after the server accepts
// it; the page re-renders from the confirmed state.
func (h *Handler) PostEditSubmitHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	postID := c.Param("id")
	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		sess.Notices.Push("Post content cannot be empty")
		c.Redirect(http.StatusFound, "/posts/"+postID+"/edit")
		return
	}

	var imageURL *string
	if c.PostForm("remove_image") == "on" {
		empty := ""
		imageURL = &empty
	}
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if h.Media == nil {
			sess.Notices.Push("Image uploads are not configured")
			c.Redirect(http.StatusFound, "/posts/"+postID+"/edit")
			return
		}
		if !media.AllowedImage(header.Filename) {
			sess.Notices.Push("Invalid file type (allowed: jpg, jpeg, png, webp)")
			c.Redirect(http.StatusFound, "/posts/"+postID+"/edit")
			return
		}
		url, err := h.Media.UploadPostImage(ctx, header.Filename, file)
		if err != nil {
			sess.Notices.Push("Image upload failed: " + err.Error())
			c.Redirect(http.StatusFound, "/posts/"+postID+"/edit")
			return
		}
		// A new image wins over a remove_image tick.
		imageURL = &url
	}

	if _, err := h.API.UpdatePost(ctx, postID, content, imageURL); err != nil {
		sess.Notices.Push(remote.Detail(err, "Failed to update post"))
	}
	c.Redirect(http.StatusFound, "/posts/"+postID)
}

func (h *Handler) PostDeleteHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	if err := h.API.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		sess.Notices.Push(remote.Detail(err, "Failed to delete post"))
		redirectBack(c)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) PostLikeHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	sess.Likes.Toggle(c.Request.Context(), sess.Live, c.Param("id"))
	redirectBack(c)
}

func (h *Handler) PostPinHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	sess.TogglePin(c.Param("id"))
	redirectBack(c)
}
