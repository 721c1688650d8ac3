package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RootHandler(c *gin.Context) {
	if h.Config.KeyB64Err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{
			"error": h.Config.KeyB64Err.Error(),
		}))
		return
	}

	if h.Config.StoreInitErr != nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{
			"error": h.Config.StoreInitErr.Error(),
		}))
		return
	}

	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	posts, err := h.API.ListPosts(ctx, "")
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": "Failed to load feed: " + err.Error(),
		}))
		return
	}

	cards := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		sess.Likes.Seed(post)
		cards = append(cards, h.postCard(sess, post))
	}

	c.HTML(http.StatusOK, "feed.html", h.CommonData(c, gin.H{
		"title": "Feed",
		"posts": cards,
	}))
}
