// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/remote"
)

// PeopleHandler lists every account, filtered by the q parameter
// against username and display name. Filtering happens here because
// the server has no search endpoint.
func (h *Handler) PeopleHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	users, err := h.API.ListUsers(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Failed to load people"),
		}))
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	cards := make([]UserCard, 0, len(users))
	for _, user := range users {
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Username), query) &&
			!strings.Contains(strings.ToLower(user.Name), query) {
			continue
		}
		cards = append(cards, h.userCard(sess, user))
	}

	c.HTML(http.StatusOK, "people.html", h.CommonData(c, gin.H{
		"title":  "People",
		"people": cards,
		"query":  c.Query("q"),
	}))
}

// FriendsHandler shows the mutual-follow subset plus one-way edges.
func (h *Handler) FriendsHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	sess := h.State.Current()

	ctx := c.Request.Context()
	following, err := h.API.Following(ctx, sess.Viewer().ID)
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Failed to load friends"),
		}))
		return
	}
	followers, err := h.API.Followers(ctx, sess.Viewer().ID)
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Failed to load friends"),
		}))
		return
	}

	var friends, onlyFollowing, onlyFollowers []UserCard
	seen := make(map[string]bool, len(followers))
	for _, user := range followers {
		seen[user.ID] = true
	}
	for _, user := range following {
		card := h.userCard(sess, user)
		if seen[user.ID] {
			friends = append(friends, card)
		} else {
			onlyFollowing = append(onlyFollowing, card)
		}
	}
	followingSeen := make(map[string]bool, len(following))
	for _, user := range following {
		followingSeen[user.ID] = true
	}
	for _, user := range followers {
		if !followingSeen[user.ID] {
			onlyFollowers = append(onlyFollowers, h.userCard(sess, user))
		}
	}

	c.HTML(http.StatusOK, "friends.html", h.CommonData(c, gin.H{
		"title":          "Friends",
		"friends":        friends,
		"only_following": onlyFollowing,
		"only_followers": onlyFollowers,
	}))
}
