// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/helpers"
	"github.com/cssocial/desk/internal/remote"
)

type ConversationCard struct {
	remote.Conversation
	When string
}

func (h *Handler) ConversationsHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	convs, err := h.API.AllConversations(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", h.CommonData(c, gin.H{
			"error": remote.Detail(err, "Failed to load conversations"),
		}))
		return
	}

	cards := make([]ConversationCard, 0, len(convs))
	for _, conv := range convs {
		if conv.UnreadCount < 0 {
			conv.UnreadCount = 0
		}
		cards = append(cards, ConversationCard{
			Conversation: conv,
			When:         helpers.TimeAgo(conv.LastMessageAt),
		})
	}

	c.HTML(http.StatusOK, "conversations.html", h.CommonData(c, gin.H{
		"title":         "Messages",
		"conversations": cards,
	}))
}
