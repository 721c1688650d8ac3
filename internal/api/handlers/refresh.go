package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RefreshNowHandler kicks off a background refresh immediately.
func (h *Handler) RefreshNowHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	go h.Refresher.RefreshAll()
	redirectBack(c)
}

// RefresherToggleHandler flips the periodic refresh on or off.
func (h *Handler) RefresherToggleHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if h.Refresher.IsActive() {
		h.Refresher.Stop()
	} else {
		h.Refresher.Start(h.Config.RefreshInterval)
	}
	c.Redirect(http.StatusFound, "/settings")
}
