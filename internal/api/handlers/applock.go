// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/authhelp"
)

// The app lock is a local passphrase gating the UI, separate from the
// remote account password. It protects a shared machine, not the
// account.

func (h *Handler) UnlockViewHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "unlock.html", h.CommonData(c, gin.H{
		"title":        "Unlock",
		"is_auth_page": true,
	}))
}

func (h *Handler) UnlockSubmitHandler(c *gin.Context) {
	if h.DB == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	passphrase := c.PostForm("passphrase")

	hash, err := h.DB.GetAppLock(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{"error": "Failed to read app lock: " + err.Error()}))
		return
	}

	if hash != "" && !authhelp.CheckPassphrase(hash, passphrase) {
		c.HTML(http.StatusUnauthorized, "unlock.html", h.CommonData(c, gin.H{
			"title":        "Unlock",
			"is_auth_page": true,
			"error":        "Wrong passphrase",
		}))
		return
	}

	session := sessions.Default(c)
	session.Set("unlocked", true)
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) AppLockUpdateHandler(c *gin.Context) {
	if _, ok := h.GetAuthenticatedUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if h.DB == nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{"error": "Local store is unavailable, app lock cannot be changed"}))
		return
	}

	ctx := c.Request.Context()
	passphrase := c.PostForm("passphrase")

	if passphrase == "" {
		if err := h.DB.DeleteAppLock(ctx); err != nil {
			c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{"error": "Failed to remove app lock: " + err.Error()}))
			return
		}
		c.Redirect(http.StatusFound, "/settings")
		return
	}

	hash, err := authhelp.HashPassphrase(passphrase)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{"error": "Failed to hash passphrase: " + err.Error()}))
		return
	}
	if err := h.DB.SetAppLock(ctx, hash); err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", h.CommonData(c, gin.H{"error": "Failed to save app lock: " + err.Error()}))
		return
	}

	session := sessions.Default(c)
	session.Set("unlocked", true)
	session.Save()
	c.Redirect(http.StatusFound, "/settings")
}
