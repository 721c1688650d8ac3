// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/authhelp"
	"github.com/cssocial/desk/internal/interact"
	"github.com/cssocial/desk/internal/remote"
)

func (h *Handler) LoginViewHandler(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("viewer_id") != nil && h.State.Current() != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{
		"title":        "Login",
		"is_auth_page": true,
	}))
}

func (h *Handler) LoginSubmitHandler(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{"error": "Username and password are required", "title": "Login", "is_auth_page": true}))
		return
	}

	ctx := c.Request.Context()
	result, err := h.API.Login(ctx, username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", h.CommonData(c, gin.H{
			"error":        remote.Detail(err, "Login failed"),
			"title":        "Login",
			"is_auth_page": true,
		}))
		return
	}

	// The profile fetch needs the fresh token before the session is
	// installed.
	h.State.Set(result.AccessToken, nil)

	me, err := h.API.Me(ctx)
	if err != nil {
		h.State.Clear()
		c.HTML(http.StatusUnauthorized, "login.html", h.CommonData(c, gin.H{
			"error":        remote.Detail(err, "Failed to load profile"),
			"title":        "Login",
			"is_auth_page": true,
		}))
		return
	}

	if h.DB != nil {
		if err := authhelp.SaveSessionToken(ctx, h.DB, me.ID, me.Username, result.AccessToken, h.Config.TokenKey); err != nil {
			zap.S().Warnw("session not persisted, login valid until restart", "error", err)
		}
	}

	h.State.Set(result.AccessToken, interact.NewSession(h.API, h.Pins, me, nil))

	// Seed the unread badge now instead of waiting for the next worker
	// tick or socket push.
	if h.Refresher != nil {
		go h.Refresher.RefreshAll()
	}

	session := sessions.Default(c)
	session.Set("viewer_id", me.ID)
	session.Set("username", me.Username)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) RegisterViewHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.CommonData(c, gin.H{
		"title":        "Create account",
		"is_auth_page": true,
	}))
}

func (h *Handler) RegisterSubmitHandler(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("password_confirm")

	page := gin.H{"title": "Create account", "is_auth_page": true, "username": username, "email": email}

	if username == "" || email == "" || password == "" {
		page["error"] = "All fields are required"
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, page))
		return
	}
	if password != confirm {
		page["error"] = "Passwords do not match"
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, page))
		return
	}
	if err := authhelp.ValidatePasswordStrength(password); err != nil {
		page["error"] = err.Error()
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, page))
		return
	}

	result, err := h.API.Register(c.Request.Context(), username, email, password)
	if err != nil {
		page["error"] = remote.Detail(err, "Registration failed")
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, page))
		return
	}

	message := result.Message
	if message == "" {
		message = "Account created. Check your email for a verification link, then sign in."
	}
	c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{
		"title":        "Login",
		"is_auth_page": true,
		"info":         message,
	}))
}

func (h *Handler) ResendVerificationHandler(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email != "" {
		if err := h.API.ResendVerification(c.Request.Context(), email); err != nil {
			zap.S().Warnw("resend verification failed", "error", err)
		}
	}
	c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{
		"title":        "Login",
		"is_auth_page": true,
		"info":         "If the address is registered, a new verification email is on its way.",
	}))
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	h.State.Clear()
	if h.DB != nil {
		if err := h.DB.DeleteSession(c.Request.Context()); err != nil {
			zap.S().Warnw("stored session not removed", "error", err)
		}
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/login")
}
