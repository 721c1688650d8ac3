// SPDX-License-Identifier: AGPL-3.0-only
package middleware

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware sets the baseline headers. Images are
// allowed from anywhere since avatars and post images live on the
// remote server and the media bucket.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'; img-src * data:; style-src 'self' 'unsafe-inline'")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
		c.Next()
	}
}
