package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/localdb"
)

// AuthMiddleware gates every page behind the local sign-in flow. A
// browser session must reference a stored remote login; when an
// app-lock passphrase is set, the session must also be unlocked.
func AuthMiddleware(db *localdb.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicRoute(c.Request.URL.Path) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		viewerID := session.Get("viewer_id")
		if viewerID == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if db != nil {
			hash, err := db.GetAppLock(c.Request.Context())
			if err == nil && hash != "" {
				if unlocked, ok := session.Get("unlocked").(bool); !ok || !unlocked {
					if c.Request.URL.Path != "/unlock" {
						c.Redirect(http.StatusFound, "/unlock")
						c.Abort()
						return
					}
				}
			}
		}

		c.Next()
	}
}

func isPublicRoute(path string) bool {
	publicPrefixes := []string{
		"/login",
		"/register",
		"/static",
		"/health",
		"/unlock",
	}

	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
