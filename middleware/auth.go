package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/utils"
)

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(token string) (*utils.Session, error)
}

func bearer(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			unauthorized(c, "Authorization header is required")
			return
		}
		token, ok := bearer(c)
		if !ok {
			unauthorized(c, "Invalid token format")
			return
		}
		session, err := auth.Authenticate(token)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}

		utils.SetSession(c, session)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.GetSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// SyncAuth admits the scheduler holding the shared cron secret, or an admin
// with a valid access token.
func SyncAuth(auth Authenticator, cronSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			unauthorized(c, "Unauthorized")
			return
		}
		if cronSecret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(cronSecret)) == 1 {
			utils.SetSession(c, utils.CronSession())
			c.Next()
			return
		}
		session, err := auth.Authenticate(token)
		if err != nil || !session.CanSync() {
			unauthorized(c, "Unauthorized")
			return
		}
		utils.SetSession(c, session)
		c.Next()
	}
}
