package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/models"
)

// Session is the authenticated caller. It is passed explicitly into every
// service call that needs authorization; a nil Session is anonymous.
type Session struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	// Cron marks a session created from the shared sync secret.
	Cron bool `json:"-"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// CanSync reports whether the caller may trigger the spreadsheet sync.
func (s *Session) CanSync() bool {
	return s != nil && (s.Cron || s.IsAdmin())
}

// CronSession is the identity used by the shared-secret sync trigger.
func CronSession() *Session {
	return &Session{Role: "cron", Cron: true}
}

type contextKey string

const SessionContextKey contextKey = "session"

func SetSession(c *gin.Context, s *Session) {
	c.Set(string(SessionContextKey), s)
}

func GetSession(c *gin.Context) *Session {
	v, exists := c.Get(string(SessionContextKey))
	if !exists {
		return nil
	}
	if s, ok := v.(*Session); ok {
		return s
	}
	return nil
}
