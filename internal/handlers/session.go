package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "lamma_session"
	// Cookies outlive the counter's dedup window so a returning visitor
	// keeps the same cart.
	sessionCookieMaxAge = 60 * 60 * 24 * 30
)

// sessionID returns the visitor's session id, issuing a fresh cookie when
// the request carries none (or a malformed one).
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}
