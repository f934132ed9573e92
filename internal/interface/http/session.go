package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type sessionCookie struct {
	name string
	ttl  time.Duration
}

// read returns the visitor id carried by the request, if it is well formed.
func (s sessionCookie) read(c *gin.Context) (string, bool) {
	value, err := c.Cookie(s.name)
	if err != nil || value == "" {
		return "", false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// ensure returns the existing visitor id or issues a new one.
func (s sessionCookie) ensure(c *gin.Context) string {
	if id, ok := s.read(c); ok {
		s.write(c, id)
		return id
	}
	id := uuid.NewString()
	s.write(c, id)
	return id
}

func (s sessionCookie) write(c *gin.Context, id string) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, id, int(s.ttl/time.Second), "/", "", secure, true)
}
