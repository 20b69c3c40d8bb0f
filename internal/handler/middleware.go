package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/session"
)

const sessionKey = "session"

// SessionSource resolves a console session id.
type SessionSource interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Authenticate resolves the bearer token, which is the console session id.
func Authenticate(src SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := bearer(c.GetHeader("Authorization"))
		if id == "" {
			abortWithError(c, errs.ErrUnauthenticated)
			return
		}
		sess, err := src.Get(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// Require lets the request through only if the session holds level on module.
func Require(module string, level session.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).HasPermission(module, level) {
			abortWithError(c, fmt.Errorf("%w: %s access to %s", errs.ErrForbidden, level, module))
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

func bearer(h string) string {
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
