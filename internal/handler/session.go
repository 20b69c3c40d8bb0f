package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/session"
)

type SessionService interface {
	SessionSource
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, id string) error
}

type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges marketplace credentials for a console session token.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	sess, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": sess.ID, "session": sess})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": currentSession(c)})
}
