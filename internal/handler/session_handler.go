package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type sessionManager interface {
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	Authenticated(ctx context.Context) bool
	LoginPath() string
}

// SessionHandler stores and clears the operator's backend token.
type SessionHandler struct {
	session sessionManager
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(session sessionManager) *SessionHandler {
	return &SessionHandler{session: session}
}

// Login godoc
// @Summary Store the backend token
// @Description Keeps the token obtained from the backend login for subsequent calls
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SessionRequest true "Token payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	if err := h.session.SetToken(c.Request.Context(), req.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"authenticated": true}, nil)
}

// Logout godoc
// @Summary Sign out
// @Tags Session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.session.ClearToken(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Status godoc
// @Summary Session state
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"authenticated": h.session.Authenticated(c.Request.Context()),
		"loginPath":     h.session.LoginPath(),
	}, nil)
}
