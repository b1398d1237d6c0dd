package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type notificationFeed interface {
	Drain() []dto.Notification
}

// NotificationHandler hands pending toasts to the UI.
type NotificationHandler struct {
	feed notificationFeed
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(feed notificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// Drain godoc
// @Summary Pending notifications
// @Description Returns and clears the toast messages raised since the last call
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) Drain(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.feed.Drain(), nil)
}
