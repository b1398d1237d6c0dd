package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

const attachmentsField = "attachments"

type captureService interface {
	View() dto.CaptureView
	Open(ctx context.Context, editID string) (dto.CaptureView, error)
	Change(field, value string) (dto.CaptureView, error)
	Submit(ctx context.Context, files []httpclient.FilePart) (*models.Permit, error)
	Reset(ctx context.Context) (dto.CaptureView, error)
}

// CaptureHandler drives the data-capture form.
type CaptureHandler struct {
	capture captureService
}

// NewCaptureHandler constructs the handler.
func NewCaptureHandler(capture captureService) *CaptureHandler {
	return &CaptureHandler{capture: capture}
}

// Open godoc
// @Summary Open the capture form
// @Description Loads the permit named by edit, or a new form with any saved draft
// @Tags Capture
// @Produce json
// @Param edit query string false "Permit id to edit"
// @Success 200 {object} response.Envelope
// @Router /capture [get]
func (h *CaptureHandler) Open(c *gin.Context) {
	view, err := h.capture.Open(c.Request.Context(), c.Query("edit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Change godoc
// @Summary Update one form field
// @Tags Capture
// @Accept json
// @Produce json
// @Param payload body dto.CaptureChangeRequest true "Field value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /capture [patch]
func (h *CaptureHandler) Change(c *gin.Context) {
	var req dto.CaptureChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	view, err := h.capture.Change(req.Field, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Submit godoc
// @Summary Save the form
// @Description Creates a permit with its attachments, or updates the permit being edited
// @Tags Capture
// @Accept multipart/form-data
// @Produce json
// @Param attachments formData file false "Supporting documents"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /capture/submit [post]
func (h *CaptureHandler) Submit(c *gin.Context) {
	files, err := formFiles(c, attachmentsField)
	if err != nil {
		response.Error(c, err)
		return
	}
	editing := h.capture.View().Mode == dto.CaptureModeEdit
	permit, err := h.capture.Submit(c.Request.Context(), files)
	if err != nil {
		response.Error(c, err)
		return
	}
	if editing {
		response.JSON(c, http.StatusOK, permit, nil)
		return
	}
	response.Created(c, permit)
}

// Reset godoc
// @Summary Discard the form and its draft
// @Tags Capture
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /capture/reset [post]
func (h *CaptureHandler) Reset(c *gin.Context) {
	view, err := h.capture.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
