package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type permitViewer interface {
	Detail(ctx context.Context, id string) (*dto.PermitDetail, error)
	Slip(ctx context.Context, id string) (*dto.ExportFile, error)
}

// PermitHandler serves single-permit views.
type PermitHandler struct {
	service permitViewer
}

// NewPermitHandler constructs the handler.
func NewPermitHandler(service permitViewer) *PermitHandler {
	return &PermitHandler{service: service}
}

// Detail godoc
// @Summary Permit detail
// @Description Permit with its attachments classified for the document viewer
// @Tags Permits
// @Produce json
// @Param id path string true "Permit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /permits/{id} [get]
func (h *PermitHandler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Slip godoc
// @Summary Permit slip
// @Description Plain-text summary of a single permit
// @Tags Records
// @Produce plain
// @Param id path string true "Permit ID"
// @Success 200 {file} file
// @Router /records/{id}/slip [get]
func (h *PermitHandler) Slip(c *gin.Context) {
	file, err := h.service.Slip(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
