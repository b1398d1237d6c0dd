package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type reportService interface {
	View() dto.ReportView
	Load(ctx context.Context) (dto.ReportView, error)
	SetFilter(field, value string) error
	ApplyFilters(ctx context.Context) (dto.ReportView, error)
	ResetFilters(ctx context.Context) (dto.ReportView, error)
	GoToPage(ctx context.Context, n int) (dto.ReportView, error)
}

type reportExporter interface {
	Export(ctx context.Context, format string) (*dto.ExportFile, error)
}

// ReportHandler exposes the reports view and its downloads.
type ReportHandler struct {
	reports reportService
	exports reportExporter
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, exports reportExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Get godoc
// @Summary Reports view
// @Description Statistics, the current page and the full filtered scope count
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) Get(c *gin.Context) {
	view, err := h.reports.Load(c.Request.Context())
	writeReport(c, view, err)
}

// SetFilter godoc
// @Summary Change one report filter field
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.FilterUpdateRequest true "Filter field"
// @Success 200 {object} response.Envelope
// @Router /reports/filters [patch]
func (h *ReportHandler) SetFilter(c *gin.Context) {
	var req dto.FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	if err := h.reports.SetFilter(req.Field, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	view := h.reports.View()
	response.JSON(c, http.StatusOK, view, &view.Pagination)
}

// Apply godoc
// @Summary Apply report filters
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/apply [post]
func (h *ReportHandler) Apply(c *gin.Context) {
	view, err := h.reports.ApplyFilters(c.Request.Context())
	writeReport(c, view, err)
}

// Reset godoc
// @Summary Restore the default report filters
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/reset [post]
func (h *ReportHandler) Reset(c *gin.Context) {
	view, err := h.reports.ResetFilters(c.Request.Context())
	writeReport(c, view, err)
}

// Page godoc
// @Summary Go to report page
// @Tags Reports
// @Produce json
// @Param page path int true "Page number"
// @Success 200 {object} response.Envelope
// @Router /reports/page/{page} [post]
func (h *ReportHandler) Page(c *gin.Context) {
	n, err := pageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.reports.GoToPage(c.Request.Context(), n)
	writeReport(c, view, err)
}

// Export godoc
// @Summary Download the filtered scope
// @Description Renders every record matching the filters as csv, xlsx or pdf
// @Tags Reports
// @Produce octet-stream
// @Param format path string true "csv, xlsx or pdf"
// @Success 200 {file} file
// @Failure 409 {object} response.Envelope
// @Router /reports/export/{format} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	file, err := h.exports.Export(c.Request.Context(), c.Param("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func writeReport(c *gin.Context, view dto.ReportView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, &view.Pagination)
}
