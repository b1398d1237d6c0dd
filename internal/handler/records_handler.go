package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type recordsService interface {
	View() dto.RecordsView
	Load(ctx context.Context) (dto.RecordsView, error)
	SetFilter(field, value string) error
	ApplyFilters(ctx context.Context) (dto.RecordsView, error)
	ResetFilters(ctx context.Context) (dto.RecordsView, error)
	GoToPage(ctx context.Context, n int) (dto.RecordsView, error)
	SetSelection(ids []string) []string
	SelectAll() []string
	DeleteSelected(ctx context.Context) (dto.DeleteResult, error)
}

// RecordsHandler exposes the records table.
type RecordsHandler struct {
	service recordsService
}

// NewRecordsHandler constructs the handler.
func NewRecordsHandler(service recordsService) *RecordsHandler {
	return &RecordsHandler{service: service}
}

// List godoc
// @Summary Records table
// @Description Fetches the current page with the current filters
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordsHandler) List(c *gin.Context) {
	view, err := h.service.Load(c.Request.Context())
	writeRecords(c, view, err)
}

// SetFilter godoc
// @Summary Change one filter field
// @Description Merges the field without fetching; call apply to run the query
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.FilterUpdateRequest true "Filter field"
// @Success 200 {object} response.Envelope
// @Router /records/filters [patch]
func (h *RecordsHandler) SetFilter(c *gin.Context) {
	var req dto.FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	if err := h.service.SetFilter(req.Field, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	view := h.service.View()
	response.JSON(c, http.StatusOK, view, &view.Pagination)
}

// Apply godoc
// @Summary Apply filters
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /records/apply [post]
func (h *RecordsHandler) Apply(c *gin.Context) {
	view, err := h.service.ApplyFilters(c.Request.Context())
	writeRecords(c, view, err)
}

// Reset godoc
// @Summary Clear filters
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /records/reset [post]
func (h *RecordsHandler) Reset(c *gin.Context) {
	view, err := h.service.ResetFilters(c.Request.Context())
	writeRecords(c, view, err)
}

// Page godoc
// @Summary Go to page
// @Tags Records
// @Produce json
// @Param page path int true "Page number"
// @Success 200 {object} response.Envelope
// @Router /records/page/{page} [post]
func (h *RecordsHandler) Page(c *gin.Context) {
	n, err := pageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.GoToPage(c.Request.Context(), n)
	writeRecords(c, view, err)
}

// Select godoc
// @Summary Replace the bulk-delete selection
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.SelectionRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Router /records/selection [post]
func (h *RecordsHandler) Select(c *gin.Context) {
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	var selected []string
	if req.All {
		selected = h.service.SelectAll()
	} else {
		selected = h.service.SetSelection(req.IDs)
	}
	response.JSON(c, http.StatusOK, gin.H{"selected": selected}, nil)
}

// Delete godoc
// @Summary Delete the selected records
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records [delete]
func (h *RecordsHandler) Delete(c *gin.Context) {
	result, err := h.service.DeleteSelected(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func writeRecords(c *gin.Context, view dto.RecordsView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, &view.Pagination)
}

func pageParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "page must be a number")
	}
	return n, nil
}
