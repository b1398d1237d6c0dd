package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type permitBulkDeleter interface {
	BulkDelete(ctx context.Context, ids []string) (string, error)
}

// RecordsService holds the records table state: filters, the current page
// and the bulk-delete selection.
type RecordsService struct {
	query    *QueryExecutor
	deleter  permitBulkDeleter
	notifier Notifier
	logger   *zap.Logger
	gate     latestGate

	mu         sync.Mutex
	filters    models.RecordFilter
	pagination models.Pagination
	records    []models.Permit
	selected   []string
	loading    bool
	lastErr    string
}

// NewRecordsService constructs the records view state.
func NewRecordsService(query *QueryExecutor, deleter permitBulkDeleter, notifier Notifier, logger *zap.Logger) *RecordsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsService{
		query:      query,
		deleter:    deleter,
		notifier:   notifier,
		logger:     logger,
		pagination: models.Pagination{}.Normalize(),
		records:    []models.Permit{},
		selected:   []string{},
	}
}

// View returns a snapshot of the current state.
func (s *RecordsService) View() dto.RecordsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SetFilter merges one filter field without fetching.
func (s *RecordsService) SetFilter(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.filters.Set(field, value); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}

// Load fetches the current page, as on mount.
func (s *RecordsService) Load(ctx context.Context) (dto.RecordsView, error) {
	s.mu.Lock()
	page := s.pagination.CurrentPage
	s.mu.Unlock()
	return s.fetch(ctx, page)
}

// ApplyFilters returns to page 1 and fetches.
func (s *RecordsService) ApplyFilters(ctx context.Context) (dto.RecordsView, error) {
	return s.fetch(ctx, 1)
}

// ResetFilters restores the blank filter set, returns to page 1 and fetches.
func (s *RecordsService) ResetFilters(ctx context.Context) (dto.RecordsView, error) {
	s.mu.Lock()
	s.filters = models.RecordFilter{}
	s.mu.Unlock()
	return s.fetch(ctx, 1)
}

// GoToPage clamps n to the known page range and fetches it.
func (s *RecordsService) GoToPage(ctx context.Context, n int) (dto.RecordsView, error) {
	s.mu.Lock()
	page := s.pagination.Clamp(n)
	s.mu.Unlock()
	return s.fetch(ctx, page)
}

// Toggle adds or removes one record from the selection.
func (s *RecordsService) Toggle(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return s.selectionLocked()
		}
	}
	s.selected = append(s.selected, id)
	return s.selectionLocked()
}

// SetSelection replaces the selection with ids.
func (s *RecordsService) SetSelection(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = uniqueIDs(ids)
	return s.selectionLocked()
}

// SelectAll selects every record on the current page.
func (s *RecordsService) SelectAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for _, r := range s.records {
		ids = append(ids, r.ID)
	}
	s.selected = ids
	return s.selectionLocked()
}

// ClearSelection empties the selection.
func (s *RecordsService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = []string{}
}

// DeleteSelected bulk-deletes the selection and refetches the current page.
// An empty selection only warns.
func (s *RecordsService) DeleteSelected(ctx context.Context) (dto.DeleteResult, error) {
	s.mu.Lock()
	ids := append([]string(nil), s.selected...)
	s.mu.Unlock()

	if len(ids) == 0 {
		s.notifier.Warning("Please select records to delete")
		return dto.DeleteResult{}, appErrors.Clone(appErrors.ErrValidation, "Please select records to delete")
	}

	msg, err := s.deleter.BulkDelete(ctx, ids)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return dto.DeleteResult{}, err
		}
		text := appErrors.UserMessage(err, "Error deleting records")
		s.notifier.Error(text)
		return dto.DeleteResult{}, appErrors.Clone(appErrors.FromError(err), text)
	}
	if msg == "" {
		msg = "Records deleted successfully"
	}
	s.logger.Info("permits deleted", zap.Int("count", len(ids)))

	s.mu.Lock()
	s.selected = []string{}
	s.mu.Unlock()
	s.notifier.Success(msg)

	if _, err := s.Load(ctx); err != nil {
		return dto.DeleteResult{Deleted: len(ids), Message: msg}, err
	}
	return dto.DeleteResult{Deleted: len(ids), Message: msg}, nil
}

// Record returns a record of the current page by id.
func (s *RecordsService) Record(id string) (models.Permit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Permit{}, false
}

// fetch loads page. Failures other than a rejected session are reported as
// a notification and leave an empty table; responses overtaken by a newer
// fetch are dropped.
func (s *RecordsService) fetch(ctx context.Context, page int) (dto.RecordsView, error) {
	ticket := s.gate.Issue()
	s.mu.Lock()
	s.loading = true
	filter := s.filters
	s.mu.Unlock()

	result, err := s.query.FetchPage(ctx, filter, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate.IsLatest(ticket) {
		s.logger.Debug("discarding stale records response", zap.Int("page", page))
		return s.viewLocked(), nil
	}
	s.loading = false
	if err != nil {
		s.records = []models.Permit{}
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return s.viewLocked(), err
		}
		s.lastErr = appErrors.UserMessage(err, "Failed to load records")
		s.notifier.Error(s.lastErr)
		return s.viewLocked(), nil
	}
	s.lastErr = ""
	s.records = result.Records
	s.pagination = result.Pagination
	return s.viewLocked(), nil
}

func (s *RecordsService) viewLocked() dto.RecordsView {
	records := make([]models.Permit, len(s.records))
	copy(records, s.records)
	return dto.RecordsView{
		Filters:    s.filters,
		Records:    records,
		Pagination: s.pagination,
		Selected:   s.selectionLocked(),
		Loading:    s.loading,
		Error:      s.lastErr,
	}
}

func (s *RecordsService) selectionLocked() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
