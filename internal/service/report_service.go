package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type overviewReader interface {
	Overview(ctx context.Context) (*models.Overview, error)
}

// ReportSnapshot is the in-memory data the export pipeline consumes.
type ReportSnapshot struct {
	Filters     models.ReportFilter
	CurrentPage int
	Page        []models.Permit
	All         []models.Permit
	Overview    *models.Overview
	Cards       []dto.StatCard
	Gender      []dto.GenderSlice
	Monthly     []dto.MonthTotal
	PanelsReady bool
}

// ReportService holds the reports view: the paged table, the full-scope set
// behind exports and the statistics panels.
type ReportService struct {
	query    *QueryExecutor
	stats    overviewReader
	notifier Notifier
	logger   *zap.Logger

	recordsGate latestGate
	statsGate   latestGate

	mu         sync.Mutex
	filters    models.ReportFilter
	pagination models.Pagination
	page       []models.Permit
	all        []models.Permit
	overview   *models.Overview
	cards      []dto.StatCard
	gender     []dto.GenderSlice
	monthly    []dto.MonthTotal
	loading    bool
	message    string
	lastErr    string
}

// NewReportService constructs the reports view state.
func NewReportService(query *QueryExecutor, stats overviewReader, notifier Notifier, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		query:      query,
		stats:      stats,
		notifier:   notifier,
		logger:     logger,
		filters:    models.DefaultReportFilter(),
		pagination: models.Pagination{}.Normalize(),
		page:       []models.Permit{},
		all:        []models.Permit{},
		cards:      []dto.StatCard{},
		gender:     []dto.GenderSlice{},
		monthly:    []dto.MonthTotal{},
	}
}

// View returns a snapshot of the reports view.
func (s *ReportService) View() dto.ReportView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Snapshot returns the data an export renders from.
func (s *ReportService) Snapshot() ReportSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReportSnapshot{
		Filters:     s.filters,
		CurrentPage: s.pagination.CurrentPage,
		Page:        append([]models.Permit(nil), s.page...),
		All:         append([]models.Permit(nil), s.all...),
		Overview:    s.overview,
		Cards:       append([]dto.StatCard(nil), s.cards...),
		Gender:      append([]dto.GenderSlice(nil), s.gender...),
		Monthly:     append([]dto.MonthTotal(nil), s.monthly...),
		PanelsReady: s.overview != nil,
	}
}

// Load fetches statistics and both record queries concurrently, as on mount.
// Each part degrades on its own; only a rejected session is returned.
func (s *ReportService) Load(ctx context.Context) (dto.ReportView, error) {
	s.mu.Lock()
	page := s.pagination.CurrentPage
	s.mu.Unlock()

	var statsErr, recordsErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		statsErr = s.LoadStats(ctx)
	}()
	go func() {
		defer wg.Done()
		_, recordsErr = s.fetch(ctx, page)
	}()
	wg.Wait()

	view := s.View()
	for _, err := range []error{statsErr, recordsErr} {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return view, err
		}
	}
	return view, nil
}

// LoadStats refreshes the statistics panels.
func (s *ReportService) LoadStats(ctx context.Context) error {
	ticket := s.statsGate.Issue()
	overview, err := s.stats.Overview(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.statsGate.IsLatest(ticket) {
		return nil
	}
	if err != nil {
		s.overview = nil
		s.cards = []dto.StatCard{}
		s.gender = []dto.GenderSlice{}
		s.monthly = []dto.MonthTotal{}
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return err
		}
		s.notifier.Error(appErrors.UserMessage(err, "Failed to load statistics"))
		return nil
	}
	s.overview = overview
	s.cards = ReportCards(*overview)
	s.gender = GenderDistribution(overview.GenderStats)
	s.monthly = MonthlyTotals(overview.MonthlyTrend)
	return nil
}

// SetFilter merges one filter field without fetching.
func (s *ReportService) SetFilter(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.filters.Set(field, value); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}

// ApplyFilters returns to page 1 and fetches.
func (s *ReportService) ApplyFilters(ctx context.Context) (dto.ReportView, error) {
	return s.fetch(ctx, 1)
}

// ResetFilters restores the report defaults and fetches page 1.
func (s *ReportService) ResetFilters(ctx context.Context) (dto.ReportView, error) {
	s.mu.Lock()
	s.filters = models.DefaultReportFilter()
	s.mu.Unlock()
	return s.fetch(ctx, 1)
}

// GoToPage clamps n and fetches that page.
func (s *ReportService) GoToPage(ctx context.Context, n int) (dto.ReportView, error) {
	s.mu.Lock()
	page := s.pagination.Clamp(n)
	s.mu.Unlock()
	return s.fetch(ctx, page)
}

// fetch issues the paged and the full-scope query built from a single
// resolution of the filter. Either failing clears both sets.
func (s *ReportService) fetch(ctx context.Context, page int) (dto.ReportView, error) {
	ticket := s.recordsGate.Issue()
	s.mu.Lock()
	s.loading = true
	filter := s.filters.RecordFilter
	s.mu.Unlock()

	pagedParams, fullParams := s.query.ScopeParams(filter, page)
	var paged, full RecordPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		paged, err = s.query.Fetch(gctx, pagedParams)
		return err
	})
	g.Go(func() error {
		var err error
		full, err = s.query.Fetch(gctx, fullParams)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recordsGate.IsLatest(ticket) {
		s.logger.Debug("discarding stale report response", zap.Int("page", page))
		return s.viewLocked(), nil
	}
	s.loading = false
	if err != nil {
		s.page = []models.Permit{}
		s.all = []models.Permit{}
		s.message = ""
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return s.viewLocked(), err
		}
		s.lastErr = appErrors.UserMessage(err, "Failed to load records")
		s.notifier.Error(s.lastErr)
		return s.viewLocked(), nil
	}
	s.lastErr = ""
	s.page = paged.Records
	s.all = full.Records
	s.pagination = paged.Pagination
	s.message = fmt.Sprintf("Found %d records", paged.Pagination.Total)
	return s.viewLocked(), nil
}

func (s *ReportService) viewLocked() dto.ReportView {
	return dto.ReportView{
		Filters:     s.filters,
		Records:     append([]models.Permit{}, s.page...),
		Pagination:  s.pagination,
		ScopeTotal:  len(s.all),
		Overview:    s.overview,
		Cards:       append([]dto.StatCard{}, s.cards...),
		Gender:      append([]dto.GenderSlice{}, s.gender...),
		Monthly:     append([]dto.MonthTotal{}, s.monthly...),
		Loading:     s.loading,
		PanelsReady: s.overview != nil,
		Message:     s.message,
		Error:       s.lastErr,
	}
}
