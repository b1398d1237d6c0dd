package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
)

// isoLayout matches the millisecond UTC timestamps the backend parses.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	defaultPageSize    = 10
	defaultExportLimit = 10000
)

type permitLister interface {
	List(ctx context.Context, params url.Values) (*models.PermitPage, error)
}

// RecordPage is the normalised result of one permit query.
type RecordPage struct {
	Records    []models.Permit
	Pagination models.Pagination
}

// QueryExecutorConfig tunes page sizes.
type QueryExecutorConfig struct {
	PageSize    int
	ExportLimit int
	Location    *time.Location
}

// QueryExecutor turns a filter set into backend permit queries.
type QueryExecutor struct {
	permits permitLister
	cfg     QueryExecutorConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewQueryExecutor constructs a QueryExecutor.
func NewQueryExecutor(permits permitLister, cfg QueryExecutorConfig, logger *zap.Logger) *QueryExecutor {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.ExportLimit <= 0 {
		cfg.ExportLimit = defaultExportLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryExecutor{permits: permits, cfg: cfg, now: time.Now, logger: logger}
}

// PageSize is the fixed page window.
func (e *QueryExecutor) PageSize() int { return e.cfg.PageSize }

// ExportLimit is the page size of the unpaged full-scope query.
func (e *QueryExecutor) ExportLimit() int { return e.cfg.ExportLimit }

// ResolveDateRange converts a range token or a YYYY-MM-DD date into explicit
// bounds. ok is false when the range adds no bounds.
func (e *QueryExecutor) ResolveDateRange(token string) (start, end time.Time, ok bool) {
	now := e.now().In(e.cfg.Location)
	endOfToday := endOfDay(now)

	switch strings.TrimSpace(token) {
	case "", models.RangeAll:
		return time.Time{}, time.Time{}, false
	case models.RangeLast7Days:
		return now.AddDate(0, 0, -7), endOfToday, true
	case models.RangeLast30Days:
		return now.AddDate(0, 0, -30), endOfToday, true
	case models.RangeLast90Days:
		return now.AddDate(0, 0, -90), endOfToday, true
	case models.RangeThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, e.cfg.Location), endOfToday, true
	}

	day, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(token), e.cfg.Location)
	if err != nil {
		e.logger.Debug("ignoring unknown date range", zap.String("dateRange", token))
		return time.Time{}, time.Time{}, false
	}
	return day, endOfDay(day), true
}

// BuildParams renders the query string for filter. page <= 0 omits the page
// parameter, which is how the full-scope query is issued.
func (e *QueryExecutor) BuildParams(filter models.RecordFilter, page, limit int) url.Values {
	return withWindow(e.filterParams(filter), page, limit)
}

// ScopeParams renders the paged and the full-scope query from one resolution
// of filter, so both carry identical date bounds.
func (e *QueryExecutor) ScopeParams(filter models.RecordFilter, page int) (paged, full url.Values) {
	if page < 1 {
		page = 1
	}
	base := e.filterParams(filter)
	return withWindow(base, page, e.cfg.PageSize), withWindow(base, 0, e.cfg.ExportLimit)
}

// withWindow copies base and adds the page window to the copy.
func withWindow(base url.Values, page, limit int) url.Values {
	params := make(url.Values, len(base)+2)
	for key, values := range base {
		params[key] = append([]string(nil), values...)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

func (e *QueryExecutor) filterParams(filter models.RecordFilter) url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("search", filter.Search)
	set("burialLocation", filter.BurialLocation)
	set("gender", filter.Gender)
	set("status", filter.Status)
	if start, end, ok := e.ResolveDateRange(filter.DateRange); ok {
		params.Set("startDate", start.UTC().Format(isoLayout))
		params.Set("endDate", end.UTC().Format(isoLayout))
	}
	return params
}

// FetchPage runs the paged query.
func (e *QueryExecutor) FetchPage(ctx context.Context, filter models.RecordFilter, page int) (RecordPage, error) {
	if page < 1 {
		page = 1
	}
	return e.fetch(ctx, e.BuildParams(filter, page, e.cfg.PageSize))
}

// Fetch runs a prepared query, typically one half of ScopeParams.
func (e *QueryExecutor) Fetch(ctx context.Context, params url.Values) (RecordPage, error) {
	return e.fetch(ctx, params)
}

// fetch always returns a usable page; on failure it is empty and err says why.
func (e *QueryExecutor) fetch(ctx context.Context, params url.Values) (RecordPage, error) {
	result, err := e.permits.List(ctx, params)
	if err != nil {
		e.logger.Warn("permit query failed", zap.String("query", params.Encode()), zap.Error(err))
		return RecordPage{Records: []models.Permit{}, Pagination: models.Pagination{}.Normalize()}, err
	}
	records := result.Permits
	if records == nil {
		records = []models.Permit{}
	}
	return RecordPage{Records: records, Pagination: result.Pagination()}, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
