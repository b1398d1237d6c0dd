package models

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar-date wire format used by forms and filters.
const DateLayout = "2006-01-02"

// Relative date-range tokens understood by the query executor.
const (
	RangeAll        = "all"
	RangeLast7Days  = "last7days"
	RangeLast30Days = "last30days"
	RangeLast90Days = "last90days"
	RangeThisYear   = "thisyear"
)

// Filter field names accepted by SetFilter.
const (
	FilterSearch         = "search"
	FilterBurialLocation = "burialLocation"
	FilterGender         = "gender"
	FilterStatus         = "status"
	FilterDateRange      = "dateRange"
	FilterReportType     = "reportType"
	FilterAgeGroup       = "ageGroup"
)

// RecordFilter is the filter set shared by the records and reports views.
// DateRange holds either a relative token or an explicit YYYY-MM-DD date.
type RecordFilter struct {
	Search         string `json:"search"`
	BurialLocation string `json:"burialLocation"`
	Gender         string `json:"gender"`
	Status         string `json:"status"`
	DateRange      string `json:"dateRange"`
}

// Set merges a single field into the filter.
func (f *RecordFilter) Set(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FilterSearch:
		f.Search = value
	case FilterBurialLocation:
		f.BurialLocation = value
	case FilterGender:
		f.Gender = value
	case FilterStatus:
		f.Status = value
	case FilterDateRange:
		f.DateRange = value
	default:
		return fmt.Errorf("unknown filter field %q", field)
	}
	return nil
}

// ReportFilter extends the record filter with report-only selectors.
type ReportFilter struct {
	RecordFilter
	ReportType string `json:"reportType"`
	AgeGroup   string `json:"ageGroup"`
}

// DefaultReportFilter mirrors the reports view initial state.
func DefaultReportFilter() ReportFilter {
	return ReportFilter{
		RecordFilter: RecordFilter{DateRange: RangeAll},
		ReportType:   "Summary",
	}
}

// Set merges a single field, routing report-only fields locally.
func (f *ReportFilter) Set(field, value string) error {
	switch field {
	case FilterReportType:
		f.ReportType = strings.TrimSpace(value)
		return nil
	case FilterAgeGroup:
		f.AgeGroup = strings.TrimSpace(value)
		return nil
	}
	return f.RecordFilter.Set(field, value)
}

// Pagination describes the page window of a paginated permit listing.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// Normalize replaces missing backend values with the first-page defaults.
func (p Pagination) Normalize() Pagination {
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.Total < 0 {
		p.Total = 0
	}
	return p
}

// Clamp bounds n to [1, TotalPages].
func (p Pagination) Clamp(n int) int {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if n < 1 {
		return 1
	}
	if n > last {
		return last
	}
	return n
}
