package models

// GroupCount is one {_id, count} bucket of a backend aggregation.
type GroupCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// MonthKey identifies a calendar month in the monthly trend.
type MonthKey struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month"`
}

// MonthCount is one month of the overall permit trend.
type MonthCount struct {
	ID    MonthKey `json:"_id"`
	Count int      `json:"count"`
}

// MonthLocationKey groups a count by month and burial location.
type MonthLocationKey struct {
	Month          int    `json:"month"`
	BurialLocation string `json:"burialLocation"`
}

// MonthlyLocationCount is one tuple of /api/reports/monthly-trends.
type MonthlyLocationCount struct {
	ID    MonthLocationKey `json:"_id"`
	Count int              `json:"count"`
}

// Growth holds month-over-month percentages; nil means the backend did not
// report a figure, which is rendered differently from a 0% change.
type Growth struct {
	Total    *float64 `json:"total,omitempty"`
	Male     *float64 `json:"male,omitempty"`
	Female   *float64 `json:"female,omitempty"`
	Verified *float64 `json:"verified,omitempty"`
}

// Overview is the aggregate statistics snapshot from /api/reports/overview.
type Overview struct {
	TotalRecords     int          `json:"totalRecords"`
	TotalPermits     *int         `json:"totalPermits,omitempty"`
	VerifiedRecords  int          `json:"verifiedRecords"`
	PendingRecords   int          `json:"pendingRecords"`
	UploadsThisMonth int          `json:"uploadsThisMonth"`
	GenderStats      []GroupCount `json:"genderStats"`
	MonthlyTrend     []MonthCount `json:"monthlyTrend"`
	Growth           *Growth      `json:"growth,omitempty"`
}

// GenderCount returns the count reported for a gender id, or 0.
func (o Overview) GenderCount(id string) int {
	for _, g := range o.GenderStats {
		if g.ID == id {
			return g.Count
		}
	}
	return 0
}

// Empty reports whether the backend has no permits at all yet.
func (o Overview) Empty() bool {
	if o.TotalPermits != nil {
		return *o.TotalPermits == 0
	}
	return o.TotalRecords == 0
}
