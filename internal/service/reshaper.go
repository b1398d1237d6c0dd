package service

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
)

// Gender buckets of the distribution chart.
const (
	genderBucketMale    = "Male"
	genderBucketFemale  = "Female"
	genderBucketUnknown = "Unknown"
)

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var countPrinter = message.NewPrinter(language.English)

// MonthName returns the three-letter name of month 1..12.
func MonthName(month int) (string, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	return monthAbbrev[month-1], true
}

// MonthlyByLocation pivots {month, location, count} tuples into one row per
// month. Months and locations keep their order of first appearance; counts
// for a repeated month/location pair are added together.
func MonthlyByLocation(items []models.MonthlyLocationCount) dto.MonthlyLocationChart {
	chart := dto.MonthlyLocationChart{Rows: []dto.MonthLocationRow{}, Locations: []string{}}
	rowIndex := map[string]int{}
	seenLocation := map[string]bool{}

	for _, item := range items {
		month, ok := MonthName(item.ID.Month)
		if !ok {
			continue
		}
		idx, exists := rowIndex[month]
		if !exists {
			idx = len(chart.Rows)
			rowIndex[month] = idx
			chart.Rows = append(chart.Rows, dto.MonthLocationRow{Month: month, Counts: map[string]int{}})
		}
		location := item.ID.BurialLocation
		chart.Rows[idx].Counts[location] += item.Count
		if !seenLocation[location] {
			seenLocation[location] = true
			chart.Locations = append(chart.Locations, location)
		}
	}
	return chart
}

// GenderDistribution collapses gender groups into Male, Female and Unknown.
// Any id other than Male or Female, including Other, counts as Unknown.
func GenderDistribution(stats []models.GroupCount) []dto.GenderSlice {
	var male, female, unknown int
	for _, g := range stats {
		switch g.ID {
		case genderBucketMale:
			male += g.Count
		case genderBucketFemale:
			female += g.Count
		default:
			unknown += g.Count
		}
	}
	return []dto.GenderSlice{
		{Name: genderBucketMale, Value: male},
		{Name: genderBucketFemale, Value: female},
		{Name: genderBucketUnknown, Value: unknown},
	}
}

// MonthlyTotals maps the overview trend to chart bars, skipping invalid months.
func MonthlyTotals(trend []models.MonthCount) []dto.MonthTotal {
	out := make([]dto.MonthTotal, 0, len(trend))
	for _, item := range trend {
		month, ok := MonthName(item.ID.Month)
		if !ok {
			continue
		}
		out = append(out, dto.MonthTotal{Month: month, Records: item.Count})
	}
	return out
}

// GrowthLabel renders a month-over-month percentage; fallback is used when
// the backend sent no figure.
func GrowthLabel(pct *float64, fallback string) string {
	if pct == nil {
		return fallback
	}
	switch {
	case *pct > 0:
		return "+" + formatPercent(*pct) + "% from last month"
	case *pct < 0:
		return formatPercent(*pct) + "% from last month"
	default:
		return "No change from last month"
	}
}

// SharePercent is part/total as a whole percentage, 0 when total is 0.
func SharePercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// DashboardCards builds the four dashboard headline cards.
func DashboardCards(o models.Overview) []dto.StatCard {
	verifiedCaption := "No records yet"
	if o.TotalRecords > 0 {
		verifiedCaption = fmt.Sprintf("%d%% of total records", SharePercent(o.VerifiedRecords, o.TotalRecords))
	}
	var totalGrowth *float64
	if o.Growth != nil {
		totalGrowth = o.Growth.Total
	}
	return []dto.StatCard{
		{Title: "Total Records", Value: FormatCount(o.TotalRecords), Change: GrowthLabel(totalGrowth, "No data")},
		{Title: "Verified Records", Value: FormatCount(o.VerifiedRecords), Change: verifiedCaption},
		{Title: "Pending Records", Value: FormatCount(o.PendingRecords), Change: "Awaiting verification"},
		{Title: "Uploads This Month", Value: FormatCount(o.UploadsThisMonth), Change: "Current month activity"},
	}
}

// ReportCards builds the four report headline cards. The verified card falls
// back to its share of the total when no growth figure is reported.
func ReportCards(o models.Overview) []dto.StatCard {
	growth := o.Growth
	if growth == nil {
		growth = &models.Growth{}
	}
	verifiedFallback := fmt.Sprintf("%d%% of total", SharePercent(o.VerifiedRecords, o.TotalRecords))
	return []dto.StatCard{
		{Title: "Total Records", Value: strconv.Itoa(o.TotalRecords), Change: GrowthLabel(growth.Total, "No data")},
		{Title: "Males", Value: strconv.Itoa(o.GenderCount(genderBucketMale)), Change: GrowthLabel(growth.Male, "No data")},
		{Title: "Females", Value: strconv.Itoa(o.GenderCount(genderBucketFemale)), Change: GrowthLabel(growth.Female, "No data")},
		{Title: "Verified Records", Value: strconv.Itoa(o.VerifiedRecords), Change: GrowthLabel(growth.Verified, verifiedFallback)},
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
