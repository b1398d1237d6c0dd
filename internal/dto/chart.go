package dto

import (
	"encoding/json"
)

// MonthLocationRow is one month of the location chart. It marshals flat as
// {"month": "Jan", "<location>": count, ...}; a location without a count for
// the month is omitted and plotted as zero.
type MonthLocationRow struct {
	Month  string
	Counts map[string]int
}

// MarshalJSON flattens the row into the shape charting libraries expect.
func (r MonthLocationRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Counts)+1)
	for location, count := range r.Counts {
		out[location] = count
	}
	out["month"] = r.Month
	return json.Marshal(out)
}

// UnmarshalJSON restores a flattened row.
func (r *MonthLocationRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Counts = make(map[string]int, len(raw))
	for key, value := range raw {
		if key == "month" {
			if err := json.Unmarshal(value, &r.Month); err != nil {
				return err
			}
			continue
		}
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			return err
		}
		r.Counts[key] = n
	}
	return nil
}

// MonthlyLocationChart holds the chart rows plus the series (locations) in
// order of first appearance.
type MonthlyLocationChart struct {
	Rows      []MonthLocationRow `json:"rows"`
	Locations []string           `json:"locations"`
}

// GenderSlice is one pie segment.
type GenderSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthTotal is one bar of the monthly trend chart.
type MonthTotal struct {
	Month   string `json:"month"`
	Records int    `json:"Records"`
}

// StatCard is a headline number on the dashboard or report view.
type StatCard struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
}
