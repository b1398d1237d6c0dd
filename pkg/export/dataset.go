package export

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Len reports the number of data rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Record returns row i in header order.
func (d Dataset) Record(i int) []string {
	out := make([]string, len(d.Headers))
	for j, h := range d.Headers {
		out[j] = d.Rows[i][h]
	}
	return out
}
