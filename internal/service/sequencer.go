package service

import "sync/atomic"

// latestGate tags fetches with a monotonic ticket so that only the response
// to the most recently issued request is applied.
type latestGate struct {
	issued atomic.Uint64
}

// Issue returns the ticket for a new request.
func (g *latestGate) Issue() uint64 {
	return g.issued.Add(1)
}

// IsLatest reports whether ticket belongs to the newest request.
func (g *latestGate) IsLatest(ticket uint64) bool {
	return g.issued.Load() == ticket
}
