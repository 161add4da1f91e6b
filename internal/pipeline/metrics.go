package pipeline

import "sync/atomic"

// Metrics holds the success/error tallies accumulated between daily
// summaries. The coordinator's worker writes them and the summary scheduler
// reads and resets them concurrently, so all access is atomic.
type Metrics struct {
	successes atomic.Int64
	errors    atomic.Int64
}

// IncSuccess records one successfully processed file.
func (m *Metrics) IncSuccess() { m.successes.Add(1) }

// IncError records one file routed to quarantine.
func (m *Metrics) IncError() { m.errors.Add(1) }

// Successes returns the current success tally.
func (m *Metrics) Successes() int64 { return m.successes.Load() }

// Errors returns the current error tally.
func (m *Metrics) Errors() int64 { return m.errors.Load() }

// HasActivity reports whether anything was processed since the last reset.
func (m *Metrics) HasActivity() bool {
	return m.successes.Load() > 0 || m.errors.Load() > 0
}

// Reset zeroes both tallies and returns the values they held.
func (m *Metrics) Reset() (successes, errors int64) {
	return m.successes.Swap(0), m.errors.Swap(0)
}
