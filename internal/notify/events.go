// Package notify carries pipeline outcome events to operators.
//
// The pipeline publishes events fire-and-forget: a slow, failing or absent
// notification channel can never block a file's state transition or change
// its outcome. Delivery runs on its own goroutine behind a buffered channel;
// when the buffer is full, events are dropped with a warning.
package notify

import "time"

// Event is implemented by every notification event type.
type Event interface {
	// Kind returns a short machine-readable event name for logging.
	Kind() string
}

// FileProcessed reports one successfully transformed file.
type FileProcessed struct {
	File   string // source file name
	Output string // written output file name
	At     time.Time
}

// Kind implements Event.
func (FileProcessed) Kind() string { return "file_processed" }

// FileFailed reports one file routed to quarantine.
type FileFailed struct {
	File    string // source file name
	Message string // failure summary
	Detail  string // optional diagnostic detail
	At      time.Time
}

// Kind implements Event.
func (FileFailed) Kind() string { return "file_failed" }

// DailySummary reports the tallies accumulated since the previous summary.
type DailySummary struct {
	Successes int64
	Errors    int64
	Since     time.Time // start of the summarized period
	At        time.Time
}

// Kind implements Event.
func (DailySummary) Kind() string { return "daily_summary" }

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(Event)
}

// Sink delivers a single event to its destination (mail, log, ...).
type Sink interface {
	Send(Event) error
}
