package notify

import (
	"strings"
	"testing"
	"time"
)

func TestFailureBody(t *testing.T) {
	body := failureBody(FileFailed{
		File:    "invoice.xml",
		Message: "unexpected root element: got <b> & more",
		Detail:  "source document rejected before transformation",
		At:      time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	})

	if !strings.Contains(body, "invoice.xml") {
		t.Error("body must name the file")
	}
	if !strings.Contains(body, "&lt;b&gt; &amp; more") {
		t.Error("message must be HTML-escaped")
	}
	if !strings.Contains(body, "rejected before transformation") {
		t.Error("body must carry the detail when present")
	}
}

func TestSummaryBody(t *testing.T) {
	body := summaryBody(DailySummary{
		Successes: 12,
		Errors:    3,
		Since:     time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC),
		At:        time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
	})

	if !strings.Contains(body, ">12<") || !strings.Contains(body, ">3<") {
		t.Errorf("body must carry both tallies: %s", body)
	}
}
