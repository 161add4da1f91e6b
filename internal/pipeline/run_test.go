package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_ProcessesBacklogAndWatchedFiles exercises the full Run loop: the
// startup scan picks up a pre-existing file and the watcher (or, failing
// that, a poll) picks up a file deposited while running.
func TestRun_ProcessesBacklogAndWatchedFiles(t *testing.T) {
	c, pub := newTestCoordinator(t, true)
	c.cfg.PollInterval = 50 * time.Millisecond
	dropFile(t, c.cfg.InputDir, "backlog.xml", validInvoice)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	waitFor(t, "backlog file processed", func() bool {
		return c.metrics.Successes() == 1
	})

	dropFile(t, c.cfg.InputDir, "live.xml", validInvoice)
	waitFor(t, "live file processed", func() bool {
		return c.metrics.Successes() == 2
	})

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	outputs := listDir(t, c.cfg.OutputDir)
	if len(outputs) != 2 {
		t.Errorf("expected 2 output files, got %v", outputs)
	}
	if remaining := listDir(t, c.cfg.InputDir); len(remaining) != 0 {
		t.Errorf("input directory must be drained, got %v", remaining)
	}

	// Shutdown flushes a final summary for the unreported activity.
	kinds := pub.kinds()
	if kinds[len(kinds)-1] != "daily_summary" {
		t.Errorf("expected final summary on shutdown, got %v", kinds)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// TestRun_NeverLosesFiles drops a mix of good and bad files and verifies every
// source ends up in exactly one of {archive, error}, with outputs only for
// the good ones.
func TestRun_NeverLosesFiles(t *testing.T) {
	c, _ := newTestCoordinator(t, true)
	c.cfg.PollInterval = 50 * time.Millisecond

	dropFile(t, c.cfg.InputDir, "good-1.xml", validInvoice)
	dropFile(t, c.cfg.InputDir, "good-2.xml", validInvoice)
	dropFile(t, c.cfg.InputDir, "bad.xml", `<NotAnInvoice/>`)
	dropFile(t, c.cfg.InputDir, "broken.xml", `<SalesInvoicePrint><oops>`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	waitFor(t, "all files routed", func() bool {
		return c.metrics.Successes() == 2 && c.metrics.Errors() == 2
	})
	cancel()
	<-done

	if got := listDir(t, c.cfg.OutputDir); len(got) != 2 {
		t.Errorf("outputs: got %v", got)
	}
	if got := listDir(t, c.cfg.ArchiveDir); len(got) != 2 {
		t.Errorf("archive: got %v", got)
	}
	// Each quarantined file brings its sidecar.
	if got := listDir(t, c.cfg.ErrorDir); len(got) != 4 {
		t.Errorf("error dir: got %v", got)
	}
	if got := listDir(t, c.cfg.InputDir); len(got) != 0 {
		t.Errorf("input not drained: %v", got)
	}

	var err error
	if _, err = os.Stat(filepath.Join(c.cfg.ArchiveDir, "good-1_20240315_103000.xml")); err != nil {
		t.Errorf("archived good-1 missing: %v", err)
	}
	if _, err = os.Stat(filepath.Join(c.cfg.ErrorDir, "bad_20240315_103000_ERROR.xml")); err != nil {
		t.Errorf("quarantined bad.xml missing: %v", err)
	}
}
