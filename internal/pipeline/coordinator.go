// Package pipeline contains the file lifecycle coordinator: it discovers
// SalesInvoicePrint files in the input directory, claims each exactly once,
// checks for writer locks with bounded retries, runs the normalize/transform
// steps and routes the source file according to the outcome.
//
// Per-file states: Discovered → LockCheck → {Retrying ⇄ LockCheck |
// Abandoned} → Processing → {Success | Failure}. An abandoned (persistently
// locked) file stays in the input directory and is re-discovered by the next
// poll cycle.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoice-transformer/internal/ebis"
	"invoice-transformer/internal/logger"
	"invoice-transformer/internal/notify"
	"invoice-transformer/internal/salesinvoice"
)

// stampFormat is the timestamp embedded in output, archive and error file
// names. Fixed for operational compatibility.
const stampFormat = "20060102_150405"

// summaryTimeFormat is the layout of Config.SummaryAt.
const summaryTimeFormat = "15:04"

// Config carries the injected pipeline settings. Loading them from the
// environment is the caller's concern.
type Config struct {
	InputDir   string
	OutputDir  string
	ArchiveDir string
	ErrorDir   string

	// ArchiveProcessed moves successfully processed sources to ArchiveDir;
	// when false they are deleted instead.
	ArchiveProcessed bool

	// PollInterval is the safety-net re-scan period for the input directory.
	PollInterval time.Duration

	// SettleDelay debounces watch events so writers can finish.
	SettleDelay time.Duration

	// LockRetryMax bounds the lock-check attempts per discovery; LockRetryBase
	// scales the linearly increasing delay between attempts (attempt × base).
	LockRetryMax  int
	LockRetryBase time.Duration

	// SummaryAt is the daily summary time as "HH:MM" local time; empty
	// disables the summary scheduler.
	SummaryAt string
}

// Coordinator runs the pipeline. Files are intentionally processed one at a
// time in discovery order: volume is low and serialization avoids output-name
// collisions.
type Coordinator struct {
	cfg     Config
	events  notify.Publisher
	metrics *Metrics
	log     zerolog.Logger

	queue  chan string
	claims *claimSet

	// now and probe are injection points for tests; defaults are time.Now and
	// an exclusive-open check.
	now   func() time.Time
	probe func(path string) error

	// smu serializes summary emission between the scheduler and shutdown.
	smu         sync.Mutex
	lastSummary time.Time
}

// New creates a coordinator publishing outcome events to pub.
func New(cfg Config, pub notify.Publisher) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		events:  pub,
		metrics: &Metrics{},
		log:     logger.WithComponent("pipeline"),
		queue:   make(chan string, 256),
		claims:  newClaimSet(),
		now:     time.Now,
		probe:   probeExclusive,
	}
}

// Metrics exposes the coordinator's tallies (read by tests and the summary
// scheduler).
func (c *Coordinator) Metrics() *Metrics { return c.metrics }

// Run executes the pipeline until ctx is canceled. The file currently in
// Processing always finishes, including source routing, before Run returns;
// a final summary is flushed when there was unreported activity.
func (c *Coordinator) Run(ctx context.Context) error {
	for _, dir := range []string{c.cfg.InputDir, c.cfg.OutputDir, c.cfg.ArchiveDir, c.cfg.ErrorDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := watchInput(ctx, c.cfg.InputDir, c.cfg.SettleDelay, c.enqueue, c.log); err != nil {
		// Not fatal: the poll cycle still discovers everything, just slower.
		c.log.Warn().Err(err).Msg("Directory watch unavailable, relying on polling")
	}

	c.lastSummary = c.now()
	go c.pollLoop(ctx)
	go c.summaryLoop(ctx)

	// One-shot backlog scan before entering the worker loop.
	c.scan()

	for {
		select {
		case path := <-c.queue:
			c.handle(ctx, path)
		case <-ctx.Done():
			c.flushSummary()
			return nil
		}
	}
}

// enqueue funnels every discovery trigger into the single work queue.
func (c *Coordinator) enqueue(path string) {
	if !isCandidate(path) {
		return
	}
	select {
	case c.queue <- path:
	default:
		// Queue full; the poll cycle will re-discover the file.
		c.log.Warn().Str("file", path).Msg("Work queue full, deferring to next poll")
	}
}

// scan enqueues every candidate currently in the input directory.
func (c *Coordinator) scan() {
	matches, err := filepath.Glob(filepath.Join(c.cfg.InputDir, "*"+matchExtension))
	if err != nil {
		c.log.Error().Err(err).Msg("Input directory scan failed")
		return
	}
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			c.enqueue(m)
		}
	}
}

func (c *Coordinator) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.scan()
		case <-ctx.Done():
			return
		}
	}
}

// handle drives one file through the lifecycle. The claim set makes the
// attempt exclusive regardless of which trigger discovered the file; a stat
// check drops observations of files another attempt already routed away.
func (c *Coordinator) handle(ctx context.Context, path string) {
	if !c.claims.claim(path) {
		return
	}
	defer c.claims.release(path)

	if _, err := os.Stat(path); err != nil {
		return // already processed or withdrawn
	}

	log := c.log.With().
		Str("file", filepath.Base(path)).
		Str("attempt_id", uuid.New().String()).
		Logger()

	if err := c.lockCheck(ctx, path); err != nil {
		// Abandoned: left untouched, re-discovered by the next poll cycle.
		log.Warn().Err(err).
			Int("attempts", c.cfg.LockRetryMax).
			Msg("File still locked after retry budget, leaving in place")
		return
	}

	start := c.now()
	output, err := c.process(path)
	if err != nil {
		log.Error().Err(err).Msg("Processing failed, routing to quarantine")
		c.fail(path, err)
		return
	}

	c.metrics.IncSuccess()
	log.Info().
		Str("output", filepath.Base(output)).
		Dur("duration", c.now().Sub(start)).
		Msg("File processed")
	c.events.Publish(notify.FileProcessed{
		File:   filepath.Base(path),
		Output: filepath.Base(output),
		At:     c.now(),
	})
}

// lockCheck probes for an exclusive open, retrying with a linearly increasing
// delay (attempt × base) up to the configured budget.
func (c *Coordinator) lockCheck(ctx context.Context, path string) error {
	var err error
	for attempt := 1; attempt <= c.cfg.LockRetryMax; attempt++ {
		if err = c.probe(path); err == nil {
			return nil
		}
		if attempt == c.cfg.LockRetryMax {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * c.cfg.LockRetryBase):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("lock check exhausted: %w", err)
}

// probeExclusive is the default lock probe: the file must open read-write,
// which fails while an exporter still holds it.
func probeExclusive(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

// process runs Normalize → Transform and commits the output atomically:
// the document is written to a dot-tmp file, renamed into place, and only
// then is the source routed. If source routing fails the committed output is
// rolled back and the error propagates, so the file is never absent from both
// the input location and exactly one of {output, archive}.
func (c *Coordinator) process(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	rec, err := salesinvoice.Normalize(data, c.now())
	if err != nil {
		return "", err
	}

	out, err := ebis.Transform(rec).Marshal()
	if err != nil {
		return "", err
	}

	base := sourceBase(path)
	stamp := c.now().Format(stampFormat)
	outPath := filepath.Join(c.cfg.OutputDir, base+"_Transformed_"+stamp+".xml")
	tmpPath := filepath.Join(c.cfg.OutputDir, "."+filepath.Base(outPath)+".tmp")

	if err := os.WriteFile(tmpPath, out, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("commit output: %w", err)
	}

	if err := c.routeSource(path, base, stamp); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("route source: %w", err)
	}
	return outPath, nil
}

// routeSource archives or deletes the processed source per the toggle.
func (c *Coordinator) routeSource(path, base, stamp string) error {
	if !c.cfg.ArchiveProcessed {
		return os.Remove(path)
	}
	dst := filepath.Join(c.cfg.ArchiveDir, base+"_"+stamp+filepath.Ext(path))
	return os.Rename(path, dst)
}

// fail quarantines the source with an _ERROR suffix, writes the diagnostic
// sidecar and publishes the error event. Every step is best-effort: a failure
// while failing is logged, never propagated.
func (c *Coordinator) fail(path string, cause error) {
	c.metrics.IncError()

	now := c.now()
	base := sourceBase(path)
	stamp := now.Format(stampFormat)
	errName := base + "_" + stamp + "_ERROR" + filepath.Ext(path)
	errPath := filepath.Join(c.cfg.ErrorDir, errName)

	if err := os.Rename(path, errPath); err != nil {
		c.log.Error().Err(err).Str("file", path).Msg("Could not move file to error location")
	}

	sidecar := strings.TrimSuffix(errPath, filepath.Ext(errPath)) + ".txt"
	diag := fmt.Sprintf("%s\n%v\n", now.Format(time.RFC3339), cause)
	if err := os.WriteFile(sidecar, []byte(diag), 0o644); err != nil {
		c.log.Error().Err(err).Str("file", sidecar).Msg("Could not write diagnostic sidecar")
	}

	detail := ""
	if salesinvoice.IsFormatError(cause) {
		detail = "source document rejected before transformation"
	}
	c.events.Publish(notify.FileFailed{
		File:    filepath.Base(path),
		Message: cause.Error(),
		Detail:  detail,
		At:      now,
	})
}

// summaryLoop periodically checks whether the configured daily summary time
// has passed since the last summary; independent of per-file processing.
func (c *Coordinator) summaryLoop(ctx context.Context) {
	if c.cfg.SummaryAt == "" {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.checkSummary()
		case <-ctx.Done():
			return
		}
	}
}

// checkSummary emits a summary when the daily time boundary has been crossed
// since the last one and there was any activity; both tallies reset to zero.
func (c *Coordinator) checkSummary() {
	due, err := time.ParseInLocation(summaryTimeFormat, c.cfg.SummaryAt, time.Local)
	if err != nil {
		c.log.Warn().Str("summary_at", c.cfg.SummaryAt).Msg("Invalid summary time, skipping")
		return
	}
	now := c.now()
	target := time.Date(now.Year(), now.Month(), now.Day(), due.Hour(), due.Minute(), 0, 0, now.Location())

	c.smu.Lock()
	defer c.smu.Unlock()
	if now.Before(target) || !c.lastSummary.Before(target) || !c.metrics.HasActivity() {
		return
	}
	c.emitSummary(now)
}

// flushSummary emits a final summary on shutdown when there is unreported
// activity.
func (c *Coordinator) flushSummary() {
	c.smu.Lock()
	defer c.smu.Unlock()
	if c.metrics.HasActivity() {
		c.emitSummary(c.now())
	}
}

// emitSummary requires c.smu to be held.
func (c *Coordinator) emitSummary(now time.Time) {
	successes, errors := c.metrics.Reset()
	since := c.lastSummary
	c.lastSummary = now
	c.log.Info().
		Int64("successes", successes).
		Int64("errors", errors).
		Msg("Emitting daily summary")
	c.events.Publish(notify.DailySummary{
		Successes: successes,
		Errors:    errors,
		Since:     since,
		At:        now,
	})
}

// sourceBase is the source file name without directory or extension.
func sourceBase(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
