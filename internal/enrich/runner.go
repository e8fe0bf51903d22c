package enrich

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/orpheus/internal/artist"
	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
)

const (
	// DefaultCheckpointInterval is how many processed records trigger a
	// checkpoint write when the caller doesn't override it.
	DefaultCheckpointInterval = 25
	// DefaultWorkers is the worker pool size for parallel runs.
	DefaultWorkers = 3

	defaultRetryAfter = 30 * time.Second
	progressInterval  = 10
)

// CheckpointPath returns the side-file path used to resume an interrupted
// run writing to the given output.
func CheckpointPath(output string) string {
	return output + ".checkpoint.csv"
}

// Runner drives one enrichment pass. Providers are invoked in order per
// record; results merge under first-non-empty-wins. The in-memory result set
// is checkpointed every CheckpointInterval records and written to Output on
// completion, at which point the checkpoint is deleted.
type Runner struct {
	Providers          []Provider
	Output             string
	Checkpoint         string
	CheckpointInterval int
	// MinScore discards scored provider matches below this confidence.
	MinScore float64
	// Workers > 1 enables the bounded worker pool. Results are then
	// collected in completion order, not submission order.
	Workers    int
	SortOutput bool
	// OnImage is called when a provider exposes an artist image for a
	// record that contributed data.
	OnImage func(rec *artist.Record, imageURL string)
	// Sleep is a test seam for rate-limit pauses; defaults to time.Sleep.
	Sleep func(time.Duration)

	mu      sync.Mutex
	strikes map[string]int
}

// Run enriches the given records and writes the final output. Records whose
// names already appear in a loaded checkpoint are skipped. The returned
// slice is the full result set including checkpointed records.
func (r *Runner) Run(ctx context.Context, records []artist.Record) ([]artist.Record, error) {
	if r.CheckpointInterval <= 0 {
		r.CheckpointInterval = DefaultCheckpointInterval
	}
	if r.Checkpoint == "" {
		r.Checkpoint = CheckpointPath(r.Output)
	}
	if r.Sleep == nil {
		r.Sleep = time.Sleep
	}
	r.strikes = make(map[string]int)

	results, done := r.loadCheckpoint()

	pending := make([]artist.Record, 0, len(records))
	for _, rec := range records {
		if done[strings.ToLower(rec.Name)] {
			continue
		}
		pending = append(pending, rec)
	}
	if len(pending) < len(records) {
		slog.Info("Resuming from checkpoint",
			"checkpoint", r.Checkpoint,
			"already_processed", len(records)-len(pending),
			"remaining", len(pending))
	}

	var runErr error
	if r.Workers > 1 {
		results, runErr = r.runParallel(ctx, pending, results)
	} else {
		results, runErr = r.runSequential(ctx, pending, results)
	}

	if runErr != nil {
		// Stopped mid-run: persist progress so the next run resumes.
		if err := artist.WriteCSV(r.Checkpoint, results); err != nil {
			slog.Error("Failed to write checkpoint on stop", "error", err)
		}
		return results, runErr
	}

	if r.SortOutput {
		artist.SortByName(results)
	}

	if err := artist.WriteCSV(r.Output, results); err != nil {
		return results, fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Remove(r.Checkpoint); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove checkpoint", "path", r.Checkpoint, "error", err)
	}

	r.logSummary(results)
	return results, nil
}

func (r *Runner) runSequential(ctx context.Context, pending, results []artist.Record) ([]artist.Record, error) {
	total := len(pending)
	for i, rec := range pending {
		if err := r.processRecord(ctx, &rec); err != nil {
			// The stopped record is not appended, so a resumed run
			// will process it again.
			return results, err
		}
		results = append(results, rec)

		r.logProgress(i+1, total)
		if (i+1)%r.CheckpointInterval == 0 {
			r.writeCheckpoint(results)
		}
	}
	return results, nil
}

// runParallel fans records out to a fixed-size worker pool. Workers only
// return results; this collector goroutine alone appends, checkpoints and
// touches disk, so concurrent completions can't interleave writes.
func (r *Runner) runParallel(ctx context.Context, pending, results []artist.Record) ([]artist.Record, error) {
	jobs := make(chan artist.Record)
	out := make(chan artist.Record)

	var wg sync.WaitGroup
	for w := 0; w < r.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				if err := r.processRecord(ctx, &rec); err != nil {
					slog.Warn("Record processing stopped", "artist", rec.Name, "error", err)
				}
				out <- rec
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range pending {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	total := len(pending)
	processed := 0
	for rec := range out {
		results = append(results, rec)
		processed++
		r.logProgress(processed, total)
		if processed%r.CheckpointInterval == 0 {
			r.writeCheckpoint(results)
		}
	}

	return results, ctx.Err()
}

// processRecord runs the full provider chain for one record. Provider
// failures are logged and treated as no-result for that provider only; the
// record is never dropped. Only a user-driven stop aborts the chain.
func (r *Runner) processRecord(ctx context.Context, rec *artist.Record) error {
	for _, provider := range r.Providers {
		result, err := r.callWithRetry(ctx, provider, rec)
		if err != nil {
			if orpheuserrors.IsStopProcessingError(err) {
				return err
			}
			slog.Warn("Provider lookup failed",
				"provider", provider.Name(), "artist", rec.Name, "error", err)
			rec.ErrorMessage = fmt.Sprintf("%s: %v", provider.Name(), err)
			continue
		}
		if result == nil {
			slog.Debug("No match", "provider", provider.Name(), "artist", rec.Name)
			continue
		}
		if result.Score > 0 && result.Score < r.MinScore {
			slog.Info("Match below confidence threshold, skipping",
				"provider", provider.Name(), "artist", rec.Name,
				"score", result.Score, "min_score", r.MinScore)
			continue
		}

		filled := rec.Merge(result.Links)
		if len(filled) > 0 {
			rec.AddStatus(provider.Name())
			if rec.MatchScore == 0 && result.Score > 0 {
				rec.MatchScore = result.Score
			}
			slog.Debug("Provider contributed fields",
				"provider", provider.Name(), "artist", rec.Name, "fields", filled)
			if result.ImageURL != "" && r.OnImage != nil {
				r.OnImage(rec, result.ImageURL)
			}
		}
	}

	if rec.LookupStatus == "" {
		rec.LookupStatus = artist.StatusNoResults
	}
	return nil
}

// callWithRetry invokes the provider once and, on a rate-limit signal,
// sleeps for the provider-indicated duration and retries exactly once.
// Successive rate limits across the run compound the sleep instead of
// failing the record.
func (r *Runner) callWithRetry(ctx context.Context, provider Provider, rec *artist.Record) (*Result, error) {
	result, err := provider.Enrich(ctx, rec)
	var rlErr *orpheuserrors.RateLimitError
	if !stdErrors.As(err, &rlErr) {
		r.resetStrikes(provider.Name())
		return result, err
	}

	delay := rlErr.RetryAfter
	if delay <= 0 {
		delay = defaultRetryAfter
	}
	strikes := r.bumpStrikes(provider.Name())
	delay *= time.Duration(strikes)

	slog.Warn("Rate limited, retrying once",
		"provider", provider.Name(), "artist", rec.Name, "sleep", delay)
	r.Sleep(delay)

	result, err = provider.Enrich(ctx, rec)
	if orpheuserrors.IsRateLimitError(err) {
		// Second rate limit: treat as no-result, the chain continues.
		slog.Warn("Rate limited again, treating as no result",
			"provider", provider.Name(), "artist", rec.Name)
		return nil, nil
	}
	if err == nil {
		r.resetStrikes(provider.Name())
	}
	return result, err
}

func (r *Runner) bumpStrikes(provider string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strikes[provider]++
	return r.strikes[provider]
}

func (r *Runner) resetStrikes(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.strikes, provider)
}

func (r *Runner) loadCheckpoint() ([]artist.Record, map[string]bool) {
	done := make(map[string]bool)
	if _, err := os.Stat(r.Checkpoint); err != nil {
		return nil, done
	}

	records, err := artist.ReadCSV(r.Checkpoint)
	if err != nil {
		slog.Warn("Failed to load checkpoint, starting fresh",
			"path", r.Checkpoint, "error", err)
		return nil, done
	}
	for _, rec := range records {
		done[strings.ToLower(rec.Name)] = true
	}
	return records, done
}

func (r *Runner) writeCheckpoint(results []artist.Record) {
	if err := artist.WriteCSV(r.Checkpoint, results); err != nil {
		slog.Error("Failed to write checkpoint", "path", r.Checkpoint, "error", err)
		return
	}
	slog.Info("Checkpoint written", "path", r.Checkpoint, "records", len(results))
}

func (r *Runner) logProgress(processed, total int) {
	if total == 0 || processed%progressInterval != 0 && processed != total {
		return
	}
	slog.Info("Progress",
		"processed", processed,
		"total", total,
		"percent", fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100))
}

// logSummary reports per-source contribution counts and per-platform fill
// rates for the completed run.
func (r *Runner) logSummary(results []artist.Record) {
	if len(results) == 0 {
		return
	}

	sources := make(map[string]int)
	noResults := 0
	for i := range results {
		status := results[i].LookupStatus
		if status == "" || status == artist.StatusNoResults {
			noResults++
			continue
		}
		for _, tag := range strings.Split(status, ",") {
			sources[tag]++
		}
	}

	args := []any{"records", len(results), "no_results", noResults}
	for source, count := range sources {
		args = append(args, source, count)
	}
	slog.Info("Enrichment complete", args...)

	for _, field := range artist.PlatformFields {
		filledCount := 0
		for i := range results {
			if results[i].Field(field) != "" {
				filledCount++
			}
		}
		if filledCount == 0 {
			continue
		}
		slog.Info("Field coverage",
			"field", field,
			"filled", filledCount,
			"percent", fmt.Sprintf("%.1f%%", float64(filledCount)/float64(len(results))*100))
	}
}
