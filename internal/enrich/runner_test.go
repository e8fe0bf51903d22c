package enrich

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/orpheus/internal/artist"
	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
	"github.com/lepinkainen/orpheus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns canned results per artist name and counts calls.
type fakeProvider struct {
	name    string
	results map[string]*Result
	errs    map[string][]error
	calls   map[string]int
}

func newFakeProvider(name string) *fakeProvider {
	return &fakeProvider{
		name:    name,
		results: make(map[string]*Result),
		errs:    make(map[string][]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Enrich(_ context.Context, rec *artist.Record) (*Result, error) {
	call := f.calls[rec.Name]
	f.calls[rec.Name]++
	if errs := f.errs[rec.Name]; call < len(errs) && errs[call] != nil {
		return nil, errs[call]
	}
	return f.results[rec.Name], nil
}

func noSleep(time.Duration) {}

func TestRunDrakeScenario(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	spotify := newFakeProvider("spotify")
	spotify.results["Drake"] = &Result{
		ID:    "3TVXtAsR1Inumwj472S9r4",
		Links: map[string]string{"spotify_id": "3TVXtAsR1Inumwj472S9r4"},
		Score: ScoreExact,
	}
	soundcloud := newFakeProvider("soundcloud_search")

	runner := &Runner{
		Providers: []Provider{spotify, soundcloud},
		Output:    output,
		Sleep:     noSleep,
	}

	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	rec := results[0]
	assert.Equal(t, "3TVXtAsR1Inumwj472S9r4", rec.SpotifyID)
	assert.Equal(t, "spotify", rec.LookupStatus)
	assert.Equal(t, ScoreExact, rec.MatchScore)
	for _, field := range artist.PlatformFields {
		assert.Empty(t, rec.Field(field), field)
	}

	// Completed runs leave no checkpoint behind.
	_, statErr := os.Stat(CheckpointPath(output))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSecondPassIsNoOp(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	first := newFakeProvider("spotify")
	first.results["Drake"] = &Result{
		Links: map[string]string{"instagram_url": "https://www.instagram.com/champagnepapi"},
		Score: ScoreExact,
	}

	runner := &Runner{Providers: []Provider{first}, Output: output, Sleep: noSleep}
	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)

	// Second run over the first run's output, with a provider that now
	// claims a different URL. The filled field must not change.
	loaded, err := artist.ReadCSV(output)
	require.NoError(t, err)

	second := newFakeProvider("spotify")
	second.results["Drake"] = &Result{
		Links: map[string]string{"instagram_url": "https://www.instagram.com/someone-else"},
		Score: ScoreExact,
	}
	rerun := &Runner{Providers: []Provider{second}, Output: output, Sleep: noSleep}
	results2, err := rerun.Run(context.Background(), loaded)
	require.NoError(t, err)

	assert.Equal(t, results[0].InstagramURL, results2[0].InstagramURL)
	assert.Equal(t, "https://www.instagram.com/champagnepapi", results2[0].InstagramURL)
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	// Simulate an interrupted run: Drake is already in the checkpoint.
	checkpointed := []artist.Record{{
		Name:         "Drake",
		SpotifyID:    "3TVXtAsR1Inumwj472S9r4",
		LookupStatus: "spotify",
	}}
	require.NoError(t, artist.WriteCSV(CheckpointPath(output), checkpointed))

	provider := newFakeProvider("spotify")
	provider.results["Future"] = &Result{
		Links: map[string]string{"spotify_id": "1RyvyyTE3xzB2ZywiAwp0i"},
		Score: ScoreExact,
	}

	runner := &Runner{Providers: []Provider{provider}, Output: output, SortOutput: true, Sleep: noSleep}
	input := []artist.Record{{Name: "Drake"}, {Name: "Future"}}
	results, err := runner.Run(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Drake came from the checkpoint untouched, never reprocessed.
	assert.Zero(t, provider.calls["Drake"])
	assert.Equal(t, 1, provider.calls["Future"])

	assert.Equal(t, "Drake", results[0].Name)
	assert.Equal(t, "3TVXtAsR1Inumwj472S9r4", results[0].SpotifyID)
	assert.Equal(t, "Future", results[1].Name)
	assert.Equal(t, "1RyvyyTE3xzB2ZywiAwp0i", results[1].SpotifyID)
}

func TestRateLimitRetriesOnceWithIndicatedDelay(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	provider := newFakeProvider("soundcharts")
	provider.errs["Drake"] = []error{
		orpheuserrors.NewRateLimitErrorWithRetry("429 from soundcharts", 3*time.Second),
	}
	provider.results["Drake"] = &Result{
		Links: map[string]string{"soundcharts_uuid": "11e81bcc-9c1c-ce38-b96b-a0369fe50396"},
	}

	var slept []time.Duration
	runner := &Runner{
		Providers: []Provider{provider},
		Output:    output,
		Sleep:     func(d time.Duration) { slept = append(slept, d) },
	}

	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls["Drake"])
	require.Len(t, slept, 1)
	assert.Equal(t, 3*time.Second, slept[0])
	assert.Equal(t, "11e81bcc-9c1c-ce38-b96b-a0369fe50396", results[0].SoundchartsUUID)
}

func TestSecondRateLimitIsNoResultAndChainContinues(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	limited := newFakeProvider("soundcharts")
	limited.errs["Drake"] = []error{
		orpheuserrors.NewRateLimitErrorWithRetry("429", 3*time.Second),
		orpheuserrors.NewRateLimitErrorWithRetry("429", 3*time.Second),
	}
	limited.results["Drake"] = &Result{
		Links: map[string]string{"soundcharts_uuid": "should-not-appear"},
	}

	next := newFakeProvider("musicbrainz")
	next.results["Drake"] = &Result{
		Links: map[string]string{"instagram_url": "https://www.instagram.com/champagnepapi"},
		Score: ScoreExact,
	}

	runner := &Runner{
		Providers: []Provider{limited, next},
		Output:    output,
		Sleep:     noSleep,
	}

	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)

	assert.Equal(t, 2, limited.calls["Drake"])
	assert.Empty(t, results[0].SoundchartsUUID)
	assert.Equal(t, "https://www.instagram.com/champagnepapi", results[0].InstagramURL)
	assert.Equal(t, "musicbrainz", results[0].LookupStatus)
}

func TestProviderFailureNeverDropsRecord(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	failing := newFakeProvider("spotify")
	failing.errs["Drake"] = []error{assert.AnError}

	runner := &Runner{Providers: []Provider{failing}, Output: output, Sleep: noSleep}
	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, artist.StatusNoResults, results[0].LookupStatus)
	assert.Contains(t, results[0].ErrorMessage, "spotify")
}

func TestMinScoreGate(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	provider := newFakeProvider("musicbrainz")
	provider.results["Drake"] = &Result{
		Links: map[string]string{"instagram_url": "https://www.instagram.com/wrong-drake"},
		Score: ScoreForPosition(3),
	}

	runner := &Runner{
		Providers: []Provider{provider},
		Output:    output,
		MinScore:  0.9,
		Sleep:     noSleep,
	}

	results, err := runner.Run(context.Background(), []artist.Record{{Name: "Drake"}})
	require.NoError(t, err)
	assert.Empty(t, results[0].InstagramURL)
	assert.Equal(t, artist.StatusNoResults, results[0].LookupStatus)
}

func TestRunParallelCollectsAllRecords(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	provider := newFakeProvider("spotify")
	names := []string{"Drake", "Future", "Metro Boomin", "21 Savage", "Travis Scott"}
	var input []artist.Record
	for _, name := range names {
		input = append(input, artist.Record{Name: name})
		provider.results[name] = &Result{
			Links: map[string]string{"spotify_id": "id-" + name},
			Score: ScoreExact,
		}
	}

	runner := &Runner{
		Providers:          []Provider{&syncProvider{inner: provider}},
		Output:             output,
		Workers:            3,
		SortOutput:         true,
		CheckpointInterval: 2,
		Sleep:              noSleep,
	}

	results, err := runner.Run(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, results, len(names))

	// Sorted output restores a stable order after completion-order collection.
	assert.Equal(t, "21 Savage", results[0].Name)
	for _, rec := range results {
		assert.Equal(t, "id-"+rec.Name, rec.SpotifyID)
		assert.Equal(t, "spotify", rec.LookupStatus)
	}
}

func TestStopProcessingWritesCheckpoint(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	provider := newFakeProvider("soundcharts")
	provider.results["Drake"] = &Result{
		Links: map[string]string{"soundcharts_uuid": "uuid-drake"},
	}
	provider.errs["Future"] = []error{orpheuserrors.NewStopProcessingError("user stopped")}

	runner := &Runner{Providers: []Provider{provider}, Output: output, Sleep: noSleep}
	input := []artist.Record{{Name: "Drake"}, {Name: "Future"}, {Name: "21 Savage"}}

	_, err := runner.Run(context.Background(), input)
	require.Error(t, err)
	assert.True(t, orpheuserrors.IsStopProcessingError(err))

	// Progress so far survives in the checkpoint; the final output was
	// never written.
	checkpoint, err := artist.ReadCSV(CheckpointPath(output))
	require.NoError(t, err)
	require.NotEmpty(t, checkpoint)
	assert.Equal(t, "Drake", checkpoint[0].Name)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGuessProviderAsLastLink(t *testing.T) {
	env := testutil.NewTestEnv(t)
	output := env.Path("out.csv")

	spotify := newFakeProvider("spotify")
	spotify.results["DJ Khaled"] = &Result{
		Links: map[string]string{"spotify_id": "0QHgL1lAIqAw0HtD7YldmP"},
		Score: ScoreExact,
	}

	runner := &Runner{
		Providers: []Provider{spotify, &GuessProvider{}},
		Output:    output,
		Sleep:     noSleep,
	}

	results, err := runner.Run(context.Background(), []artist.Record{{Name: "DJ Khaled"}})
	require.NoError(t, err)

	rec := results[0]
	// Verified data keeps its source tag; guessed fields add auto_generated.
	assert.Equal(t, "spotify,"+artist.StatusAutoGenerated, rec.LookupStatus)
	assert.Equal(t, "0QHgL1lAIqAw0HtD7YldmP", rec.SpotifyID)
	assert.Equal(t, "https://www.instagram.com/khaled", rec.InstagramURL)
	assert.Equal(t, "khaled", rec.InstagramHandle)
}

// syncProvider wraps a fakeProvider with a mutex so it can be shared by the
// worker pool.
type syncProvider struct {
	mu    sync.Mutex
	inner *fakeProvider
}

func (s *syncProvider) Name() string { return s.inner.Name() }

func (s *syncProvider) Enrich(ctx context.Context, rec *artist.Record) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Enrich(ctx, rec)
}
