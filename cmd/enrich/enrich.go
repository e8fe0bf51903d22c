// Package enrich implements the enrichment commands: the full provider
// chain, single-source passes and the offline URL guesser.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/config"
	"github.com/lepinkainen/orpheus/internal/enrich"
	"github.com/lepinkainen/orpheus/internal/musicbrainz"
	"github.com/lepinkainen/orpheus/internal/soundcharts"
	"github.com/lepinkainen/orpheus/internal/soundcloud"
	"github.com/lepinkainen/orpheus/internal/spotify"
	"github.com/lepinkainen/orpheus/internal/tui"
	"github.com/lepinkainen/orpheus/internal/youtube"
)

// selectCandidate is a seam so tests don't open a real terminal UI.
var selectCandidate enrich.SelectFunc = tui.SelectCandidate

// Options holds the shared knobs of the enrichment commands.
type Options struct {
	Input  string
	Output string

	Parallel           bool
	Workers            int
	CheckpointInterval int

	// ResumeFrom skips the first N input records. Start/End select a
	// half-open [Start, End) slice for sharding a large input across
	// invocations. Checkpoint-based resume is automatic and separate.
	ResumeFrom int
	Start      int
	End        int

	NoYouTube    bool
	NoSoundCloud bool
	GuessMissing bool
	Interactive  bool
	Sort         bool
	MinScore     float64

	JSON           bool
	JSONOutput     string
	Markdown       bool
	MarkdownDir    string
	DownloadImages bool
}

// MusicBrainzOptions holds the knobs of the MusicBrainz-only pass.
type MusicBrainzOptions struct {
	Options
	// MBMinScore is the 0-100 MusicBrainz search score threshold.
	MBMinScore int
	// SkipFilled leaves records that already carry links untouched.
	SkipFilled bool
	// IDCacheFile is the JSON name→MBID cache path.
	IDCacheFile string
}

// GuessOptions holds the knobs of the offline guess pass.
type GuessOptions struct {
	Options
	CuratorSuffixes bool
	ContactEmails   bool
}

// EnrichLinks runs the full provider chain over the input spreadsheet.
func EnrichLinks(opts Options) error {
	var providers []enrich.Provider

	var interactive enrich.SelectFunc
	if opts.Interactive {
		interactive = selectCandidate
	}

	if config.HasSoundchartsCredentials() {
		provider := soundcharts.NewProvider(
			soundcharts.NewClient(config.SoundchartsAppID, config.SoundchartsAPIKey))
		provider.Select = interactive
		providers = append(providers, provider)
	} else {
		slog.Warn("Soundcharts credentials not configured, skipping provider")
	}

	var spotifyClient *spotify.Client
	if config.HasSpotifyCredentials() {
		spotifyClient = spotify.NewClient(config.SpotifyClientID, config.SpotifyClientSecret)
		provider := spotify.NewProvider(spotifyClient)
		provider.Select = interactive
		providers = append(providers, provider)
	} else {
		slog.Warn("Spotify credentials not configured, skipping provider")
	}

	if opts.NoYouTube {
		slog.Info("YouTube provider disabled by flag")
	} else if config.YouTubeAPIKey != "" {
		providers = append(providers, youtube.NewProvider(youtube.NewClient(config.YouTubeAPIKey)))
	} else {
		slog.Warn("YouTube API key not configured, skipping provider")
	}

	mbProvider, err := newMusicBrainzProvider("")
	if err != nil {
		return err
	}
	providers = append(providers, mbProvider)

	if opts.NoSoundCloud {
		slog.Info("SoundCloud provider disabled by flag")
	} else {
		providers = append(providers, soundcloud.NewProvider(soundcloud.NewClient()))
	}

	if opts.GuessMissing {
		providers = append(providers, &enrich.GuessProvider{})
	}

	return runEnrichment(opts, providers, spotifyClient)
}

// EnrichMusicBrainz runs a MusicBrainz-only pass.
func EnrichMusicBrainz(opts MusicBrainzOptions) error {
	provider, err := newMusicBrainzProvider(opts.IDCacheFile)
	if err != nil {
		return err
	}
	if opts.MBMinScore > 0 {
		provider.MinScore = opts.MBMinScore
	}

	var chain enrich.Provider = provider
	if opts.SkipFilled {
		chain = &skipFilledProvider{inner: chain}
	}
	return runEnrichment(opts.Options, []enrich.Provider{chain}, nil)
}

// EnrichSoundcharts runs a Soundcharts-only pass.
func EnrichSoundcharts(opts Options) error {
	if !config.HasSoundchartsCredentials() {
		return fmt.Errorf("soundcharts credentials are required (set SOUNDCHARTS_APP_ID and SOUNDCHARTS_API_KEY)")
	}

	provider := soundcharts.NewProvider(
		soundcharts.NewClient(config.SoundchartsAppID, config.SoundchartsAPIKey))
	if opts.Interactive {
		provider.Select = selectCandidate
	}
	return runEnrichment(opts, []enrich.Provider{provider}, nil)
}

// Guess runs the offline URL guesser without touching any network source.
func Guess(opts GuessOptions) error {
	provider := &enrich.GuessProvider{
		CuratorSuffixes: opts.CuratorSuffixes,
		ContactEmails:   opts.ContactEmails,
	}
	return runEnrichment(opts.Options, []enrich.Provider{provider}, nil)
}

func newMusicBrainzProvider(idCacheFile string) (*musicbrainz.Provider, error) {
	provider := musicbrainz.NewProvider(musicbrainz.NewClient())
	if idCacheFile != "" {
		idCache, err := musicbrainz.LoadIDCache(idCacheFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load identifier cache: %w", err)
		}
		provider.IDCache = idCache
	}
	return provider, nil
}

// runEnrichment is the shared command body: read, slice, run, write the
// side outputs.
func runEnrichment(opts Options, providers []enrich.Provider, spotifyClient *spotify.Client) error {
	if len(providers) == 0 {
		return fmt.Errorf("no enrichment providers available; configure credentials or flags")
	}

	if opts.Output == "" {
		opts.Output = opts.Input
	}

	records, err := artist.ReadCSV(opts.Input)
	if err != nil {
		return err
	}
	records = sliceRecords(records, opts)
	if len(records) == 0 {
		slog.Warn("No records to process", "input", opts.Input)
		return nil
	}

	workers := 0
	if opts.Parallel {
		workers = opts.Workers
		if workers <= 0 {
			workers = enrich.DefaultWorkers
		}
	}

	runner := &enrich.Runner{
		Providers:          providers,
		Output:             opts.Output,
		CheckpointInterval: opts.CheckpointInterval,
		MinScore:           opts.MinScore,
		Workers:            workers,
		SortOutput:         opts.Sort,
	}
	if opts.DownloadImages && spotifyClient != nil {
		runner.OnImage = imageDownloader(spotifyClient)
	}

	results, err := runner.Run(context.Background(), records)
	if err != nil {
		return err
	}

	return writeOutputs(results, opts)
}

func sliceRecords(records []artist.Record, opts Options) []artist.Record {
	start := opts.Start
	if opts.ResumeFrom > start {
		start = opts.ResumeFrom
	}
	if start > len(records) {
		start = len(records)
	}
	end := len(records)
	if opts.End > 0 && opts.End < end {
		end = opts.End
	}
	if start > end {
		start = end
	}
	return records[start:end]
}

// skipFilledProvider passes through records that already carry links so a
// repeat pass only touches the gaps.
type skipFilledProvider struct {
	inner enrich.Provider
}

func (s *skipFilledProvider) Name() string { return s.inner.Name() }

func (s *skipFilledProvider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	if rec.HasAnyLink() {
		return nil, nil
	}
	return s.inner.Enrich(ctx, rec)
}
