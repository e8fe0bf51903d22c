// Package cmd wires the orpheus command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/orpheus/cmd/enrich"
	"github.com/lepinkainen/orpheus/cmd/verify"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/config"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	enrichLinks       = enrich.EnrichLinks
	enrichMusicBrainz = enrich.EnrichMusicBrainz
	enrichSoundcharts = enrich.EnrichSoundcharts
	enrichGuess       = enrich.Guess
	runVerify         = verify.Run
)

// CLI represents the complete command structure for the orpheus application
type CLI struct {
	// Global flags
	Overwrite    bool `help:"Overwrite existing markdown files when processing"`
	UpdateImages bool `help:"Re-download artist images even if they already exist"`

	// Datasette flags
	Datasette   bool   `help:"Enable Datasette output" default:"true"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./orpheus.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Enrich  EnrichCmd  `cmd:"" help:"Enrich an artist spreadsheet with social media links"`
	Verify  VerifyCmd  `cmd:"" help:"Verify URL shapes and report fill rates for an enriched spreadsheet"`
	Cache   CacheCmd   `cmd:"" help:"Cache management commands"`
	Version VersionCmd `cmd:"" help:"Print the orpheus version"`
}

// EnrichCmd groups the enrichment subcommands
type EnrichCmd struct {
	Links       LinksCmd       `cmd:"" help:"Run the full provider chain (Soundcharts, Spotify, YouTube, MusicBrainz, SoundCloud)"`
	Musicbrainz MusicbrainzCmd `cmd:"" help:"Enrich from MusicBrainz URL relations only"`
	Soundcharts SoundchartsCmd `cmd:"" help:"Enrich from the Soundcharts catalog only"`
	Guess       GuessCmd       `cmd:"" help:"Guess profile URLs offline from artist names"`
}

// commonEnrichFlags are shared by every enrichment subcommand.
type commonEnrichFlags struct {
	File               string `short:"f" help:"Path to the input CSV spreadsheet"`
	Output             string `short:"o" help:"Path to the output CSV file (defaults to rewriting the input)"`
	Parallel           bool   `help:"Process records with a bounded worker pool"`
	Workers            int    `help:"Worker pool size for --parallel" default:"3"`
	CheckpointInterval int    `help:"Records between checkpoint writes" default:"25"`
	ResumeFrom         int    `help:"Skip the first N input records"`
	Start              int    `help:"First record index of the shard to process"`
	End                int    `help:"Record index the shard stops before (0 = end of input)"`
	Sort               bool   `help:"Sort the output by artist name"`
	JSON               bool   `help:"Also write the results as JSON"`
	JSONOutput         string `help:"Path to JSON output file (defaults to json/artists.json)"`
	Markdown           bool   `help:"Also write one markdown note per artist"`
	MarkdownOutput     string `help:"Subdirectory under markdown output directory for artist notes" default:"artists"`
}

func (c *commonEnrichFlags) options() (enrich.Options, error) {
	input := c.File
	if input == "" {
		input = viper.GetString("artists.csvfile")
	}
	if input == "" {
		return enrich.Options{}, fmt.Errorf("input CSV file is required (provide via --file flag or artists.csvfile in config)")
	}

	return enrich.Options{
		Input:              input,
		Output:             c.Output,
		Parallel:           c.Parallel,
		Workers:            c.Workers,
		CheckpointInterval: c.CheckpointInterval,
		ResumeFrom:         c.ResumeFrom,
		Start:              c.Start,
		End:                c.End,
		Sort:               c.Sort,
		JSON:               c.JSON,
		JSONOutput:         c.JSONOutput,
		Markdown:           c.Markdown,
		MarkdownDir:        c.MarkdownOutput,
	}, nil
}

// LinksCmd runs the full provider chain
type LinksCmd struct {
	commonEnrichFlags
	NoYoutube      bool    `help:"Skip the YouTube Data API provider"`
	NoSoundcloud   bool    `help:"Skip the SoundCloud search provider"`
	GuessMissing   bool    `help:"Fill fields no provider matched with guessed URLs (tagged auto_generated)"`
	Interactive    bool    `help:"Resolve ambiguous matches in an interactive picker"`
	MinScore       float64 `help:"Discard scored matches below this confidence (0-1)"`
	DownloadImages bool    `help:"Download and resize artist images from Spotify"`
}

func (l *LinksCmd) Run() error {
	opts, err := l.options()
	if err != nil {
		return err
	}
	opts.NoYouTube = l.NoYoutube
	opts.NoSoundCloud = l.NoSoundcloud
	opts.GuessMissing = l.GuessMissing
	opts.Interactive = l.Interactive
	opts.MinScore = l.MinScore
	opts.DownloadImages = l.DownloadImages
	return enrichLinks(opts)
}

// MusicbrainzCmd runs a MusicBrainz-only pass
type MusicbrainzCmd struct {
	commonEnrichFlags
	MinScore    int    `help:"Minimum MusicBrainz search score (0-100) accepted as a match" default:"90"`
	SkipFilled  bool   `help:"Skip records that already have any link"`
	IDCacheFile string `help:"Path to the JSON name-to-MBID cache" default:"mbid-cache.json"`
}

func (m *MusicbrainzCmd) Run() error {
	opts, err := m.options()
	if err != nil {
		return err
	}
	return enrichMusicBrainz(enrich.MusicBrainzOptions{
		Options:     opts,
		MBMinScore:  m.MinScore,
		SkipFilled:  m.SkipFilled,
		IDCacheFile: m.IDCacheFile,
	})
}

// SoundchartsCmd runs a Soundcharts-only pass
type SoundchartsCmd struct {
	commonEnrichFlags
	Interactive bool `help:"Resolve ambiguous matches in an interactive picker"`
}

func (s *SoundchartsCmd) Run() error {
	opts, err := s.options()
	if err != nil {
		return err
	}
	opts.Interactive = s.Interactive
	return enrichSoundcharts(opts)
}

// GuessCmd runs the offline URL guesser
type GuessCmd struct {
	commonEnrichFlags
	CuratorSuffixes bool `help:"Also strip curator suffixes like Records or Music when normalizing names"`
	ContactEmails   bool `help:"Also guess contact email addresses"`
}

func (g *GuessCmd) Run() error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	return enrichGuess(enrich.GuessOptions{
		Options:         opts,
		CuratorSuffixes: g.CuratorSuffixes,
		ContactEmails:   g.ContactEmails,
	})
}

// VerifyCmd checks an enriched spreadsheet
type VerifyCmd struct {
	File string `short:"f" help:"Path to the enriched CSV file" required:""`
	Fix  bool   `help:"Backfill derivable fields (handles, channel IDs) and rewrite the file"`
}

func (v *VerifyCmd) Run() error {
	return runVerify(verify.Options{Input: v.File, Fix: v.Fix})
}

// CacheCmd groups cache management subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Invalidate cached responses for a source"`
}

// VersionCmd prints the build version
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Println("orpheus", Version)
	return nil
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("orpheus"),
		kong.Description("A tool to enrich artist spreadsheets with social media and streaming profiles."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("ImageOutputDir", "./images/artists/")
	viper.SetDefault("OverwriteFiles", false)

	// Datasette defaults
	viper.SetDefault("datasette.enabled", true)
	viper.SetDefault("datasette.dbfile", "./orpheus.db")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Credentials commonly live in a .env next to the spreadsheet.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind provider credentials to config keys
	bindings := map[string]string{
		"SpotifyClientID":     "SPOTIFY_CLIENT_ID",
		"SpotifyClientSecret": "SPOTIFY_CLIENT_SECRET",
		"YouTubeAPIKey":       "YOUTUBE_API_KEY",
		"SoundchartsAppID":    "SOUNDCHARTS_APP_ID",
		"SoundchartsAPIKey":   "SOUNDCHARTS_API_KEY",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "variable", env, "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetOverwriteFiles(cli.Overwrite)
	config.SetUpdateImages(cli.UpdateImages)

	// Update datasette config
	viper.Set("datasette.enabled", cli.Datasette)
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("ORPHEUS_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
