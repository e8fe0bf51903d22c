package enrich

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/config"
	"github.com/lepinkainen/orpheus/internal/fileutil"
	"github.com/lepinkainen/orpheus/internal/spotify"
	"github.com/spf13/viper"
)

// imageDownloader returns the runner hook that saves artist images as
// resized JPEGs. Existing files are kept unless --update-images is set.
func imageDownloader(client *spotify.Client) func(rec *artist.Record, imageURL string) {
	imageDir := viper.GetString("imageoutputdir")
	if imageDir == "" {
		imageDir = filepath.Join("images", "artists")
	}

	return func(rec *artist.Record, imageURL string) {
		savePath := filepath.Join(imageDir, fileutil.SanitizeFilename(rec.Name)+".jpg")
		if fileutil.FileExists(savePath) && !config.UpdateImages {
			slog.Debug("Artist image already exists, skipping", "path", savePath)
			return
		}

		if err := client.DownloadAndResizeImage(context.Background(), imageURL, savePath, 0); err != nil {
			slog.Warn("Failed to download artist image",
				"artist", rec.Name, "url", imageURL, "error", err)
			return
		}
		slog.Debug("Artist image saved", "artist", rec.Name, "path", savePath)
	}
}
