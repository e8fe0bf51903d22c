package artist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
	"github.com/lepinkainen/orpheus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVNameAliases(t *testing.T) {
	env := testutil.NewTestEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{"artist_name", "artist_name"},
		{"name", "name"},
		{"artist upper case", "Artist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := strings.ReplaceAll(tt.name, " ", "_") + ".csv"
			env.WriteFile(file, []byte(tt.header+"\nDrake\n"))
			path := env.Path(file)

			records, err := ReadCSV(path)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Drake", records[0].Name)
		})
	}
}

func TestReadCSVMissingNameColumnIsSchemaError(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("bad.csv", []byte("genre,followers\nrap,1000\n"))
	path := env.Path("bad.csv")

	_, err := ReadCSV(path)
	require.Error(t, err)
	assert.True(t, orpheuserrors.IsSchemaError(err))
}

func TestReadCSVPreservesUnknownColumns(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("extra.csv", []byte("artist_name,genre,spotify_id\nDrake,rap,3TVXtAsR1Inumwj472S9r4\n"))
	path := env.Path("extra.csv")

	records, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "3TVXtAsR1Inumwj472S9r4", records[0].SpotifyID)
	assert.Equal(t, "rap", records[0].Extra["genre"])
}

func TestReadCSVSkipsEmptyNames(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("gaps.csv", []byte("artist_name\nDrake\n\nFuture\n"))
	path := env.Path("gaps.csv")

	records, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Drake", records[0].Name)
	assert.Equal(t, "Future", records[1].Name)
}

func TestCSVRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out.csv")

	records := []Record{
		{
			Name:         "Drake",
			SpotifyID:    "3TVXtAsR1Inumwj472S9r4",
			InstagramURL: "https://www.instagram.com/champagnepapi",
			MatchScore:   1.0,
			LookupStatus: "spotify,musicbrainz",
			Country:      "CA",
			Extra:        map[string]string{"genre": "rap"},
		},
		{
			Name:         "Unknown Act",
			LookupStatus: StatusNoResults,
		},
	}

	require.NoError(t, WriteCSV(path, records))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "Drake", loaded[0].Name)
	assert.Equal(t, "3TVXtAsR1Inumwj472S9r4", loaded[0].SpotifyID)
	assert.Equal(t, "https://www.instagram.com/champagnepapi", loaded[0].InstagramURL)
	assert.Equal(t, 1.0, loaded[0].MatchScore)
	assert.Equal(t, "spotify,musicbrainz", loaded[0].LookupStatus)
	assert.Equal(t, "CA", loaded[0].Country)
	assert.Equal(t, "rap", loaded[0].Extra["genre"])

	assert.Equal(t, StatusNoResults, loaded[1].LookupStatus)
	assert.Zero(t, loaded[1].MatchScore)
}

func TestWriteCSVGolden(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("enriched.csv")

	records := []Record{
		{
			Name:            "Drake",
			SoundchartsUUID: "11e81bcc-9c1c-ce38-b96b-a0369fe50396",
			SpotifyID:       "3TVXtAsR1Inumwj472S9r4",
			InstagramURL:    "https://www.instagram.com/champagnepapi",
			InstagramHandle: "champagnepapi",
			Country:         "CA",
			MatchScore:      1.0,
			LookupStatus:    "spotify,musicbrainz",
			Extra:           map[string]string{"genre": "rap"},
		},
		{
			Name:         "Unknown Act",
			LookupStatus: StatusNoResults,
		},
	}
	require.NoError(t, WriteCSV(path, records))

	gh := testutil.NewGoldenHelper(t, filepath.Join("testdata", "write_csv"))
	gh.AssertGoldenFile(path, "enriched.csv")
}

func TestWriteCSVHeaderOrder(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("header.csv")

	records := []Record{{Name: "Drake", Extra: map[string]string{"z_col": "1", "a_col": "2"}}}
	require.NoError(t, WriteCSV(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header := strings.SplitN(string(data), "\n", 2)[0]
	want := strings.Join(Columns, ",") + ",a_col,z_col"
	assert.Equal(t, want, header)
}
