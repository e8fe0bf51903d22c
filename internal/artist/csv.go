package artist

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lepinkainen/orpheus/internal/csvutil"
	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
)

// nameAliases are the accepted header names for the artist name column,
// compared case-insensitively.
var nameAliases = map[string]bool{
	"artist_name": true,
	"name":        true,
	"artist":      true,
}

var knownColumns = func() map[string]bool {
	m := make(map[string]bool, len(Columns))
	for _, col := range Columns {
		m[col] = true
	}
	return m
}()

// ReadCSV loads records from a CSV file. The header must contain a name
// column (artist_name, name or artist, case-insensitive); a missing name
// column is a fatal SchemaError before any row is processed. Known columns
// map onto Record fields; unknown columns are preserved in Record.Extra.
func ReadCSV(path string) ([]Record, error) {
	headerCheck := func(header []string) error {
		if len(header) == 0 {
			return orpheuserrors.NewSchemaError(path, "empty header")
		}
		for _, col := range header {
			if nameAliases[normalizeColumn(col)] {
				return nil
			}
		}
		return orpheuserrors.NewMissingColumnError(path, "artist_name", header)
	}

	parser := func(header, record []string) (Record, error) {
		var rec Record
		for i, col := range header {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			name := normalizeColumn(col)

			switch {
			case nameAliases[name]:
				rec.Name = value
			case name == "match_score":
				if value != "" {
					score, err := strconv.ParseFloat(value, 64)
					if err != nil {
						return Record{}, fmt.Errorf("invalid match_score %q: %v", value, err)
					}
					rec.MatchScore = score
				}
			case knownColumns[name]:
				rec.SetField(name, value)
			default:
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[col] = value
			}
		}
		if rec.Name == "" {
			return Record{}, fmt.Errorf("record has empty name")
		}
		return rec, nil
	}

	return csvutil.ProcessCSVWithHeader(path, headerCheck, parser, csvutil.ProcessorOptions{SkipInvalid: true})
}

// WriteCSV writes records with the fixed output column order, followed by
// any extra pass-through columns in sorted order. Used for both the final
// output and the checkpoint side file, which share a schema.
func WriteCSV(path string, records []Record) error {
	extraCols := collectExtraColumns(records)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, 0, len(Columns)+len(extraCols))
	header = append(header, Columns...)
	header = append(header, extraCols...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := make([]string, 0, len(header))
		for _, col := range Columns {
			if col == "match_score" {
				row = append(row, formatScore(rec.MatchScore))
				continue
			}
			row = append(row, rec.Field(col))
		}
		for _, col := range extraCols {
			row = append(row, rec.Extra[col])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %q: %w", rec.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func collectExtraColumns(records []Record) []string {
	seen := make(map[string]bool)
	for i := range records {
		for col := range records[i].Extra {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func formatScore(score float64) string {
	if score == 0 {
		return ""
	}
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}
