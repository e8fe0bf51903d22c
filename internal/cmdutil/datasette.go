package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/orpheus/internal/datastore"
	"github.com/spf13/viper"
)

// WriteToDatastore writes records to the configured Datasette target when
// datasette output is enabled. The toMap function converts a record into a
// column→value map matching the given schema. An unset datasette.mode means
// the local SQLite store.
func WriteToDatastore[T any](records []T, schema, table, description string, toMap func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = toMap(record)
	}

	mode := viper.GetString("datasette.mode")
	switch mode {
	case "", "local":
		store := datastore.NewSQLiteStore(viper.GetString("datasette.dbfile"))
		if err := store.Connect(); err != nil {
			return fmt.Errorf("failed to connect to SQLite database: %w", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateTable(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
		if err := store.BatchInsert("orpheus", table, rows); err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
		slog.Info("Wrote records to SQLite database", "description", description, "count", len(rows))
	case "remote":
		client := datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("failed to connect to remote Datasette: %w", err)
		}
		defer func() { _ = client.Close() }()

		if err := client.BatchInsert("orpheus", table, rows); err != nil {
			return fmt.Errorf("failed to insert records to remote Datasette: %w", err)
		}
		slog.Info("Wrote records to remote Datasette", "description", description, "count", len(rows))
	default:
		return fmt.Errorf("invalid Datasette mode: %s", mode)
	}

	return nil
}
