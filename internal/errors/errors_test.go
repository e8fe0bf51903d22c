package errors

import (
	stdErrors "errors"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := stdErrors.Join(err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestStopProcessingError(t *testing.T) {
	err := NewStopProcessingError("user stopped")

	if err.Error() != "user stopped" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "user stopped")
	}

	if !IsStopProcessingError(err) {
		t.Fatalf("IsStopProcessingError returned false for StopProcessingError")
	}

	wrapped := stdErrors.Join(err)
	if !IsStopProcessingError(wrapped) {
		t.Fatalf("IsStopProcessingError returned false for wrapped StopProcessingError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	err := NewRateLimitErrorWithRetry("too many requests", 2*time.Minute)

	expected := "too many requests (retry after 2m0s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitErrorWithRetry")
	}

	if err.RetryAfter.Minutes() != 2.0 {
		t.Fatalf("RetryAfter = %v, want 2 minutes", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_ZeroDuration(t *testing.T) {
	err := NewRateLimitErrorWithRetry("rate limited", 0)

	// When RetryAfter is 0, the implementation only adds retry info if > 0
	expected := "rate limited"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if err.RetryAfter != 0 {
		t.Fatalf("RetryAfter = %v, want 0", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_VariousDurations(t *testing.T) {
	tests := []struct {
		name            string
		duration        time.Duration
		expectedMessage string
	}{
		{
			name:            "1 second",
			duration:        1 * time.Second,
			expectedMessage: "rate limited (retry after 1s)",
		},
		{
			name:            "30 seconds",
			duration:        30 * time.Second,
			expectedMessage: "rate limited (retry after 30s)",
		},
		{
			name:            "1 hour",
			duration:        1 * time.Hour,
			expectedMessage: "rate limited (retry after 1h0m0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitErrorWithRetry("rate limited", tt.duration)
			if err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expectedMessage)
			}
		})
	}
}

func TestMissingColumnError(t *testing.T) {
	err := NewMissingColumnError("artists.csv", "artist_name", []string{"uuid", "genre"})

	expected := `artists.csv: missing required column "artist_name" (columns: uuid, genre)`
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsSchemaError(err) {
		t.Fatalf("IsSchemaError returned false for SchemaError")
	}

	if err.Path != "artists.csv" {
		t.Fatalf("Path = %q, want %q", err.Path, "artists.csv")
	}
}

func TestMissingColumnError_NoColumns(t *testing.T) {
	err := NewMissingColumnError("empty.csv", "artist_name", nil)

	expected := `empty.csv: missing required column "artist_name"`
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestSchemaError_FreeForm(t *testing.T) {
	err := NewSchemaError("broken.csv", "empty header row")

	expected := "broken.csv: empty header row"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if err.Columns != nil {
		t.Fatalf("Columns = %v, want nil", err.Columns)
	}
}

func TestSchemaError_Wrapped(t *testing.T) {
	err := NewSchemaError("in.csv", "missing header")
	wrapped := stdErrors.Join(err, stdErrors.New("additional context"))

	if !IsSchemaError(wrapped) {
		t.Fatalf("IsSchemaError returned false for wrapped SchemaError")
	}

	if IsSchemaError(stdErrors.New("plain")) {
		t.Fatalf("IsSchemaError returned true for a plain error")
	}
}
