package main

import (
	"errors"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"postgres with password", "postgres://quill:s3cret@db:5432/quillpad", "postgres://quill@db:5432/quillpad"},
		{"password only", "redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"no credentials", "redis://cache:6379", "redis://cache:6379"},
		{"password query", "postgres://db/quillpad?password=s3cret", "postgres://db/quillpad?password=redacted"},
		{"sqlite path", "sqlite:./db.sqlite3", "sqlite:./db.sqlite3"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	dsn := "postgres://quill:s3cret@db:5432/quillpad"
	err := errors.New("failed to connect to " + dsn + ": password=hunter2 rejected")

	got := sanitizeError(err, dsn, "")
	if strings.Contains(got, "s3cret") || strings.Contains(got, "hunter2") {
		t.Errorf("sanitizeError leaked a secret: %q", got)
	}
	if !strings.Contains(got, "postgres://quill@db:5432/quillpad") {
		t.Errorf("sanitizeError should keep the redacted URL, got %q", got)
	}

	if sanitizeError(nil) != "" {
		t.Error("sanitizeError(nil) should be empty")
	}
}
