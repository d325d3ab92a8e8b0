package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quillpad/quillpad/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncUserCreated()
	recorder.IncUserCreated()
	recorder.IncAvatarNotModified()

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	body := rec.Body.String()
	for _, line := range []string{
		"quillpad_users_created_total 2",
		"quillpad_articles_created_total 0",
		`quillpad_avatars_served_total{status="not_modified"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("metrics output missing %q\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
