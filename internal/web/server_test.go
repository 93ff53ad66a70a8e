package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/pir-video/internal/motion"
	"github.com/sweeney/pir-video/internal/status"
)

func newTestTracker() *status.Tracker {
	start := time.Date(2026, 2, 2, 22, 0, 0, 0, time.UTC)
	t := status.NewTracker(start, status.Config{
		PIRPin:         24,
		Port:           5555,
		SendIntervalMs: 100,
	})
	t.Update(motion.Snapshot{
		Motion:     true,
		Count:      3,
		LastChange: time.Date(2026, 2, 2, 22, 15, 0, 0, time.UTC),
	}, 2)
	return t
}

func TestIndexJSON(t *testing.T) {
	srv := New(":0", newTestTracker())

	req := httptest.NewRequest("GET", "/index.json", nil)
	rec := httptest.NewRecorder()
	srv.handleJSON(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	inner, ok := parsed["status"].(map[string]any)
	if !ok {
		t.Fatalf("missing status object in %s", rec.Body.String())
	}
	if inner["motion"] != true {
		t.Errorf("motion = %v, want true", inner["motion"])
	}
	if inner["motion_count"] != float64(3) {
		t.Errorf("motion_count = %v, want 3", inner["motion_count"])
	}
	if inner["clients_connected"] != float64(2) {
		t.Errorf("clients_connected = %v, want 2", inner["clients_connected"])
	}
}

func TestIndexHTML(t *testing.T) {
	srv := New(":0", newTestTracker())

	for _, path := range []string{"/", "/index.html"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		srv.handleIndex(rec, req)

		if rec.Code != 200 {
			t.Fatalf("GET %s: status = %d, want 200", path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "DETECTED") {
			t.Errorf("GET %s: body missing motion state", path)
		}
		if !strings.Contains(body, "5555") {
			t.Errorf("GET %s: body missing port", path)
		}
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv := New(":0", newTestTracker())

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.handleIndex(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
