package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *scores.Board, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "raven.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	board := scores.NewBoard(store, scores.DefaultKey, scores.DefaultCapacity, logger)
	srv := httptest.NewServer(NewRouter(board, store, logger))
	t.Cleanup(srv.Close)
	return srv, board, store
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestScoresRoundTrip(t *testing.T) {
	srv, board, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scores")
	if err != nil {
		t.Fatal(err)
	}
	if got := decode[[]scores.Entry](t, resp); len(got) != 0 {
		t.Fatalf("empty board listed %v", got)
	}

	for _, body := range []string{
		`{"name":"A","score":10}`,
		`{"name":"B","score":20}`,
		`{"name":"","score":15}`,
	} {
		resp, err := http.Post(srv.URL+"/api/scores", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST %s: status %d", body, resp.StatusCode)
		}
		resp.Body.Close()
	}

	want := []scores.Entry{{Name: "B", Score: 20}, {Name: scores.UnknownName, Score: 15}, {Name: "A", Score: 10}}
	resp, err = http.Get(srv.URL + "/api/scores")
	if err != nil {
		t.Fatal(err)
	}
	got := decode[[]scores.Entry](t, resp)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	if stored := board.Load(context.Background()); len(stored) != 3 {
		t.Errorf("board holds %d entries, want 3", len(stored))
	}
}

func TestSaveScoreRejectsBadInput(t *testing.T) {
	srv, _, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing score", `{"name":"A"}`},
		{"negative", `{"name":"A","score":-1}`},
		{"unknown field", `{"name":"A","score":1,"cheat":true}`},
		{"fractional", `{"name":"A","score":1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/scores", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if got := decode[map[string]string](t, resp); got["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestQualifies(t *testing.T) {
	srv, board, _ := newTestServer(t)
	ctx := context.Background()
	for i := 1; i <= scores.DefaultCapacity; i++ {
		if _, err := board.Save(ctx, "R", i*10); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		path   string
		status int
		want   bool
	}{
		{"/api/scores/qualifies/11", http.StatusOK, true},
		{"/api/scores/qualifies/10", http.StatusOK, false},
		{"/api/scores/qualifies/abc", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.status)
			resp.Body.Close()
			continue
		}
		if tt.status != http.StatusOK {
			resp.Body.Close()
			continue
		}
		if got := decode[map[string]bool](t, resp); got["qualifies"] != tt.want {
			t.Errorf("%s: qualifies = %v, want %v", tt.path, got["qualifies"], tt.want)
		}
	}
}

func TestRunsAndStats(t *testing.T) {
	srv, _, store := newTestServer(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, r := range []storage.Run{
		{Variant: "raven", Name: "Odin", Score: 4, Cause: "Sunk in the mud of Niflheim.", Duration: 2 * time.Second},
		{Variant: "raven", Name: "Frigg", Score: 9, Cause: "Slain by Midgard's roots.", Duration: 5 * time.Second},
		{Variant: "raven-saga", Name: "Loki", Score: 1},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.RecordRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := http.Get(srv.URL + "/api/runs?variant=raven&limit=5")
	if err != nil {
		t.Fatal(err)
	}
	runs := decode[[]runResponse](t, resp)
	if len(runs) != 2 || runs[0].Name != "Frigg" || runs[0].DurationMS != 5000 || runs[0].ID == "" {
		t.Errorf("runs = %+v", runs)
	}

	resp, err = http.Get(srv.URL + "/api/runs?limit=0")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/stats?variant=raven")
	if err != nil {
		t.Fatal(err)
	}
	st := decode[statsResponse](t, resp)
	if st.Runs != 2 || st.HighScore != 9 || st.TotalScore != 13 || st.FlightTimeMS != 7000 {
		t.Errorf("stats = %+v", st)
	}
	if st.LastPlayed == nil || !st.LastPlayed.Equal(base.Add(time.Minute)) {
		t.Errorf("last played = %v", st.LastPlayed)
	}
}

func TestRunsNotMountedWithoutHistory(t *testing.T) {
	board := scores.NewBoard(scores.NewMemory(), "", 0, log.New(io.Discard))
	srv := httptest.NewServer(NewRouter(board, nil, log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
