package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowfind/flowfind/internal/config"
	"github.com/flowfind/flowfind/internal/log"
)

func TestServerRoutes(t *testing.T) {
	cfg := &config.Config{
		ServerAddr:  "127.0.0.1:0",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	s := NewServer(cfg, nil, &fakeRecommender{}, &fakeStarService{}, log.NewNop())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	t.Run("liveness", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("readiness without pool", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("GET /ready failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", resp.StatusCode)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nope")
		if err != nil {
			t.Fatalf("GET /nope failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("query method not allowed", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/query")
		if err != nil {
			t.Fatalf("GET /api/query failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", resp.StatusCode)
		}
	})
}
