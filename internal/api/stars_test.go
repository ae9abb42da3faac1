package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowfind/flowfind/internal/log"
	"github.com/flowfind/flowfind/internal/stars"
)

type fakeStarService struct {
	added   bool
	count   int64
	starred bool
	err     error
	gotIP   string
}

func (f *fakeStarService) Add(ctx context.Context, ip, sessionID, userAgent string) (bool, int64, error) {
	f.gotIP = ip
	if f.err != nil {
		return false, 0, f.err
	}
	return f.added, f.count, nil
}

func (f *fakeStarService) Count(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func (f *fakeStarService) HasStarred(ctx context.Context, ip, sessionID string) (bool, error) {
	f.gotIP = ip
	if f.err != nil {
		return false, f.err
	}
	return f.starred, nil
}

func newStarsServer(svc StarService, trustProxy bool) *httptest.Server {
	h := NewStarsHandler(svc, trustProxy, log.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestHandleAddStar(t *testing.T) {
	svc := &fakeStarService{added: true, count: 42}
	srv := newStarsServer(svc, false)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/stars",
		`{"session_id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "user_agent": "test"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got addStarResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !got.Added || got.Count != 42 {
		t.Errorf("response = %+v", got)
	}
	if svc.gotIP == "" {
		t.Error("handler did not pass a client IP")
	}
}

func TestHandleAddStar_InvalidSession(t *testing.T) {
	srv := newStarsServer(&fakeStarService{err: stars.ErrInvalidSession}, false)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/stars", `{"session_id": "nope"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleStarCount(t *testing.T) {
	srv := newStarsServer(&fakeStarService{count: 7}, false)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stars")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got["count"] != 7 {
		t.Errorf("count = %d, want 7", got["count"])
	}
}

func TestHandleStarCheck(t *testing.T) {
	srv := newStarsServer(&fakeStarService{starred: true}, false)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stars/check?session_id=7c9e6679-7425-40de-944b-e07fc1f90ae7")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !got["starred"] {
		t.Error("starred = false, want true")
	}
}

func TestHandleAddStar_ProxyIP(t *testing.T) {
	svc := &fakeStarService{added: true}
	h := NewStarsHandler(svc, true, log.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/stars",
		strings.NewReader(`{"session_id": "7c9e6679-7425-40de-944b-e07fc1f90ae7"}`))
	req.Header.Set("X-Real-IP", "203.0.113.9")
	req.RemoteAddr = "10.0.0.1:1234"

	mux.ServeHTTP(httptest.NewRecorder(), req)

	if svc.gotIP != "203.0.113.9" {
		t.Errorf("client IP = %q, want proxy header value", svc.gotIP)
	}
}
