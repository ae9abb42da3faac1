package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowfind/flowfind/internal/recommend"
)

// streamPacing is the pause between content fragments so the client-side
// rendering stays smooth.
const streamPacing = 10 * time.Millisecond

// Recommender is the pipeline surface the query endpoints consume.
type Recommender interface {
	Answer(ctx context.Context, query string) (*recommend.Recommendation, error)
	AnswerStream(ctx context.Context, query string) iter.Seq2[recommend.Event, error]
}

// QueryHandler serves the recommendation endpoints.
type QueryHandler struct {
	rec    Recommender
	logger *slog.Logger
	pacing time.Duration
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(rec Recommender, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{rec: rec, logger: logger, pacing: streamPacing}
}

// RegisterRoutes registers query routes on the given mux, wrapped in the
// given middleware.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	if mw == nil {
		mw = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /api/query", mw(http.HandlerFunc(h.handleQuery)))
	mux.Handle("POST /api/query/stream", mw(http.HandlerFunc(h.handleStream)))
}

// queryRequest is the request body for both query endpoints.
type queryRequest struct {
	Query string `json:"query"`
}

// handleQuery serves the collected form: the whole answer in one JSON
// response.
func (h *QueryHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a query field", h.logger)
		return
	}

	rec, err := h.rec.Answer(r.Context(), req.Query)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec, h.logger)
}

// streamEvent is the SSE payload: data: {"type": ..., "data": ...}
type streamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// handleStream serves the incremental form over SSE.
//
// Events arrive as "data: {json}\n\n" lines: source_documents first, then
// content fragments, then done. Failures after the stream has started are
// reported as an in-band error event because the status line is already
// sent.
func (h *QueryHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a query field", h.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("response writer does not support streaming")
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	ctx := r.Context()
	started := false

	for ev, err := range h.rec.AnswerStream(ctx, req.Query) {
		if ctx.Err() != nil {
			h.logger.Debug("client disconnected mid-stream")
			return
		}
		if err != nil {
			if !started {
				// Nothing sent yet, a plain HTTP error is still possible.
				h.writeQueryError(w, err)
				return
			}
			h.logger.Error("stream failed", "error", err)
			h.writeEvent(w, flusher, streamEvent{Type: "error", Data: err.Error()})
			return
		}

		switch ev.Type {
		case recommend.EventSourceDocuments:
			started = true
			docs := ev.Documents
			if docs == nil {
				docs = []recommend.Document{}
			}
			h.writeEvent(w, flusher, streamEvent{Type: string(ev.Type), Data: docs})
		case recommend.EventContent:
			h.writeEvent(w, flusher, streamEvent{Type: string(ev.Type), Data: ev.Fragment})
			if h.pacing > 0 {
				time.Sleep(h.pacing)
			}
		case recommend.EventDone:
			h.writeEvent(w, flusher, streamEvent{Type: string(ev.Type)})
		}
	}
}

// writeEvent writes one SSE event and flushes it.
func (h *QueryHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, ev streamEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encoding stream event", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// writeQueryError maps pipeline errors onto HTTP statuses.
func (h *QueryHandler) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "empty_query", "query must not be empty", h.logger)
		return
	}
	h.logger.Error("query failed", "error", err)
	writeError(w, http.StatusInternalServerError, "query_failed", err.Error(), h.logger)
}
