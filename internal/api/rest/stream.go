package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/app/progress"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
)

// analyzeStream runs the analysis while streaming progress to the client as
// server-sent events, followed by a single result (or error) event. Headers
// go out before the work starts, so failures surface as error events rather
// than status codes.
func (h *Handler) analyzeStream(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The reporter sink may be invoked from the handler goroutine only, but
	// the write path is serialized anyway in case that changes.
	var mu sync.Mutex
	sendEvent := func(event string, payload any) {
		mu.Lock()
		defer mu.Unlock()
		data, err := json.Marshal(payload)
		if err != nil {
			zlog.Error().Msgf("failed to encode sse payload: %v", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	reporter := progress.NewReporter(func(e progress.Event) {
		sendEvent("progress", e)
	})

	result, err := h.analyzer.Analyze(r.Context(), req.Text, reporter)
	if err != nil {
		var verr *mood.ValidationError
		if errors.As(err, &verr) {
			sendEvent("error", map[string]string{"error": verr.Error()})
			return
		}
		zlog.Error().Msgf("stream analysis failed: %v", err)
		sendEvent("error", map[string]string{"error": "upstream service error"})
		return
	}

	sendEvent("result", result)
}
