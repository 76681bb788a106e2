package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/siumai-go/siumai/internal/registry"
	"github.com/siumai-go/siumai/internal/streaming"
	"github.com/siumai-go/siumai/internal/types"
)

// handleHealth is a basic liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// handleChat handles POST /v1/chat. The "model" field is a
// "provider:model" registry identifier, e.g. "anthropic:claude-haiku-4-5".
// Non-streaming calls return the unified JSON shape; streaming calls
// (`"stream": true`) re-serialize the normalized event sequence into the
// wire protocol named by the `?wire=` query parameter (openai_chat,
// openai_responses, anthropic, gemini — default openai_chat) via the
// streaming bridge's re-serialization path.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var wireReq wireChatRequest
	if err := json.NewDecoder(r.Body).Decode(&wireReq); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if wireReq.Model == "" {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("model is required"))
		return
	}

	entry, model, err := registry.Resolve(wireReq.Model, "")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	req, err := wireReq.toChatRequest(model)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	exec, err := s.executorFor(entry)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("X-Siumai-Provider", entry.ID)
	w.Header().Set("X-Siumai-Model", model)

	if !wireReq.Stream {
		resp, err := exec.Do(r.Context(), req)
		if err != nil {
			writeChatError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fromChatResponse(resp))
		return
	}

	events, err := exec.Stream(r.Context(), req)
	if err != nil {
		writeChatError(w, err)
		return
	}
	s.streamChat(w, r, events)
}

// streamChat drains events through a Bridge targeting the wire protocol
// requested via ?wire=, flushing after every event so the client
// observes genuine incremental delivery rather than buffered output.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, events <-chan types.StreamEvent) {
	target := streaming.TargetWire(r.URL.Query().Get("wire"))
	if target == "" {
		target = streaming.WireOpenAIChat
	}
	behavior := streaming.Drop
	if r.URL.Query().Get("unsupported") == "astext" {
		behavior = streaming.AsText
	}
	bridge := streaming.NewBridge(target, behavior)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)

	for ev := range events {
		if err := bridge.Emit(w, ev); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
	bridge.Done(w)
	if canFlush {
		flusher.Flush()
	}
}

func writeChatError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if se, ok := err.(*types.Error); ok {
		switch se.Kind {
		case types.KindInvalidParameter:
			status = http.StatusBadRequest
		case types.KindUnauthorized:
			status = http.StatusUnauthorized
		case types.KindForbidden:
			status = http.StatusForbidden
		case types.KindNotFound:
			status = http.StatusNotFound
		case types.KindRateLimited:
			status = http.StatusTooManyRequests
		}
	}
	writeJSONError(w, status, err)
}
