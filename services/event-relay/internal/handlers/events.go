package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/eventpub/libs/events"
	"github.com/md-rashed-zaman/eventpub/libs/httpx"
)

type EventsHandler struct {
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewEventsHandler(publisher *events.Publisher, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{publisher: publisher, logger: logger}
}

type publishRequest struct {
	EventType string         `json:"eventType"`
	Source    string         `json:"source"`
	Data      map[string]any `json:"data"`
	Async     bool           `json:"async"`
}

type publishResponse struct {
	Topic         string `json:"topic"`
	EventType     string `json:"eventType"`
	CorrelationID string `json:"correlationId"`
	Async         bool   `json:"async"`
}

type topicItem struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// Publish handles POST /api/v1/topics/{topic}/events.
func (h *EventsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	topic := strings.TrimSpace(r.PathValue("topic"))

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.EventType = strings.TrimSpace(req.EventType)
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		req.Source = strings.TrimSpace(r.Header.Get(httpx.SourceHeader))
	}
	if req.EventType == "" || req.Source == "" {
		http.Error(w, "eventType and source are required", http.StatusBadRequest)
		return
	}

	env := events.NewEnvelope(req.EventType, req.Source, req.Data)
	resp := publishResponse{
		Topic:         topic,
		EventType:     env.EventType,
		CorrelationID: env.CorrelationID,
		Async:         req.Async,
	}

	if req.Async {
		// Unknown topics are rejected up front; the async path would only report them later.
		if _, ok := h.publisher.Topics().Destination(topic); !ok {
			http.Error(w, "unknown topic", http.StatusNotFound)
			return
		}
		pending := h.publisher.PublishAsync(r.Context(), topic, env)
		requestID := httpx.RequestIDFromContext(r.Context())
		go func() {
			if err := pending.Wait(); err != nil {
				h.logger.Warn("async publish failed",
					"request_id", requestID,
					"topic", topic,
					"correlation_id", env.CorrelationID,
					"err", err,
				)
			}
		}()
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	if err := h.publisher.Publish(r.Context(), topic, env); err != nil {
		switch {
		case errors.Is(err, events.ErrUnknownTopic):
			http.Error(w, "unknown topic", http.StatusNotFound)
		case errors.Is(err, events.ErrDestinationNotConfigured):
			http.Error(w, "topic destination not configured", http.StatusServiceUnavailable)
		default:
			http.Error(w, "publish failed", http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// ListTopics handles GET /api/v1/topics.
func (h *EventsHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	topics := h.publisher.Topics()
	items := make([]topicItem, 0, topics.Len())
	for _, name := range topics.Names() {
		dest, _ := topics.Destination(name)
		items = append(items, topicItem{Name: name, Configured: dest != ""})
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
