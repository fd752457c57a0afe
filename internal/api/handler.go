// Package api exposes the HTTP surface: the conversation turn endpoint, the
// admin-protected crisis event review endpoints, and health/version probes.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cvmhw/rogercore/internal/audit"
	"github.com/cvmhw/rogercore/internal/database"
	"github.com/cvmhw/rogercore/internal/engine"
	"github.com/cvmhw/rogercore/internal/logger"
	middlewares "github.com/cvmhw/rogercore/internal/middleware"
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/session"
)

const maxTurnTextBytes = 16 * 1024

// Handler handles HTTP requests for the API
type Handler struct {
	engine         *engine.Engine
	events         audit.Store
	sessions       session.Store
	db             *database.DB
	version        string
	buildTime      string
	gitCommit      string
	startTime      time.Time
	adminAuth      func(string) bool
	adminRateLimit int
}

// NewHandler creates a new API handler. adminAuth authorizes the
// X-Admin-Secret header on event review routes; adminRateLimit caps those
// routes per client IP per minute.
func NewHandler(eng *engine.Engine, events audit.Store, sessions session.Store, db *database.DB, adminAuth func(string) bool, adminRateLimit int, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		engine:         eng,
		events:         events,
		sessions:       sessions,
		db:             db,
		version:        version,
		buildTime:      buildTime,
		gitCommit:      gitCommit,
		startTime:      time.Now(),
		adminAuth:      adminAuth,
		adminRateLimit: adminRateLimit,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		// Health check endpoints
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)

		// Conversation surface
		r.Post("/turns", h.postTurnHandler)

		// Crisis event review. Rate limited before auth so guessing attempts
		// are throttled; conversation turns carry no volume guard at all.
		r.With(
			middlewares.RateLimit(h.adminRateLimit),
			middlewares.AdminAuth(h.adminAuth),
		).Group(func(r chi.Router) {
			r.Get("/events", h.getEventsHandler)
			r.Get("/events/{id}", h.getEventHandler)
		})

		// System info
		r.Get("/version", h.versionHandler)
	})

	// Root health check
	r.Get("/health", h.healthHandler)
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler checks if the application is ready to serve traffic
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"events":   "ok",
		"sessions": "ok",
	}

	statusCode := http.StatusOK

	if err := h.events.Health(ctx); err != nil {
		checks["events"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}
	if err := h.sessions.Health(ctx); err != nil {
		checks["sessions"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// turnRequest is the POST /turns body. Session ID is optional; a missing one
// starts a new session.
type turnRequest struct {
	SessionID string   `json:"session_id,omitempty"`
	Text      string   `json:"text"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// postTurnHandler handles POST /turns
func (h *Handler) postTurnHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req turnRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxTurnTextBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "text is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "lat and lon must be provided together")
		return
	}

	result := h.engine.EvaluateTurn(ctx, engine.TurnInput{
		SessionID: req.SessionID,
		Text:      req.Text,
		Lat:       req.Lat,
		Lon:       req.Lon,
	})

	h.writeJSONResponse(w, http.StatusOK, result)
}

// getEventsHandler handles GET /events
func (h *Handler) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := h.parseEventQuery(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.events.QueryEvents(ctx, q)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to query events", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"data":      events,
		"count":     len(events),
		"timestamp": time.Now().UTC(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// getEventHandler handles GET /events/{id}
func (h *Handler) getEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "id")

	if eventID == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "event ID is required")
		return
	}

	event, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get event", "error", err, "event_id", eventID)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if event == nil {
		h.writeErrorResponse(w, r, http.StatusNotFound, "Event not found")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, event)
}

// parseEventQuery parses query parameters into EventQuery
func (h *Handler) parseEventQuery(r *http.Request) (models.EventQuery, error) {
	q := models.EventQuery{}

	// Parse limit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return q, fmt.Errorf("invalid limit: %s", limitStr)
		}
		if limit < 0 || limit > 1000 {
			return q, fmt.Errorf("limit must be between 0 and 1000")
		}
		q.Limit = limit
	}

	// Parse offset
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return q, fmt.Errorf("invalid offset: %s", offsetStr)
		}
		if offset < 0 {
			return q, fmt.Errorf("offset must be non-negative")
		}
		q.Offset = offset
	}

	// Parse time filters
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return q, fmt.Errorf("invalid since format: %s", sinceStr)
		}
		q.Since = since
	}

	if untilStr := r.URL.Query().Get("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return q, fmt.Errorf("invalid until format: %s", untilStr)
		}
		q.Until = until
	}

	// Parse array filters
	q.SessionIDs = r.URL.Query()["session_id"]
	for _, t := range r.URL.Query()["type"] {
		ct := models.CrisisType(t)
		if !ct.Valid() {
			return q, fmt.Errorf("invalid crisis type: %s", t)
		}
		q.Types = append(q.Types, ct)
	}
	for _, s := range r.URL.Query()["severity"] {
		sev := models.Severity(s)
		if !sev.Valid() {
			return q, fmt.Errorf("invalid severity: %s", s)
		}
		q.Severities = append(q.Severities, sev)
	}

	return q, nil
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: r.Header.Get("X-Request-ID"),
	}

	h.writeJSONResponse(w, statusCode, response)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
