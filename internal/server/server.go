// Package server is the HTTP ingest/query surface. The navigation
// sensor and content probes POST their events here; the presentation
// layer reads domain views back. Wire timestamps are epoch milliseconds,
// matching the sensor contract.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"surfwatch/internal/config"
	"surfwatch/internal/engine"
	"surfwatch/internal/model"
	"surfwatch/internal/risk"
)

// Server exposes the engine over HTTP.
type Server struct {
	engine  *engine.Engine
	limiter *ipLimiter
	logger  *log.Logger
}

// New creates a Server. The rate limit applies per client address to the
// ingest endpoints only.
func New(eng *engine.Engine, rl config.RateLimitConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine:  eng,
		limiter: newIPLimiter(rl.PerSecond, rl.Burst),
		logger:  logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/navigations", s.handleNavigation)
			r.Post("/signals", s.handleSignals)
		})
		r.Get("/domains/{domain}", s.handleDomain)
		r.Put("/domains/{domain}/pin", s.handlePin(true))
		r.Delete("/domains/{domain}/pin", s.handlePin(false))
		r.Post("/cleanup", s.handleCleanup)
	})
	return r
}

// navigationRequest is the sensor contract: page loads with epoch-ms
// timestamps.
type navigationRequest struct {
	TabID       string `json:"tab_id"`
	OpenerTabID string `json:"opener_tab_id,omitempty"`
	URL         string `json:"url"`
	Timestamp   int64  `json:"timestamp"`
}

// signalsRequest is the content-probe contract.
type signalsRequest struct {
	TabID     string   `json:"tab_id,omitempty"`
	URL       string   `json:"url"`
	Signals   []string `json:"signals"`
	Timestamp int64    `json:"timestamp"`
}

// estimationResponse echoes the classification outcome to the sensor.
type estimationResponse struct {
	Level      string   `json:"level"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Score      int      `json:"score"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	est, err := s.engine.HandleNavigation(r.Context(), model.NavigationEvent{
		TabID:       req.TabID,
		OpenerTabID: req.OpenerTabID,
		URL:         req.URL,
		Timestamp:   fromMillis(req.Timestamp),
	})
	if err != nil {
		s.logger.Printf("navigation: %v", err)
		writeError(w, http.StatusInternalServerError, "event not accepted")
		return
	}
	writeJSON(w, http.StatusAccepted, toEstimationResponse(est))
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	var req signalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	codes := make([]model.SignalCode, len(req.Signals))
	for i, c := range req.Signals {
		codes[i] = model.SignalCode(c)
	}

	est, err := s.engine.HandleSignals(r.Context(), model.SignalMessage{
		TabID:     req.TabID,
		URL:       req.URL,
		Signals:   codes,
		Timestamp: fromMillis(req.Timestamp),
	})
	if err != nil {
		s.logger.Printf("signals: %v", err)
		writeError(w, http.StatusInternalServerError, "event not accepted")
		return
	}
	writeJSON(w, http.StatusAccepted, toEstimationResponse(est))
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	view, err := s.engine.Snapshot(r.Context(), domain)
	if err != nil {
		s.logger.Printf("snapshot %s: %v", domain, err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePin(pinned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain := chi.URLParam(r, "domain")
		if err := s.engine.SetPinned(r.Context(), domain, pinned); err != nil {
			s.logger.Printf("pin %s: %v", domain, err)
			writeError(w, http.StatusInternalServerError, "pin update failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Force bool `json:"force"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	res, err := s.engine.Cleanup(r.Context(), req.Force)
	if err != nil {
		s.logger.Printf("cleanup: %v", err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func toEstimationResponse(est model.ActivityEstimation) estimationResponse {
	reasons := make([]string, len(est.Reasons))
	for i, r := range est.Reasons {
		reasons[i] = string(r)
	}
	return estimationResponse{
		Level:      est.Level.String(),
		Confidence: est.Confidence,
		Reasons:    reasons,
		Score:      risk.Score(est.Level, est.Confidence),
	}
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
