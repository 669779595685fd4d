// Package server provides the HTTP surface of the mine monitoring
// service: the REST API, the MJPEG camera stream and the WebSocket
// event feed.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"minewatch/internal/monitor"
	"minewatch/internal/server/api"
	"minewatch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Monitor   *monitor.Monitor
}

// Server is the HTTP server for the monitoring service.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventsHandler(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Events returns the WebSocket event hub so callers can publish records.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		s.mux.Handle("/api/detections", api.NewDetectionsHandler(s.config.Store))
		s.mux.Handle("/api/violations", api.NewViolationsHandler(s.config.Store))
		s.mux.Handle("/api/alerts", api.NewAlertsHandler(s.config.Store))
		s.mux.Handle("/api/report", api.NewReportHandler(s.config.Store))
		s.mux.Handle("/api/export", api.NewExportHandler(s.config.Store))
	}

	if s.config.Monitor != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/module", s.handleModule)
		s.mux.HandleFunc("/api/enabled", s.handleEnabled)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Monitor))
	}

	s.mux.Handle("/api/events", s.events)

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m := s.config.Monitor
	response := map[string]interface{}{
		"module":            string(m.Module()),
		"enabled":           m.IsEnabled(),
		"history_len":       m.History().Len(),
		"recent_violations": m.Violations().Len(),
		"recent_alerts":     m.Alerts().Len(),
		"ws_clients":        s.events.ClientCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleModule handles GET and PUT /api/module.
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	m := s.config.Monitor

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"module": string(m.Module())})

	case http.MethodPut:
		var req struct {
			Module string `json:"module"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		valid := false
		for _, mod := range monitor.ModuleOrder {
			if string(mod) == req.Module {
				valid = true
				break
			}
		}
		if !valid {
			http.Error(w, "Unknown module", http.StatusBadRequest)
			return
		}

		m.SetModule(monitor.Module(req.Module))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"module": req.Module})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEnabled handles GET and PUT /api/enabled.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	m := s.config.Monitor

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"enabled": m.IsEnabled()})

	case http.MethodPut:
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		m.SetEnabled(req.Enabled)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"enabled": req.Enabled})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
