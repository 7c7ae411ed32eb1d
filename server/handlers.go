package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/therealmvp/templates"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Error(message).Render(r.Context(), w); err != nil {
		s.logger.Error("failed to render error page", slog.String("error", err.Error()))
	}
}

func (s *Server) unavailableMessage() string {
	if err := s.dashboard.LastError(); err != nil {
		return "Failed to load player statistics: " + err.Error()
	}
	return "Player statistics have not been loaded yet."
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.dashboard.Chart()
	if !ok {
		s.renderError(w, r, http.StatusServiceUnavailable, s.unavailableMessage())
		return
	}

	option, err := chart.OptionJSON()
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, "Failed to encode chart: "+err.Error())
		return
	}

	component := templates.Index(templates.IndexPage{
		Title:      "TheRealMVP",
		Season:     s.cfg.Season,
		EChartsURL: s.cfg.EChartsURL,
		MountID:    chart.MountID,
		Option:     template.JS(option),
		Records:    chart.Records,
	})
	templ.Handler(component).ServeHTTP(w, r)
}

func (s *Server) splitHandler(w http.ResponseWriter, r *http.Request) {
	series, ok := s.dashboard.Series()
	if !ok {
		s.renderError(w, r, http.StatusServiceUnavailable, s.unavailableMessage())
		return
	}

	var buf bytes.Buffer
	if err := renderSplitPage(&buf, series, s.cfg.Season); err != nil {
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	series, ok := s.dashboard.Series()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": s.unavailableMessage()})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) optionHandler(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.dashboard.Chart()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": s.unavailableMessage()})
		return
	}
	writeJSON(w, http.StatusOK, chart.Option)
}

// refreshHandler re-reads the source and re-runs the pipeline. The
// dashboard has already logged a failure, so only the status is reported here.
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Reload(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	records := 0
	if chart, ok := s.dashboard.Chart(); ok {
		records = chart.Records
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": records,
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newWSClient(uuid.New().String(), conn, s.hub, s.logger)
	s.hub.Register(c)

	// the pumps outlive the request, so they run on the server context
	go c.WritePump(s.ctx)
	go c.ReadPump(s.ctx)
}
