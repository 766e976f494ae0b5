package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize bounds documents posted to /api/sessions.
const maxUploadSize = 64 << 20

func (s *Server) routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.engine.Metrics().Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleUpload)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleUnload)
				r.Post("/reload", s.handleReload)
				r.Get("/datasets", s.handleDatasets)
				r.Get("/datasets/{dataset}/vlm", s.handleVLM)
				r.Get("/datasets/{dataset}/cell", s.handleCell)
			})
		})
	})
}

type sessionView struct {
	*engine.Session
	Summary engine.Summary `json:"summary"`
}

func viewOf(sess *engine.Session) sessionView {
	return sessionView{Session: sess, Summary: sess.Summary()}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var perr *parser.Error
	switch {
	case errors.Is(err, engine.ErrSessionNotFound),
		errors.Is(err, engine.ErrDatasetNotFound),
		errors.Is(err, engine.ErrRowNotFound):
		status = http.StatusNotFound
	case errors.As(err, &perr):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*engine.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.engine.Get(id)
	if !ok {
		writeError(w, fmt.Errorf("%s: %w", id, engine.ErrSessionNotFound))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(s.engine.Sessions()),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.engine.Sessions()
	out := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, viewOf(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.xml"
	}
	sess, err := s.engine.LoadBytes(r.Context(), name, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleUnload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.engine.Unload(id) {
		writeError(w, fmt.Errorf("%s: %w", id, engine.ErrSessionNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.engine.Reload(r.Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrSessionNotFound) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	s.notifier.Broadcast(id)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Datasets())
}

func (s *Server) handleVLM(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Materialize(chi.URLParam(r, "id"), chi.URLParam(r, "dataset"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	query := engine.CellQuery{
		Paramcd: strings.TrimSpace(q.Get("paramcd")),
		Column:  strings.TrimSpace(q.Get("column")),
		Source:  strings.TrimSpace(q.Get("source")),
		Value:   strings.TrimSpace(q.Get("value")),
	}
	if query.Paramcd == "" || query.Column == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "paramcd and column are required"})
		return
	}

	view, err := sess.Cell(chi.URLParam(r, "dataset"), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleEvents streams session reloads as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case id := <-ch:
			if _, err := fmt.Fprintf(w, "event: reload\ndata: %s\n\n", id); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
