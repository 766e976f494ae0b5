// Package engine holds loaded Define-XML sessions.
// Each session owns one parsed document, its OID index and a VLM builder.
// Sessions are created by Load, replaced by Reload and released by Unload.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/internal/config"
	"github.com/SDen99/DatasetViewer-sub000/internal/metrics"
	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/google/uuid"
)

// Lookup errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrRowNotFound     = errors.New("row not found")
)

// Engine manages loaded sessions. It is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byPath   map[string]string

	parseOpts   parser.Options
	builderOpts vlm.Options

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Project shapes parsing and resolution (optional, defaults if nil)
	Project *config.ProjectConfig
	// Metrics receives parse and materialization observations (optional)
	Metrics *metrics.Metrics
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine with no sessions.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := cfg.Project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project configuration: %w", err)
	}
	opts, err := cfg.Project.BuilderOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid project configuration: %w", err)
	}
	opts.Logger = logger

	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	logger.Debug("initializing engine", "derivation", fmt.Sprintf("%T", opts.Deriver))

	return &Engine{
		sessions:    make(map[string]*Session),
		byPath:      make(map[string]string),
		parseOpts:   cfg.Project.ParserOptions(),
		builderOpts: opts,
		metrics:     m,
		logger:      logger,
	}, nil
}

// Metrics returns the metrics the engine reports to.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// Load reads and parses a Define-XML file. Loading a path that is already
// loaded returns the existing session.
func (e *Engine) Load(ctx context.Context, path string) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	e.mu.RLock()
	id, ok := e.byPath[abs]
	s := e.sessions[id]
	e.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err = e.parseFile(ctx, abs)
	if err != nil {
		return nil, err
	}
	s.ID = uuid.NewString()

	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.byPath[abs]; ok {
		// Lost a race with a concurrent Load of the same file.
		return e.sessions[id], nil
	}
	e.sessions[s.ID] = s
	e.byPath[abs] = s.ID
	e.metrics.SessionsLoaded.Set(float64(len(e.sessions)))

	e.logger.Info("loaded define", "session", s.ID, "path", abs, "datasets", len(s.Document.ItemGroups))
	return s, nil
}

// LoadBytes parses data as a Define-XML document named name. The session
// has no path and cannot be reloaded.
func (e *Engine) LoadBytes(ctx context.Context, name string, data []byte) (*Session, error) {
	s, err := e.parse(ctx, name, data)
	if err != nil {
		return nil, err
	}
	s.ID = uuid.NewString()

	e.mu.Lock()
	e.sessions[s.ID] = s
	e.metrics.SessionsLoaded.Set(float64(len(e.sessions)))
	e.mu.Unlock()

	e.logger.Info("loaded define", "session", s.ID, "name", name)
	return s, nil
}

// Reload re-reads the file of a session and replaces it under the same ID.
// On failure the previous session stays loaded.
func (e *Engine) Reload(ctx context.Context, id string) (*Session, error) {
	old, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	if old.Path == "" {
		return nil, fmt.Errorf("session %s was loaded from memory and cannot be reloaded", id)
	}

	s, err := e.parseFile(ctx, old.Path)
	if err != nil {
		e.logger.Warn("reload failed, keeping previous version", "session", id, "error", err)
		return nil, err
	}
	s.ID = id

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[id]; !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e.sessions[id] = s

	e.logger.Info("reloaded define", "session", id, "path", s.Path)
	return s, nil
}

// Get returns a session by ID.
func (e *Engine) Get(id string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// Lookup returns a session by ID or file path.
func (e *Engine) Lookup(key string) (*Session, bool) {
	if s, ok := e.Get(key); ok {
		return s, true
	}
	abs, err := filepath.Abs(key)
	if err != nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.byPath[abs]
	if !ok {
		return nil, false
	}
	return e.sessions[id], true
}

// Sessions returns all sessions ordered by load time.
func (e *Engine) Sessions() []*Session {
	e.mu.RLock()
	out := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	e.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Session) int {
		if c := a.LoadedAt.Compare(b.LoadedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Unload releases a session. It reports whether the session existed.
func (e *Engine) Unload(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return false
	}
	delete(e.sessions, id)
	if s.Path != "" {
		delete(e.byPath, s.Path)
	}
	e.metrics.SessionsLoaded.Set(float64(len(e.sessions)))
	e.logger.Debug("unloaded define", "session", id)
	return true
}

// Materialize builds the value-level metadata table of a dataset in a session.
func (e *Engine) Materialize(id, dataset string) (*vlm.Result, error) {
	s, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	res, err := s.Materialize(dataset)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveResult(res)
	return res, nil
}

// Close releases every session.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.sessions)
	clear(e.byPath)
	e.metrics.SessionsLoaded.Set(0)
	return nil
}

func (e *Engine) parseFile(ctx context.Context, path string) (*Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-selected input file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := e.parse(ctx, filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

func (e *Engine) parse(ctx context.Context, name string, data []byte) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := parser.ParseWithOptions(data, e.parseOpts)
	e.metrics.ObserveParse(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: not a valid Define-XML file: %w", name, err)
	}

	idx := core.NewIndex(doc)
	return &Session{
		Name:     name,
		LoadedAt: time.Now(),
		Document: doc,
		Index:    idx,
		builder:  vlm.NewBuilder(idx, e.builderOpts),
	}, nil
}
