package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/store"
)

const maxBodyBytes = 1 << 20

// DraftStore is the persistence the draft routes need.
type DraftStore interface {
	SaveDraft(ctx context.Context, d store.Draft) (uuid.UUID, error)
	GetDraft(ctx context.Context, id uuid.UUID) (store.Draft, error)
	ListDraftsByInspiration(ctx context.Context, inspirationID string) ([]store.Draft, error)
	ReplaceContent(ctx context.Context, id uuid.UUID, v recreation.GeneratedVersion) (store.Draft, error)
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Options configure a Server. Drafts and Bus are optional.
type Options struct {
	Port     int
	APIToken string
	Provider string
	Model    string
	Drafts   DraftStore
	Bus      Publisher
}

type Server struct {
	router *chi.Mux
	port   int
	http   *http.Server

	rec      *recreation.Orchestrator
	drafts   DraftStore
	bus      Publisher
	provider string
	model    string
	logger   *slog.Logger
}

func NewServer(rec *recreation.Orchestrator, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     opts.Port,
		rec:      rec,
		drafts:   opts.Drafts,
		bus:      opts.Bus,
		provider: opts.Provider,
		model:    opts.Model,
		logger:   logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIToken))
		r.Get("/status", s.status)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-versions", s.generateVersions)
			r.Post("/improve-paragraph", s.improveParagraph)
			r.Post("/generate-titles", s.generateTitles)
			r.Post("/check-similarity", s.checkSimilarity)
			r.Post("/check-similarity/batch", s.checkSimilarityBatch)
			r.Post("/rewrite-with-feedback", s.rewriteWithFeedback)
			r.Post("/batch-generate", s.batchGenerate)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Use(s.requireDrafts)
			r.Post("/", s.createDraft)
			r.Get("/", s.listDrafts)
			r.Get("/{id}", s.getDraft)
			r.Post("/{id}/regenerate", s.regenerateDraft)
		})
	})

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// BearerAuthMiddleware rejects requests without the expected bearer token.
// An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireDrafts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.drafts == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "draft store not configured"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":            "recreator",
		"ready":              s.rec.Ready(),
		"provider":           s.provider,
		"model":              s.model,
		"fair_use_threshold": s.rec.Threshold(),
		"drafts":             s.drafts != nil,
		"events":             s.bus != nil,
	})
}

func (s *Server) publish(subject string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var genErr *recreation.GenerationError
	code := http.StatusInternalServerError
	switch {
	case recreation.IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, recreation.ErrNotReady):
		code = http.StatusServiceUnavailable
	case errors.As(err, &genErr):
		code = http.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// decode reads a JSON body into v. An empty body is accepted when optional
// is set.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &recreation.ValidationError{Field: "body", Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}
