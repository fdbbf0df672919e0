// Package server implements the HTTP preview server.
//
// Clients post a declaration model and receive an id under which every
// emitted document is kept for [cache.TTLDiagram]:
//
//	POST /api/v1/diagrams                 model + options -> {"id", "notations"}
//	GET  /api/v1/diagrams/{id}/{notation} one stored document
//	GET  /healthz                         liveness probe
//
// The "svg" notation is available whenever "dot" was requested.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/typediagram/pkg/buildinfo"
	"github.com/matzehuels/typediagram/pkg/cache"
	"github.com/matzehuels/typediagram/pkg/diagnostics"
	pkgerrors "github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/links"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/observability"
	"github.com/matzehuels/typediagram/pkg/pipeline"
	"github.com/matzehuels/typediagram/pkg/render"
)

// NotationSVG names the rendered diagram in diagram URLs.
const NotationSVG = "svg"

// maxBodyBytes bounds the size of a posted model.
const maxBodyBytes = 10 << 20

// DiagramRequest is the body of POST /api/v1/diagrams.
//
// Options uses the pipeline's JSON form. Source selection and output paths
// are ignored; omitted booleans keep their defaults. Without notations the
// diagram is emitted as DOT and rendered to SVG.
type DiagramRequest struct {
	Files   []*model.FileDeclaration `json:"files"`
	Options pipeline.Options         `json:"options"`
}

// DiagramResponse describes a stored diagram.
type DiagramResponse struct {
	ID        string   `json:"id"`
	Notations []string `json:"notations"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Server serves diagrams produced by a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	store  cache.Cache
	logger *log.Logger
	router chi.Router
}

// New creates a server. Emitted documents are kept in store, which should
// be shared by every instance behind the same address.
func New(runner *pipeline.Runner, store cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1/diagrams", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{id}/{notation}", s.handleGet)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Current()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := DiagramRequest{Options: pipeline.DefaultOptions()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Files) == 0 {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidModel, "request contains no files"))
		return
	}
	if err := model.Validate(req.Files); err != nil {
		s.writeError(w, err)
		return
	}

	opts := requestOptions(req.Options, s.logger)
	if err := pipeline.ValidateNotations(opts.Notations); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	s.runner.Resolve(req.Files, opts)
	docs, err := s.runner.Emit(ctx, req.Files, opts, opts.Notations...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if dot, ok := docs[render.NotationDOT]; ok {
		svg, err := s.runner.RenderSVG(ctx, dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if opts.TypeLinks {
			svg = []byte(links.Apply(string(svg), req.Files, "", opts.Sink))
		}
		docs[NotationSVG] = string(svg)
	}

	id := uuid.NewString()
	notations := make([]string, 0, len(docs))
	for n, doc := range docs {
		if err := s.store.Set(ctx, s.runner.Keyer.DiagramKey(id, n), []byte(doc), cache.TTLDiagram); err != nil {
			s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "store diagram"))
			return
		}
		notations = append(notations, n)
	}
	slices.Sort(notations)

	decls, assocs := model.Count(req.Files)
	s.logger.Debug("stored diagram", "id", id, "notations", notations,
		"declarations", decls, "associations", assocs)
	writeJSON(w, http.StatusCreated, DiagramResponse{ID: id, Notations: notations})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notation := chi.URLParam(r, "notation")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid diagram id %q", id))
		return
	}
	if notation != NotationSVG {
		if err := pipeline.ValidateNotation(notation); err != nil {
			s.writeError(w, err)
			return
		}
	}

	data, hit, err := s.store.Get(r.Context(), s.runner.Keyer.DiagramKey(id, notation))
	if err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "load diagram"))
		return
	}
	if !hit {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeNotFound, "diagram %s has no %s document", id, notation))
		return
	}

	contentType := "text/plain; charset=utf-8"
	if notation == NotationSVG {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requestOptions keeps the diagram settings of a request and drops
// everything that refers to the server's file system.
func requestOptions(in pipeline.Options, logger *log.Logger) pipeline.Options {
	opts := in
	opts.Glob, opts.Model = "", ""
	opts.OutFile, opts.OutDsl, opts.OutMermaidDsl, opts.OutDot = "", "", "", ""
	if len(opts.Notations) == 0 {
		opts.Notations = []string{render.NotationDOT}
	}
	opts.Logger = logger
	opts.Sink = diagnostics.NewLogSink(logger)
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(pkgerrors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: pkgerrors.UserMessage(err),
		Code:  string(pkgerrors.GetCode(err)),
	})
}

func statusFor(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidModel,
		pkgerrors.ErrCodeInvalidNotation, pkgerrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case pkgerrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
