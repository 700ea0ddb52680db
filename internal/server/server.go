// Package server implements the HTTP front-end: an HTML form that renders
// word-level correction highlights, a JSON API returning the corrected text
// plus a change map, and the protected-word dictionary endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/pravka/internal/corrector"
	"github.com/valpere/pravka/internal/detector"
	"github.com/valpere/pravka/internal/dict"
	"github.com/valpere/pravka/internal/store"
	"github.com/valpere/pravka/internal/validator"
)

const defaultMaxChunkChars = 4000

// Config holds configuration for the HTTP server.
type Config struct {
	Oracle        corrector.CorrectionService
	ServiceCfg    corrector.ServiceConfig
	Store         *store.Store // optional correction memory
	Dict          *dict.Dict   // optional protected-word dictionary
	Port          int
	Logger        *slog.Logger
	MaxChunkChars int
}

// Server is the correction web server.
type Server struct {
	oracle        corrector.CorrectionService
	serviceCfg    corrector.ServiceConfig
	store         *store.Store
	dict          *dict.Dict
	port          int
	logger        *slog.Logger
	maxChunkChars int
	validator     *validator.Validator

	// language detection is built lazily; loading the lingua models is
	// expensive and only needed when a request omits lang_code
	detectOnce sync.Once
	detector   *detector.Detector
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxChunk := cfg.MaxChunkChars
	if maxChunk <= 0 {
		maxChunk = defaultMaxChunkChars
	}

	return &Server{
		oracle:        cfg.Oracle,
		serviceCfg:    cfg.ServiceCfg,
		store:         cfg.Store,
		dict:          cfg.Dict,
		port:          cfg.Port,
		logger:        logger,
		maxChunkChars: maxChunk,
		validator:     validator.New(),
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting correction server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down correction server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Routes builds the chi router with all handlers attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleForm)
	r.Post("/api", s.handleAPI)
	r.Get("/health", s.handleHealth)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Get("/docs", s.handleDocs)

	r.Route("/api/v1/dict", func(r chi.Router) {
		r.Get("/", s.handleDictList)
		r.Post("/", s.handleDictAdd)
		r.Delete("/{word}", s.handleDictRemove)
	})

	return r
}

func (s *Server) languageDetector() *detector.Detector {
	s.detectOnce.Do(func() {
		s.detector = detector.New()
	})
	return s.detector
}
