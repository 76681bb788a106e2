package gateway

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/siumai-go/siumai/internal/config"
	"github.com/siumai-go/siumai/internal/executor"
	"github.com/siumai-go/siumai/internal/registry"
)

// Server holds the HTTP router and the lazily-built, per-provider
// executor pool: instead of a fixed model→Provider map built once at
// startup, it resolves lazily through registry.Resolve against the
// registry's open provider table.
type Server struct {
	router chi.Router
	cfg    *config.Config

	mu        sync.RWMutex
	executors map[string]*executor.HTTPExecutor
}

// New creates a Server, wires up routes and middleware, and returns it
// ready to use as an http.Handler.
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg, executors: map[string]*executor.HTTPExecutor{}}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/v1/chat", s.handleChat)

	s.router = r
}

// ServeHTTP makes Server satisfy http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// executorFor returns the cached HTTPExecutor for entry.ID, building one
// the first time that provider is requested. Layering config overrides
// here (instead of inside internal/executor) keeps the executor package
// ignorant of the gateway's config file entirely.
func (s *Server) executorFor(entry registry.Entry) (*executor.HTTPExecutor, error) {
	s.mu.RLock()
	e, ok := s.executors[entry.ID]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.executors[entry.ID]; ok {
		return e, nil
	}

	providerCfg := s.cfg.Providers[entry.ID]
	apiKey, err := registry.APIKey(entry, providerCfg.APIKey)
	if err != nil {
		return nil, err
	}
	exec := executor.NewHTTPExecutor(entry.ID, entry.Spec, entry.Transformers, apiKey)
	if providerCfg.BaseURL != "" {
		exec.BaseOverride = providerCfg.BaseURL
	}
	s.executors[entry.ID] = exec
	return exec, nil
}
