// Package server provides a public API for embedding the Intara search proxy.
package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robert-malhotra/intara-search-proxy/internal/api"
	"github.com/robert-malhotra/intara-search-proxy/internal/backend"
	"github.com/robert-malhotra/intara-search-proxy/internal/config"
	"github.com/robert-malhotra/intara-search-proxy/internal/intara"
	"github.com/robert-malhotra/intara-search-proxy/internal/translate"
)

// Options configures the embedded search proxy.
type Options struct {
	// BaseURL is the Intara graph API base URL.
	// Default: "https://intara-api.janes.com/graph"
	BaseURL string

	// TokenURL is the OAuth token exchange endpoint.
	// Default: "https://intara-api.janes.com/oauth/token"
	TokenURL string

	// APIKey is the Intara subscription key (required).
	APIKey string

	// ClientID is the OAuth client identifier (required).
	ClientID string

	// ClientSecret is the OAuth client secret (required).
	ClientSecret string

	// Timeout is the upstream request timeout.
	// Default: 30s
	Timeout time.Duration

	// DefaultComponent is the component searched when a query names none.
	// Default: "military-groups"
	DefaultComponent string

	// MaxPageSize is the largest page a query may request.
	// Default: 200
	MaxPageSize int

	// ComponentsDir is the path to component definition JSON files.
	// Default: "" (uses built-in defaults)
	ComponentsDir string

	// Logger is the slog logger to use.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Server is an Intara search proxy that can be embedded in another application.
type Server struct {
	router chi.Router
}

// New creates a new search proxy server with the given options.
func New(opts Options) (*Server, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}

	// Apply defaults
	if opts.BaseURL == "" {
		opts.BaseURL = "https://intara-api.janes.com/graph"
	}
	if opts.TokenURL == "" {
		opts.TokenURL = "https://intara-api.janes.com/oauth/token"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.DefaultComponent == "" {
		opts.DefaultComponent = "military-groups"
	}
	if opts.MaxPageSize == 0 {
		opts.MaxPageSize = 200
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Build internal config
	cfg := &config.Config{
		Intara: config.IntaraConfig{
			BaseURL:      opts.BaseURL,
			TokenURL:     opts.TokenURL,
			APIKey:       opts.APIKey,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Timeout:      opts.Timeout,
		},
		Search: config.SearchConfig{
			ComponentsDir:    opts.ComponentsDir,
			DefaultComponent: opts.DefaultComponent,
			MaxPageSize:      opts.MaxPageSize,
		},
	}

	// Load components
	var components *config.ComponentRegistry
	var err error
	if opts.ComponentsDir != "" {
		components, err = config.LoadComponents(opts.ComponentsDir)
		if err != nil {
			opts.Logger.Warn("failed to load components, using built-in defaults",
				"dir", opts.ComponentsDir,
				"error", err,
			)
			components = config.DefaultComponents()
		}
	} else {
		components = config.DefaultComponents()
	}

	// Token cache and upstream client
	tokens := intara.NewTokenCache(
		cfg.Intara.TokenURL,
		cfg.Intara.APIKey,
		cfg.Intara.ClientID,
		cfg.Intara.ClientSecret,
		cfg.Intara.Timeout,
	).WithLogger(opts.Logger)

	client := intara.NewClient(cfg.Intara.BaseURL, cfg.Intara.APIKey, tokens, cfg.Intara.Timeout).
		WithLogger(opts.Logger)

	// Translator and backend
	translator := translate.NewTranslator(cfg, components, opts.Logger)
	searchBackend := backend.NewIntaraBackend(client, components, translator, cfg, opts.Logger)

	// HTTP layer
	handlers := api.NewHandlers(cfg, searchBackend, components, opts.Logger)
	router := api.NewRouter(handlers, opts.Logger)

	return &Server{router: router}, nil
}

// Router returns the chi.Router for mounting in another application.
func (s *Server) Router() chi.Router {
	return s.router
}
