// Package api serves the device registry over HTTP with huma.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/videodev/internal/api/models"
	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/internal/events"
	"github.com/smazurov/videodev/internal/logging"
	"github.com/smazurov/videodev/internal/version"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// Options configures the API server.
type Options struct {
	AuthUsername string
	AuthPassword string
	Registry     *devices.Registry
	EventBus     *events.Bus
	// OpenOptions are passed to v4l2.Open for live queries.
	OpenOptions []v4l2.OpenOption
	// MetricsHandler is mounted at /metrics when set, behind basic auth
	// when credentials are configured.
	MetricsHandler http.Handler
}

// Server is the huma API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	registry   *devices.Registry
	eventBus   *events.Bus
	openOpts   []v4l2.OpenOption
	logger     *slog.Logger
}

// NewServer creates the API and registers every route.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	addCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("videodev API", version.String())
	config.Info.Description = "Inventory and capabilities of the V4L2 video devices on this host"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api: api,
		mux: mux,
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		registry: opts.Registry,
		eventBus: opts.EventBus,
		openOpts: opts.OpenOptions,
		logger:   logging.GetLogger("api"),
	}
	if server.eventBus == nil {
		server.eventBus = events.New()
	}
	if server.registry == nil {
		server.registry = devices.NewRegistry(devices.WithBus(server.eventBus))
	}

	authEnabled := opts.AuthUsername != "" && opts.AuthPassword != ""
	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if authEnabled {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.MetricsHandler != nil {
		metrics := opts.MetricsHandler
		if authEnabled {
			metrics = requireBasicAuth(metrics, opts.AuthUsername, opts.AuthPassword)
		}
		mux.Handle("GET /metrics", metrics)
	}

	server.registerRoutes()
	return server
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves HTTP on addr until Stop is called. Start after Stop returns
// nil immediately.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("Starting API server", "addr", ln.Addr().String())
	s.logger.Info("OpenAPI documentation available", "url", "http://"+ln.Addr().String()+"/docs")

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, closing open event streams once ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
				Devices: len(s.registry.List()),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				BuildID:   info.BuildID,
				GoVersion: info.GoVersion,
				Compiler:  info.Compiler,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerDeviceRoutes()
	s.registerControlRoutes()
	s.registerReferenceRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
}
