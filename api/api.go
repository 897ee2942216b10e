package api

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/scenario"
	"github.com/globalbuddy/buddy/pkg/storage"
)

// Relay generates replies and owns the live scenario catalog.
type Relay interface {
	chat.Transport
	Catalog() *scenario.Catalog
}

// Server is the API server for chatting and browsing transcripts.
type Server struct {
	config Config
	relay  Relay
	storer storage.Driver
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// storer may be nil, in which case the transcript endpoints answer 404.
func NewServer(config Config, relay Relay, storer storage.Driver, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if config.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: config.AllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept",
		}))
	}

	s := &Server{
		config: config,
		relay:  relay,
		storer: storer,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	apiGroup := app.Group("/api")
	apiGroup.Get("/scenarios", s.handleListScenarios)
	apiGroup.Post("/chat", s.handleChat)
	apiGroup.Post("/decode", s.handleDecode)
	apiGroup.Get("/sessions", s.handleListSessions)
	apiGroup.Get("/sessions/:id/turns", s.handleSessionTurns)

	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Handler adapts the server to net/http, for embedding it in another mux
// or serving it from httptest.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
