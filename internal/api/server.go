// Package api exposes the template submission pipeline over HTTP to the
// presentation layer.
package api

import (
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/nftfolio/templatepress/internal/api/middleware"
	"github.com/nftfolio/templatepress/internal/atomic"
	"github.com/nftfolio/templatepress/internal/pipeline"
	"github.com/nftfolio/templatepress/internal/services"
	"github.com/nftfolio/templatepress/internal/utils"
)

// Server wires the session, submission and pipeline layers to the HTTP
// surface.
type Server struct {
	app *fiber.App

	sessionService    services.SessionService
	submissionService services.SubmissionService
	chains            map[string]*atomic.Client
	uploader          *pipeline.PayloadUploader
	pipelineCfg       pipeline.Config

	// Controllers are per-session and in-memory: single-flight submission
	// guarding lives on the controller instance.
	mu          sync.Mutex
	controllers map[string]*pipeline.Controller
}

// NewServer creates the API server.
func NewServer(
	sessionService services.SessionService,
	submissionService services.SubmissionService,
	chains map[string]*atomic.Client,
	uploader *pipeline.PayloadUploader,
	pipelineCfg pipeline.Config,
	authenticator *utils.JwtAuthenticator,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
	})

	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		JWTAuthenticator: authenticator,
		SkipPaths:        []string{"/health"},
	}))

	server := &Server{
		app:               app,
		sessionService:    sessionService,
		submissionService: submissionService,
		chains:            chains,
		uploader:          uploader,
		pipelineCfg:       pipelineCfg,
		controllers:       make(map[string]*pipeline.Controller),
	}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.app.Post("/api/sessions", s.handleCreateSession)
	s.app.Get("/api/sessions/:session_id", s.handleGetSession)
	s.app.Put("/api/sessions/:session_id/schema", s.handleSelectSchema)
	s.app.Put("/api/sessions/:session_id/attributes/:index", s.handleSetImmutable)
	s.app.Post("/api/sessions/:session_id/submit", s.handleSubmit)
	s.app.Get("/api/sessions/:session_id/submissions", s.handleListSubmissions)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
}

// Start starts the server on the given port.
func (s *Server) Start(port int) error {
	log.Printf("API server listening on port %d\n", port)
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
