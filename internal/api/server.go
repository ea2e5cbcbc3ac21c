// Package api exposes the query engine over HTTP.
package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/querygate-io/querygate/internal/config"
	"github.com/querygate-io/querygate/internal/query"
)

// Server hosts the read-only collection endpoints. Each registered
// model becomes queryable at GET /api/v1/<table>.
type Server struct {
	app         *fiber.App
	cfg         *config.Config
	transformer *query.Transformer
	models      map[string]*query.Model
}

// NewServer wires the HTTP surface around a store and handler registry.
func NewServer(cfg *config.Config, store query.Store, registry *query.Registry) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{AppName: "querygate"}),
		cfg: cfg,
		transformer: query.NewTransformer(query.Config{
			DefaultPage:    cfg.Query.DefaultPage,
			DefaultPerPage: cfg.Query.DefaultPerPage,
			MaxPerPage:     cfg.Query.MaxPerPage,
			RequesterAttr:  cfg.Query.RequesterAttr,
			StrictExposure: cfg.Query.StrictExposure,
		}, registry, store),
		models: map[string]*query.Model{},
	}

	s.app.Use(RequestID())
	s.app.Use(Authenticate(cfg))

	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/api/v1/:table", s.handleList)
	return s
}

// RegisterModel makes a model queryable under its table name.
func (s *Server) RegisterModel(m *query.Model) {
	s.models[m.Table] = m
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails.
func (s *Server) Listen() error {
	log.Info().Str("address", s.cfg.Server.Address).Msg("Starting API server")
	return s.app.Listen(s.cfg.Server.Address)
}
