// Package rest serves the HTTP contract of the trip planner under /api.
// It shares the service registry and the access tokens of the gRPC server:
// everything but login, the user list and settings needs a bearer token.
package rest

import (
	"context"
	"errors"
	"net"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/services"
)

type Server struct {
	address   string
	svc       *services.Registry
	logger    logging.Logger
	jwtSecret []byte
	app       *fiber.App
}

func NewServer(a string, l logging.Logger, svc *services.Registry, secretKey string) *Server {
	s := &Server{
		address:   a,
		svc:       svc,
		logger:    l.With("module", "rest_server"),
		jwtSecret: []byte(secretKey),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "tripshare",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s
}

// App exposes the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	api := s.app.Group("/api", s.requestLog)
	anyRole := s.authorize(0)

	api.Post("/login", s.login)
	api.Get("/users", s.listUsers)
	api.Get("/settings", s.getSettings)

	api.Post("/users", s.authorize(models.RoleSystemAdmin), s.createUser)
	api.Put("/users/:id", anyRole, s.updateUser)
	api.Delete("/users/:id", s.authorize(models.RoleSystemAdmin), s.deleteUser)

	api.Get("/plans", anyRole, s.listPlans)
	api.Post("/plans", s.authorize(models.RoleUser), s.submitPlan)
	api.Get("/plan-updates", anyRole, s.planUpdates)

	api.Post("/allocations/generate", s.authorize(models.RoleAllocationAdmin), s.generateAllocations)
	api.Get("/allocations", anyRole, s.listAllocations)

	api.Put("/settings", s.authorize(models.RoleSystemAdmin), s.updateSettings)

	api.Get("/holidays", anyRole, s.listHolidays)
	api.Put("/holidays", s.authorize(models.RoleAllocationAdmin), s.updateHolidays)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error(ctx, "REST shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", lis.Addr().String())

	if err := s.app.Listener(lis); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
