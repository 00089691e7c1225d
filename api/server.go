// Package api serves the browser registration intake.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP intake for browser registrations
type Server struct {
	app         *fiber.App
	submissions service.SubmissionService
	settings    service.GuildSettingsService
	guildID     int64
	checks      []healthCheck
}

type healthCheck struct {
	name  string
	check func() bool
}

// NewServer builds the fiber app and registers routes. All browser
// registrations are posted into guildID.
func NewServer(submissions service.SubmissionService, settings service.GuildSettingsService, guildID int64) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "rrtournament-intake",
		BodyLimit:             64 * 1024,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(requestLogger)

	s := &Server{
		app:         app,
		submissions: submissions,
		settings:    settings,
		guildID:     guildID,
	}

	app.Get("/healthz", s.handleHealth)
	app.Get("/api/communities", s.handleCommunities)
	app.Post("/api/register", s.handleRegister)

	return s
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is cancelled
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Registration intake listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Warn("Intake server shutdown failed")
		}
		return nil
	}
}

// AddHealthCheck reports a dependency in /healthz; a failing check answers 503
func (s *Server) AddHealthCheck(name string, check func() bool) {
	s.checks = append(s.checks, healthCheck{name: name, check: check})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if len(s.checks) == 0 {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	status, code := "ok", fiber.StatusOK
	results := make(fiber.Map, len(s.checks))
	for _, hc := range s.checks {
		healthy := hc.check()
		results[hc.name] = healthy
		if !healthy {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "checks": results})
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.WithFields(log.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start),
	}).Debug("HTTP request")
	return err
}

// errorHandler answers every error as {"error": "..."}; unexpected errors hide their detail
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	log.WithFields(log.Fields{
		"path":  c.Path(),
		"error": err,
	}).Error("Unhandled intake error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
