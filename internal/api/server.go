// Package api serves the tracker over a local JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/tracker"
)

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
	// AccessLog receives one line per request. Nil means stderr.
	AccessLog io.Writer
	Logger    *slog.Logger
}

// Server exposes the tracker through a Fiber application.
type Server struct {
	app     *fiber.App
	tracker service.TrackerService
	reports service.ReportService
	cfg     Config
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, tr service.TrackerService, reports service.ReportService) *Server {
	if cfg.AccessLog == nil {
		cfg.AccessLog = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		Output: cfg.AccessLog,
	}))

	srv := &Server{app: app, tracker: tr, reports: reports, cfg: cfg}
	srv.registerRoutes()
	return srv
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.ShutdownWithTimeout(5 * time.Second)
	}()

	s.cfg.Logger.Info("api listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")

	api.Get("/activities", s.handleListActivities)
	api.Post("/activities", s.handleCreateActivity)
	api.Patch("/activities/:id", s.handleUpdateActivity)
	api.Delete("/activities/:id", s.handleDeleteActivity)

	api.Get("/timers", s.handleListTimers)
	api.Post("/timers/stop-all", s.handleStopAll)
	api.Post("/timers/:activityId/start", s.handleStartTimer)
	api.Post("/timers/:activityId/stop", s.handleStopTimer)

	api.Get("/entries", s.handleListEntries)
	api.Post("/entries", s.handleCreateEntry)
	api.Delete("/entries/:id", s.handleDeleteEntry)

	api.Get("/summary/daily", s.handleDailySummary)
	api.Get("/summary/weekly", s.handleWeeklySummary)

	api.Get("/settings", s.handleGetSettings)
	api.Patch("/settings", s.handleUpdateSettings)

	api.Post("/report/send", s.handleSendReport)
}

func (s *Server) handleListActivities(c *fiber.Ctx) error {
	items := s.tracker.ListActivities(c.UserContext())
	out := make([]activityDTO, 0, len(items))
	for _, a := range items {
		out = append(out, toActivityDTO(a))
	}
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"count": len(out)}})
}

func (s *Server) handleCreateActivity(c *fiber.Ctx) error {
	var payload createActivityInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	a, err := s.tracker.AddActivity(c.UserContext(), tracker.NewActivity{
		Name:        payload.Name,
		Color:       payload.Color,
		Project:     payload.Project,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": toActivityDTO(a)})
}

func (s *Server) handleUpdateActivity(c *fiber.Ctx) error {
	var payload updateActivityInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	a, err := s.tracker.UpdateActivity(c.UserContext(), c.Params("id"), payload.patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toActivityDTO(a)})
}

func (s *Server) handleDeleteActivity(c *fiber.Ctx) error {
	if err := s.tracker.DeleteActivity(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListTimers(c *fiber.Ctx) error {
	now := s.tracker.Now()
	out := toEntryDTOs(s.tracker.Running(c.UserContext()), now)
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"count": len(out)}})
}

func (s *Server) handleStartTimer(c *fiber.Ctx) error {
	var payload startTimerInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	e, err := s.tracker.Start(c.UserContext(), c.Params("activityId"), tracker.StartOptions{
		Description:    payload.Description,
		PlannedMinutes: payload.PlannedMinutes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": toEntryDTO(e, s.tracker.Now())})
}

func (s *Server) handleStopTimer(c *fiber.Ctx) error {
	e, err := s.tracker.Stop(c.UserContext(), c.Params("activityId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toEntryDTO(e, s.tracker.Now())})
}

func (s *Server) handleStopAll(c *fiber.Ctx) error {
	stopped, err := s.tracker.StopAll(c.UserContext())
	if err != nil {
		return err
	}
	out := toEntryDTOs(stopped, s.tracker.Now())
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"count": len(out)}})
}

func (s *Server) handleListEntries(c *fiber.Ctx) error {
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		var err error
		if day, err = s.parseDate(raw); err != nil {
			return err
		}
	}
	out := toEntryDTOs(s.tracker.ListEntries(c.UserContext(), day), s.tracker.Now())
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"count": len(out)}})
}

func (s *Server) handleCreateEntry(c *fiber.Ctx) error {
	var payload createEntryInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	var ref time.Time
	if payload.EndTime != "" {
		var err error
		if ref, err = time.Parse(time.RFC3339, payload.EndTime); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_time must be RFC 3339")
		}
	}
	e, err := s.tracker.AddManualEntry(c.UserContext(), service.ManualEntryInput{
		ActivityRef:   payload.ActivityID,
		Minutes:       payload.Minutes,
		ReferenceDate: ref,
		Description:   payload.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": toEntryDTO(e, s.tracker.Now())})
}

func (s *Server) handleDeleteEntry(c *fiber.Ctx) error {
	if err := s.tracker.DeleteEntry(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDailySummary(c *fiber.Ctx) error {
	date, err := s.parseDate(c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toDailyDTO(s.tracker.DailySummary(c.UserContext(), date))})
}

func (s *Server) handleWeeklySummary(c *fiber.Ctx) error {
	date, err := s.parseDate(c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toWeeklyDTO(s.tracker.WeeklySummary(c.UserContext(), date))})
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": toSettingsDTO(s.tracker.Settings(c.UserContext()))})
}

func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var payload updateSettingsInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	st, err := s.tracker.UpdateSettings(c.UserContext(), payload.patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toSettingsDTO(st)})
}

func (s *Server) handleSendReport(c *fiber.Ctx) error {
	date, err := s.parseDate(c.Query("date"))
	if err != nil {
		return err
	}
	msg, delivered := s.reports.SendDaily(c.UserContext(), date)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": msg, "delivered": delivered}})
}

// parseDate reads a YYYY-MM-DD local date. Empty means today.
func (s *Server) parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return s.tracker.Now(), nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, s.tracker.Location())
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("date %q must use YYYY-MM-DD", raw))
	}
	return t, nil
}

// errorHandler maps service errors onto status codes and a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, service.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrAmbiguousActivity), errors.Is(err, service.ErrAmbiguousEntry):
		code = fiber.StatusConflict
	case service.IsNotFound(err):
		code = fiber.StatusNotFound
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
