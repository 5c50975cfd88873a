package reconciliation

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"ledger-reconciler/core/logger"
	"ledger-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Upload form fields.
const (
	FieldProcessor = "processor"
	FieldLedger    = "ledger"
)

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	group := app.Group("/reconcile")
	group.Post("/", h.HandleReconcile)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleReconcile reconciles two uploaded feeds and returns the summary and
// the exception rows.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	tol, err := h.tolerance(c)
	if err != nil {
		return badRequest(c, err)
	}

	processor, err := formFile(c, FieldProcessor)
	if err != nil {
		return badRequest(c, err)
	}
	ledger, err := formFile(c, FieldLedger)
	if err != nil {
		return badRequest(c, err)
	}

	run, err := h.service.ReconcileUpload(c.Context(), processor, ledger, tol)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			l.Warn("Rejected upload", zap.Error(err))
			return badRequest(c, err)
		}
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Upload reconciled",
		zap.String("run_id", run.ID),
		zap.Int("matched", run.Result.Summary.MatchedRows),
		zap.Int("exceptions", run.Result.Summary.ExceptionRows),
	)
	return c.JSON(NewResponse(run))
}

// HandleGetRun returns a cached run.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	run, ok := h.service.Run(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run not found"})
	}
	return c.JSON(NewResponse(run))
}

// tolerance applies the query overrides to the service defaults.
func (h *Handler) tolerance(c *fiber.Ctx) (reconcile.Tolerance, error) {
	cfg := h.service.Defaults()
	if v := c.Query("amount_tolerance"); v != "" {
		cfg.AmountTolerance = v
	}
	if v := c.Query("date_window"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return reconcile.Tolerance{}, fmt.Errorf("date_window must be an integer: %q", v)
		}
		cfg.DateWindow = days
	}
	return cfg.Tolerance()
}

func formFile(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s file", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", field, err)
	}
	return data, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
