package stock

import (
	"errors"

	"erp-sync/core/erp"
	"erp-sync/core/logger"
	"erp-sync/core/models"
	"erp-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdjustRequest is the body of POST /stock/adjustments.
type AdjustRequest struct {
	Invoices []models.InvoiceRef    `json:"invoices"`
	Baseline []models.InventoryLine `json:"baseline"`
	Export   bool                   `json:"export"`
}

// Handler handles HTTP requests for stock adjustments.
type Handler struct {
	service  *Service
	source   StockSource
	exporter *Exporter
}

// NewHandler creates a new HTTP handler. source and exporter may be nil.
func NewHandler(service *Service, source StockSource, exporter *Exporter) *Handler {
	return &Handler{service: service, source: source, exporter: exporter}
}

// RegisterRoutes registers the stock routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/stock/adjustments", h.HandleAdjust)
}

// HandleAdjust runs one adjustment.
func (h *Handler) HandleAdjust(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Invoices) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invoices are required"})
	}

	baseline := req.Baseline
	if baseline == nil {
		if h.source == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "baseline is required"})
		}
		var err error
		baseline, err = h.source.FetchStock(c.UserContext())
		if err != nil {
			l.Error("Failed to fetch bookkeeping stock", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}

	l.Info("Starting stock adjustment", zap.Int("invoices", len(req.Invoices)), zap.Int("baseline", len(baseline)))
	report, err := h.service.Adjust(c.UserContext(), req.Invoices, baseline)
	if err != nil {
		l.Error("Stock adjustment failed", zap.Error(err))
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	response := fiber.Map{"report": report}
	if req.Export {
		if h.exporter == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "export storage is not configured"})
		}
		runID, err := h.exporter.Export(c.UserContext(), report)
		if err != nil {
			l.Error("Failed to export adjustment", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		response["run_id"] = runID
	}

	return c.JSON(response)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrDuplicateBaseline), errors.Is(err, reconcile.ErrDuplicateAdjustment):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, erp.ErrAuthentication),
		errors.Is(err, erp.ErrConnectionExhausted),
		errors.Is(err, erp.ErrInvalidResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
