package pricing

import (
	"errors"

	"erp-sync/core/erp"
	"erp-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for prices.
type Handler struct {
	service *Service
	source  PriceSource
}

// NewHandler creates a new HTTP handler. source may be nil to disable refreshes.
func NewHandler(service *Service, source PriceSource) *Handler {
	return &Handler{service: service, source: source}
}

// RegisterRoutes registers the pricing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/prices")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/:reference", h.HandleLookup)
	group.Get("/:reference/history", h.HandleHistory)
}

// HandleLookup returns the live ERP price of a reference.
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ref := c.Params("reference")

	product, err := h.service.Lookup(c.UserContext(), ref)
	if err != nil {
		status := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			l.Error("Price lookup failed", zap.String("reference", ref), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(product)
}

// HandleHistory returns stored price snapshots of a reference.
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ref := c.Params("reference")

	rows, err := h.service.History(c.UserContext(), ref, c.QueryInt("limit", 50))
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Price history failed", zap.String("reference", ref), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"reference": ref,
		"history":   rows,
	})
}

// HandleRefresh refreshes the whole bookkeeping price list.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if h.source == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "bookkeeping is not configured"})
	}

	prices, err := h.source.FetchPrices(c.UserContext())
	if err != nil {
		l.Error("Failed to fetch bookkeeping prices", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Starting price refresh", zap.Int("products", len(prices)))
	report, err := h.service.Refresh(c.UserContext(), prices)
	if err != nil {
		l.Error("Price refresh failed", zap.Error(err))
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, erp.ErrDataNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, erp.ErrInvalidIdentity):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, erp.ErrAuthentication),
		errors.Is(err, erp.ErrConnectionExhausted),
		errors.Is(err, erp.ErrInvalidResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
