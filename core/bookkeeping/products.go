package bookkeeping

import (
	"context"
	"fmt"

	"erp-sync/core/models"
	"erp-sync/core/utils"

	"go.uber.org/zap"
)

const productModel = "product.template"

// posDomain selects point-of-sale products in any of the categories.
func posDomain(categories []string) []any {
	if len(categories) == 0 {
		return []any{[]any{"available_in_pos", "=", true}}
	}
	domain := []any{"&", []any{"available_in_pos", "=", true}}
	for i := 0; i < len(categories)-1; i++ {
		domain = append(domain, "|")
	}
	for _, c := range categories {
		domain = append(domain, []any{"pos_categ_id", "ilike", c})
	}
	return domain
}

// FetchStock returns the on-hand quantity of every point-of-sale product.
func (c *Client) FetchStock(ctx context.Context) ([]models.InventoryLine, error) {
	rows, err := c.SearchRead(ctx, productModel, posDomain(c.cfg.Categories),
		[]string{"id", "default_code", "qty_available"}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock: %w", err)
	}

	lines := make([]models.InventoryLine, 0, len(rows))
	for _, row := range rows {
		ref, ok := reference(row)
		if !ok {
			c.logger.Debug("Skipping product without internal reference", zap.Any("id", row["id"]))
			continue
		}
		qty, err := utils.ToDecimal(row["qty_available"])
		if err != nil {
			return nil, fmt.Errorf("quantity of %s: %w", ref, err)
		}
		lines = append(lines, models.InventoryLine{ReferenceID: ref, CountedQuantity: qty})
	}
	return lines, nil
}

// FetchPrices returns the sales price and cost of every point-of-sale product.
func (c *Client) FetchPrices(ctx context.Context) ([]models.PriceLine, error) {
	rows, err := c.SearchRead(ctx, productModel, posDomain(c.cfg.Categories),
		[]string{"id", "default_code", "list_price", "standard_price"}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	lines := make([]models.PriceLine, 0, len(rows))
	for _, row := range rows {
		ref, ok := reference(row)
		if !ok {
			continue
		}
		price, err := utils.ToDecimal(row["list_price"])
		if err != nil {
			return nil, fmt.Errorf("list price of %s: %w", ref, err)
		}
		cost, err := utils.ToDecimal(row["standard_price"])
		if err != nil {
			return nil, fmt.Errorf("cost of %s: %w", ref, err)
		}
		lines = append(lines, models.PriceLine{ReferenceID: ref, SalesPrice: price, Cost: cost})
	}
	return lines, nil
}

// reference returns default_code, which the server sends as false when unset.
func reference(row map[string]any) (string, bool) {
	ref, ok := row["default_code"].(string)
	return ref, ok && ref != ""
}
