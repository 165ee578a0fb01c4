package cmd

import (
	"context"
	"fmt"
	"os"

	"erp-sync/core/database"
	"erp-sync/core/ledger"
	"erp-sync/feature/pricing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pricesOutput string

// pricesCmd groups price commands.
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Compare bookkeeping prices with the ERP",
}

var pricesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Inquire every bookkeeping price at the ERP and write the changes",
	Long: `Fetches the point-of-sale price list from bookkeeping, inquires each reference
at the ERP and writes Reference,Old Price,New Price,Status rows to --out.

Example:
  erp-sync prices refresh --out price-changes.csv`,
	RunE: runPricesRefresh,
}

func init() {
	pricesRefreshCmd.Flags().StringVarP(&pricesOutput, "out", "o", "price-changes.csv", "Output CSV path")
	pricesCmd.AddCommand(pricesRefreshCmd)
	RootCmd.AddCommand(pricesCmd)
}

func runPricesRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	bk, err := rt.requireBookkeeping()
	if err != nil {
		return err
	}

	var repo *pricing.Repository
	if rt.cfg.Database.Enabled {
		db, err := database.Connect(rt.cfg.Database)
		if err != nil {
			return err
		}
		repo = pricing.NewRepository(db)
		if err := repo.EnsureSchema(rt.cfg.Database.AutoMigrate); err != nil {
			return err
		}
	}

	prices, err := bk.FetchPrices(ctx)
	if err != nil {
		return err
	}
	rt.logger.Info("Fetched bookkeeping prices", zap.Int("products", len(prices)))

	report, err := pricing.NewService(rt.erp, rt.fetcher, repo, rt.logger).Refresh(ctx, prices)
	if err != nil {
		return err
	}

	f, err := os.Create(pricesOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pricesOutput, err)
	}
	defer f.Close()
	if err := ledger.WritePriceChanges(f, report.Changes); err != nil {
		return err
	}

	rt.logger.Info("Price changes written", zap.String("path", pricesOutput), zap.Any("counts", report.Counts))
	return nil
}
