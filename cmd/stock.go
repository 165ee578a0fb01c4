package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"erp-sync/core/ledger"
	"erp-sync/core/models"
	"erp-sync/feature/stock"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for stock adjust command
	stockInvoices string
	stockBaseline string
	stockOutDir   string
	stockExport   bool
)

// stockCmd groups inventory commands.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Apply ERP invoices to the inventory ledger",
}

var stockAdjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Fetch invoices and apply their quantities to a baseline",
	Long: `Reads invoice references (Invoice[,GRN]) from --invoices, fetches their products
from the ERP and applies the merged quantities to the baseline inventory.

The baseline is read from --baseline (Reference,Quantity) or, when omitted,
fetched from bookkeeping. Writes applied.csv, unmatched.csv and adjustments.csv
to --out-dir.

Examples:
  # Baseline from a ledger export
  erp-sync stock adjust --invoices invoices.csv --baseline inventory.csv

  # Baseline from bookkeeping, also uploaded to object storage
  erp-sync stock adjust --invoices invoices.csv --export`,
	RunE: runStockAdjust,
}

func init() {
	stockAdjustCmd.Flags().StringVar(&stockInvoices, "invoices", "", "Invoice references CSV")
	stockAdjustCmd.Flags().StringVar(&stockBaseline, "baseline", "", "Baseline inventory CSV (default: bookkeeping stock)")
	stockAdjustCmd.Flags().StringVar(&stockOutDir, "out-dir", ".", "Directory for the output CSVs")
	stockAdjustCmd.Flags().BoolVar(&stockExport, "export", false, "Upload the run to object storage")
	_ = stockAdjustCmd.MarkFlagRequired("invoices")

	stockCmd.AddCommand(stockAdjustCmd)
	RootCmd.AddCommand(stockCmd)
}

func runStockAdjust(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	refs, err := readCSV(stockInvoices, ledger.ReadInvoiceRefs)
	if err != nil {
		return err
	}

	var baseline []models.InventoryLine
	if stockBaseline != "" {
		baseline, err = readCSV(stockBaseline, ledger.ReadBaseline)
	} else {
		bk, bkErr := rt.requireBookkeeping()
		if bkErr != nil {
			return bkErr
		}
		baseline, err = bk.FetchStock(ctx)
	}
	if err != nil {
		return err
	}

	rt.logger.Info("Starting stock adjustment", zap.Int("invoices", len(refs)), zap.Int("baseline", len(baseline)))
	report, err := stock.NewService(rt.erp, rt.fetcher, rt.logger).Adjust(ctx, refs, baseline)
	if err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(stockOutDir, "applied.csv"), func(f *os.File) error {
		return ledger.WriteInventory(f, report.Result.Applied)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(stockOutDir, "unmatched.csv"), func(f *os.File) error {
		return ledger.WriteAdjustments(f, report.Result.Unmatched)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(stockOutDir, "adjustments.csv"), func(f *os.File) error {
		return ledger.WriteAdjustments(f, report.Adjustments)
	}); err != nil {
		return err
	}

	for id, reason := range report.Failures {
		rt.logger.Warn("Invoice not applied", zap.String("invoice", id), zap.String("reason", reason))
	}

	if stockExport {
		runID, err := stock.NewExporter(rt.storage, rt.cfg.Storage.Bucket).Export(ctx, report)
		if err != nil {
			return err
		}
		rt.logger.Info("Adjustment exported", zap.String("run_id", runID))
	}

	rt.logger.Info("Stock adjustment written",
		zap.String("dir", stockOutDir),
		zap.Int("applied", report.Result.Summary.Applied),
		zap.Int("unmatched", report.Result.Summary.Unmatched))
	return nil
}

func readCSV[T any](path string, read func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func writeCSV(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
