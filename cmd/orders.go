package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"erp-sync/core/erp"

	"github.com/spf13/cobra"
)

var ordersBy string

var orderColumns = map[string]string{
	"order":   erp.ColumnDealerOrderNo,
	"invoice": erp.ColumnInvoiceNo,
	"mobile":  erp.ColumnMobileInvoiceNo,
}

// ordersCmd groups dealer order commands.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Search dealer orders at the ERP",
}

var ordersLookupCmd = &cobra.Command{
	Use:   "lookup <value>",
	Short: "List the invoices of a pending dealer order",
	Long: `Searches pending dealer orders and prints order, invoice and mobile invoice numbers.

Examples:
  erp-sync orders lookup DO-1234
  erp-sync orders lookup INV-5678 --by invoice`,
	Args: cobra.ExactArgs(1),
	RunE: runOrdersLookup,
}

func init() {
	ordersLookupCmd.Flags().StringVar(&ordersBy, "by", "order", "Search column (order, invoice, mobile)")
	ordersCmd.AddCommand(ordersLookupCmd)
	RootCmd.AddCommand(ordersCmd)
}

func runOrdersLookup(cmd *cobra.Command, args []string) error {
	column, ok := orderColumns[ordersBy]
	if !ok {
		return fmt.Errorf("unknown search column %q", ordersBy)
	}

	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rows, err := rt.erp.LookupOrder(ctx, column, args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tINVOICE\tMOBILE INVOICE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.OrderID, r.InvoiceID, r.MobileInvoiceID)
	}
	return w.Flush()
}
