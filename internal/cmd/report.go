package cmd

import (
	"io"

	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var reportLowStock int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print order counts per status and products running low",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		stats, err := s.Aggregates().OrderStats(ctx, nil)
		if err != nil {
			return err
		}
		low, err := s.Products().LowStock(ctx, reportLowStock)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		renderStats(out, stats)
		renderLowStock(out, low)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportLowStock, "low-stock", 5, "list active products with at most this many units")
	rootCmd.AddCommand(reportCmd)
}

func renderStats(w io.Writer, stats domain.OrderStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Orders")
	tw.AppendHeader(table.Row{"Status", "Count"})
	tw.AppendRows([]table.Row{
		{domain.OrderPending, stats.Pending},
		{domain.OrderConfirmed, stats.Confirmed},
		{domain.OrderShipped, stats.Shipped},
		{domain.OrderDelivered, stats.Delivered},
		{domain.OrderCancelled, stats.Cancelled},
	})
	tw.AppendFooter(table.Row{"Total", stats.Total})
	tw.Render()
}

func renderLowStock(w io.Writer, products []domain.Product) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Low stock")
	tw.AppendHeader(table.Row{"ID", "Name", "Stock", "Price"})
	for _, p := range products {
		tw.AppendRow(table.Row{p.ID, p.Name, p.Stock, p.Price.StringFixed(2)})
	}
	tw.Render()
}
