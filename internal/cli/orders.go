package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pawtrait-ai/backend/pkg/client"
)

func newOrdersCmd() *cobra.Command {
	var (
		page   int
		limit  int
		search string
		status string
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List payment orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Orders(context.Background(), client.OrderListParams{
				Page:   page,
				Limit:  limit,
				Search: search,
				Status: status,
			})
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(resp)
			}

			table := NewTable("ORDER", "EMAIL", "PLAN", "AMOUNT", "STATUS", "CREATED")
			for _, o := range resp.Orders {
				table.AddRow(
					truncate(o.ID, 14),
					truncate(o.UserEmail, 30),
					o.Plan,
					formatMoney(o.Amount, o.Currency),
					o.Status,
					o.CreatedAt.UTC().Format(time.RFC3339),
				)
			}
			table.Render()

			fmt.Printf("\nPage %d of %d (%d orders, %d paid, revenue %s)\n",
				resp.Pagination.Page, resp.Pagination.TotalPages,
				resp.Pagination.TotalItems, resp.Stats.PaidCount,
				formatMoney(resp.Stats.TotalRevenue, ""))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "items per page")
	cmd.Flags().StringVar(&search, "search", "", "search by id or email")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (created|paid)")
	return cmd
}
