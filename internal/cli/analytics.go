package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAnalyticsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the analytics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Analytics(context.Background(), days)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			fmt.Printf("Period: %s\n", summary.Period)
			if summary.Hint != "" {
				fmt.Printf("Note: %s\n", summary.Hint)
			}
			fmt.Println()

			totals := NewTable("USERS", "SUBSCRIPTIONS", "GENERATIONS", "REVENUE", "RECENT GENS", "RECENT SIGNUPS")
			totals.AddRow(
				strconv.FormatInt(summary.Totals.Users, 10),
				strconv.FormatInt(summary.Totals.ActiveSubscriptions, 10),
				strconv.FormatInt(summary.Totals.TotalGenerations, 10),
				formatMoney(summary.Totals.TotalRevenue, ""),
				strconv.FormatInt(summary.Totals.RecentGenerations, 10),
				strconv.FormatInt(summary.Totals.RecentSignups, 10),
			)
			totals.Render()

			if len(summary.PopularStyles) > 0 {
				fmt.Println("\nPopular styles:")
				styles := NewTable("STYLE", "COUNT")
				for _, item := range summary.PopularStyles {
					styles.AddRow(item.Name, strconv.FormatInt(item.Count, 10))
				}
				styles.Render()
			}

			if len(summary.PlanDistribution) > 0 {
				fmt.Println("\nPlan distribution:")
				plans := NewTable("PLAN", "PAID ORDERS")
				for _, plan := range summary.PlanDistribution {
					plans.AddRow(plan.Plan, strconv.FormatInt(plan.Count, 10))
				}
				plans.Render()
			}

			fmt.Printf("\nVisitors: %d total, %d in the last 24h\n",
				summary.Visitors.Total, summary.Visitors.UniqueLast24h)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "trailing window in days")
	return cmd
}
