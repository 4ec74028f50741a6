package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pawtrait-ai/backend/pkg/client"
)

func newVisitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "Manage tracked visitors",
	}

	cmd.AddCommand(newVisitorsListCmd())
	cmd.AddCommand(newVisitorsExportCmd())

	return cmd
}

func newVisitorsListCmd() *cobra.Command {
	var (
		page   int
		limit  int
		search string
		device string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked visitors",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Visitors(context.Background(), client.VisitorListParams{
				Page:   page,
				Limit:  limit,
				Search: search,
				Device: device,
			})
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(resp)
			}

			table := NewTable("VISITOR ID", "EMAIL", "IP", "DEVICE", "CONVERTED", "LAST SEEN")
			for _, v := range resp.Visitors {
				email := ""
				if v.Email != nil {
					email = *v.Email
				}
				table.AddRow(
					truncate(v.VisitorID, 20),
					truncate(email, 30),
					v.IPAddress,
					v.Device,
					strconv.FormatBool(v.Converted),
					v.LastSeen.UTC().Format(time.RFC3339),
				)
			}
			table.Render()

			fmt.Printf("\nPage %d of %d (%d visitors, %.0f%% converted)\n",
				resp.Pagination.Page, resp.Pagination.TotalPages,
				resp.Pagination.TotalItems, resp.Stats.ConversionRate*100)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "items per page")
	cmd.Flags().StringVar(&search, "search", "", "search by id, email, or ip")
	cmd.Flags().StringVar(&device, "device", "", "filter by device")
	return cmd
}

func newVisitorsExportCmd() *cobra.Command {
	var (
		search string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the visitor CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			csvData, err := apiClient.ExportVisitors(context.Background(), search)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := os.Stdout.Write(csvData)
				return err
			}
			if err := os.WriteFile(out, csvData, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search by id, email, or ip")
	cmd.Flags().StringVar(&out, "out", "visitors.csv", `output file ("-" for stdout)`)
	return cmd
}
