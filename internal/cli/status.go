package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the public tracking status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := apiClient.TrackingStatus(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(status)
			}

			fmt.Printf("Tracking: %s\n", status.Status)
			if status.Status == "online" {
				fmt.Printf("Visitors: %d\n", status.Visitors)
			}
			return nil
		},
	}
}
