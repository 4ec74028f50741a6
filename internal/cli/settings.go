package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage admin settings",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsTrackingCmd(true))
	cmd.AddCommand(newSettingsTrackingCmd(false))

	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := apiClient.Settings(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(settings)
			}

			fmt.Printf("Visitor tracking enabled: %t\n", settings.VisitorTrackingEnabled)
			return nil
		},
	}
}

func newSettingsTrackingCmd(enable bool) *cobra.Command {
	use, short := "enable-tracking", "Turn the visitor tracking kill-switch on"
	if !enable {
		use, short = "disable-tracking", "Turn the visitor tracking kill-switch off"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := apiClient.SetTracking(context.Background(), enable)
			if err != nil {
				return err
			}
			fmt.Printf("Visitor tracking enabled: %t\n", settings.VisitorTrackingEnabled)
			return nil
		},
	}
}
