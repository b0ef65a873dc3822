package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zulandar/quotewire/internal/channel"
	"github.com/zulandar/quotewire/internal/config"
)

func newCallCmd() *cobra.Command {
	var (
		configPath string
		companyID  string
	)

	cmd := &cobra.Command{
		Use:   "call <vendor-number>",
		Short: "Place an outbound procurement call to a vendor",
		Long: `Places a voice call to the given vendor number. The call is answered by
the webhook server, which must be reachable at the configured base URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, configPath, companyID, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	cmd.Flags().StringVar(&companyID, "company", "", "company id the call is placed for")
	return cmd
}

func runCall(cmd *cobra.Command, configPath, companyID, vendor string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must be set to place calls")
	}

	tw, err := channel.NewTwilio(channel.TwilioOpts{Config: cfg.Transport})
	if err != nil {
		return err
	}

	callID, err := tw.PlaceCall(cmd.Context(), vendor, cfg.Server.BaseURL, companyID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Placed call %s to %s\n", callID, vendor)
	return nil
}
