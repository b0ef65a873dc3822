package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zulandar/quotewire/internal/channel"
	"github.com/zulandar/quotewire/internal/config"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat channel operations",
	}
	cmd.AddCommand(newChatSendCmd())
	return cmd
}

func newChatSendCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "send <vendor-number> <message...>",
		Short: "Send a chat message to a vendor",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatSend(cmd, configPath, args[0], strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	return cmd
}

func runChatSend(cmd *cobra.Command, configPath, vendor, message string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tw, err := channel.NewTwilio(channel.TwilioOpts{Config: cfg.Transport})
	if err != nil {
		return err
	}

	if err := tw.SendMessage(cmd.Context(), vendor, message); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sent message to %s\n", vendor)
	return nil
}
