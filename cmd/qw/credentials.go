package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zulandar/quotewire/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config management commands",
	}

	cmd.AddCommand(newConfigCredentialsCmd())
	return cmd
}

func newConfigCredentialsCmd() *cobra.Command {
	var (
		configPath string
		accountSID string
	)

	cmd := &cobra.Command{
		Use:   "set-credentials",
		Short: "Store provider credentials in the config file",
		Long: `Prompts for the transport auth token and the extraction API key and writes
them into the config file. Secrets are read without echo when stdin is a
terminal. Press enter at a prompt to keep the existing value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetCredentials(cmd, configPath, accountSID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	cmd.Flags().StringVar(&accountSID, "account-sid", "", "transport account SID (kept if empty)")
	return cmd
}

func runSetCredentials(cmd *cobra.Command, configPath, accountSID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if accountSID != "" {
		cfg.Transport.AccountSID = accountSID
	}

	// One scanner for the whole prompt sequence: a fresh scanner per prompt
	// would buffer ahead and drain the input for the next one.
	in := bufio.NewScanner(cmd.InOrStdin())

	authToken, err := promptSecret(cmd, in, "Transport auth token")
	if err != nil {
		return err
	}
	if authToken != "" {
		cfg.Transport.AuthToken = authToken
	}

	apiKey, err := promptSecret(cmd, in, "Extraction API key")
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Extract.APIKey = apiKey
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Credentials saved to %s\n", configPath)
	return nil
}

// promptSecret reads one secret. On a terminal it disables echo; otherwise
// (pipes, tests) it reads a plain line from the shared scanner.
func promptSecret(cmd *cobra.Command, in *bufio.Scanner, label string) (string, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (enter to keep): ", label)

	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	if !in.Scan() {
		return "", in.Err()
	}
	return strings.TrimSpace(in.Text()), nil
}
