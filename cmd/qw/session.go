package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/models"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session inspection commands",
	}

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionShowCmd())
	return cmd
}

func newSessionListCmd() *cobra.Command {
	var (
		configPath  string
		status      string
		channelName string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Long:  "Lists conversation sessions with optional filters. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionList(cmd, configPath, status, channelName)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, completed, archived)")
	cmd.Flags().StringVar(&channelName, "channel", "", "filter by channel (voice, chat)")
	return cmd
}

func runSessionList(cmd *cobra.Command, configPath, status, channel string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	q := gormDB.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}
	var sessions []models.Session
	if err := q.Find(&sessions).Error; err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHANNEL\tVENDOR\tCOMPANY\tSTATUS\tEND REASON\tSTARTED")
	for _, s := range sessions {
		reason := s.EndReason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Channel, s.VendorAddress, s.CompanyID, s.Status, reason,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func newSessionShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show session details",
		Long:  "Displays one session with its full turn-by-turn transcript.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	return cmd
}

func runSessionShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	var session models.Session
	err = gormDB.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("load session %s: %w", id, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", session.ID)
	fmt.Fprintf(out, "Channel:  %s\n", session.Channel)
	fmt.Fprintf(out, "Vendor:   %s\n", session.VendorAddress)
	fmt.Fprintf(out, "Company:  %s\n", session.CompanyID)
	fmt.Fprintf(out, "Status:   %s\n", session.Status)
	if session.EndReason != "" {
		fmt.Fprintf(out, "Ended:    %s\n", session.EndReason)
	}
	fmt.Fprintf(out, "Started:  %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	if session.CompletedAt != nil {
		fmt.Fprintf(out, "Finished: %s\n", session.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	if len(session.Turns) == 0 {
		fmt.Fprintln(out, "\nNo turns recorded.")
		return nil
	}

	fmt.Fprintln(out, "\nTranscript:")
	for _, turn := range session.Turns {
		fmt.Fprintf(out, "  [%d] vendor: %s\n", turn.Number, turn.Utterance)
		fmt.Fprintf(out, "      agent:  %s\n", turn.Response)
		fmt.Fprintf(out, "      (%s, confidence %d, %s)\n", turn.Method, turn.Confidence, turn.Language)
	}
	return nil
}
