package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zulandar/quotewire/internal/models"
	"github.com/zulandar/quotewire/internal/quote"
)

func newExportCmd() *cobra.Command {
	var (
		configPath string
		format     string
		output     string
		quality    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export collected quotations",
		Long:  "Writes all quotation records as CSV or JSON, to stdout or a file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, configPath, format, output, quality)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&quality, "quality", "", "filter by quality label")
	return cmd
}

func runExport(cmd *cobra.Command, configPath, format, output, quality string) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	q := gormDB.Preload("Items").Order("created_at ASC")
	if quality != "" {
		q = q.Where("quality = ?", quality)
	}
	var records []models.Quotation
	if err := q.Find(&records).Error; err != nil {
		return fmt.Errorf("load quotations: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		err = quote.ExportJSON(w, records)
	} else {
		err = quote.ExportCSV(w, records)
	}
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d quotations to %s\n", len(records), output)
	}
	return nil
}
