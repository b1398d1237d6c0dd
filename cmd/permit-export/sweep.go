package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/service"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/config"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/storage"
)

var sweepTTL time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored exports older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepTTL, "ttl", 0, "retention period (default: EXPORTS_TTL)")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("permit-export: load config: %w", err)
	}
	files, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		return fmt.Errorf("permit-export: %w", err)
	}
	exports := service.NewExportService(service.ExportServiceParams{
		Storage: files,
		Config:  service.ExportConfig{ResultTTL: cfg.Exports.TTL},
	})
	removed, err := exports.Cleanup(sweepTTL)
	if err != nil {
		return fmt.Errorf("permit-export: %w", err)
	}

	w := cmd.OutOrStdout()
	dim := color.New(color.Faint)
	for _, name := range removed {
		_, _ = fmt.Fprintln(w, dim.Sprint("removed ")+name)
	}
	_, _ = fmt.Fprintf(w, "%s %d expired export(s)\n", color.New(color.Bold).Sprint("swept"), len(removed))
	return nil
}
