package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/repository"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/service"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/cache"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/config"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/export"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/logger"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/session"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/storage"
)

var (
	exportFormat     string
	exportOutput     string
	exportToken      string
	exportSearch     string
	exportLocation   string
	exportGender     string
	exportStatus     string
	exportDateRange  string
	exportReportType string
	exportAgeGroup   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every record matching the filters as csv, xlsx or pdf",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", service.FormatCSV, "csv, xlsx or pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "directory the file is written to")
	exportCmd.Flags().StringVar(&exportToken, "token", "", "backend token (default: the console's stored session)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "free-text search")
	exportCmd.Flags().StringVar(&exportLocation, "location", "", "burial location")
	exportCmd.Flags().StringVar(&exportGender, "gender", "", "Male or Female")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "permit status")
	exportCmd.Flags().StringVar(&exportDateRange, "date-range", models.RangeAll, "all, last7days, last30days, last90days, thisyear or YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportReportType, "report-type", "", "report type label")
	exportCmd.Flags().StringVar(&exportAgeGroup, "age-group", "", "age group label")
}

// staticToken serves a token given on the command line.
type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }
func (t staticToken) SignOut(context.Context)               {}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("permit-export: load config: %w", err)
	}
	logr := zap.NewNop()
	if verbose {
		if logr, err = logger.New(cfg); err != nil {
			return fmt.Errorf("permit-export: init logger: %w", err)
		}
		defer logr.Sync() //nolint:errcheck
	}

	tokens, closeStore, err := tokenSource(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer closeStore()

	client := httpclient.New(httpclient.Config{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		AuthHeader: cfg.Backend.AuthHeader,
	}, tokens, httpclient.WithLogger(logr))

	notifier := service.NewNotificationService(0, logr)
	query := service.NewQueryExecutor(repository.NewPermitRepository(client), service.QueryExecutorConfig{
		PageSize:    cfg.Records.PageSize,
		ExportLimit: cfg.Records.ExportLimit,
		Location:    time.Local,
	}, logr)
	reports := service.NewReportService(query, repository.NewReportRepository(client), notifier, logr)
	for _, kv := range filterPairs() {
		if err := reports.SetFilter(kv[0], kv[1]); err != nil {
			return fmt.Errorf("permit-export: %w", err)
		}
	}

	files, err := storage.NewLocalStorage(exportOutput)
	if err != nil {
		return fmt.Errorf("permit-export: %w", err)
	}
	exports := service.NewExportService(service.ExportServiceParams{
		Source:   reports,
		Storage:  files,
		Notifier: notifier,
		Raster:   export.NewRasterizer(export.ThemeByName(cfg.Display.Theme)),
		Logger:   logr,
		Config:   service.ExportConfig{DateFormat: cfg.Display.DateFormat},
	})

	_, loadErr := reports.Load(ctx)
	var file *dto.ExportFile
	if loadErr == nil {
		file, err = exports.Export(ctx, exportFormat)
	}
	printNotifications(cmd.ErrOrStderr(), notifier.Drain())
	if loadErr != nil {
		return fmt.Errorf("permit-export: %w", loadErr)
	}
	if err != nil {
		return fmt.Errorf("permit-export: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d records)\n",
		color.New(color.FgGreen, color.Bold).Sprint("wrote"), filepath.Join(exportOutput, file.Filename), file.Records)
	return nil
}

// filterPairs lists the filter fields set on the command line.
func filterPairs() [][2]string {
	all := [][2]string{
		{models.FilterSearch, exportSearch},
		{models.FilterBurialLocation, exportLocation},
		{models.FilterGender, exportGender},
		{models.FilterStatus, exportStatus},
		{models.FilterDateRange, exportDateRange},
		{models.FilterReportType, exportReportType},
		{models.FilterAgeGroup, exportAgeGroup},
	}
	out := make([][2]string, 0, len(all))
	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

func tokenSource(ctx context.Context, cfg *config.Config, logr *zap.Logger) (httpclient.TokenSource, func(), error) {
	if exportToken != "" {
		return staticToken(exportToken), func() {}, nil
	}
	if cfg.Store.Driver == config.StoreDriverRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("permit-export: %w", err)
		}
		store := repository.NewRedisStore(client, cfg.Store.Prefix, 0, logr)
		return session.New(store, session.Options{Logger: logr}), func() { _ = store.Close() }, nil
	}
	store, err := storage.NewFileKV(cfg.Store.Dir, cfg.Store.Prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("permit-export: %w", err)
	}
	return session.New(store, session.Options{Logger: logr}), func() {}, nil
}

func printNotifications(w io.Writer, items []dto.Notification) {
	for _, n := range items {
		var c *color.Color
		switch n.Level {
		case dto.LevelSuccess:
			c = color.New(color.FgGreen)
		case dto.LevelWarning:
			c = color.New(color.FgYellow)
		case dto.LevelError:
			c = color.New(color.FgRed)
		default:
			c = color.New(color.FgCyan)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Sprintf("[%s]", n.Level), n.Message)
	}
}
