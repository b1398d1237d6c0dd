package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/export"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const reportTitle = "Burial Permit Report"

var (
	recordHeaders   = []string{"Permit Number", "Full Name", "Date of Death", "Burial Location", "Gender", "Age", "Status"}
	workbookHeaders = append(append([]string(nil), recordHeaders...), "Issuance Date")
	filteredHeaders = []string{"Permit No.", "Name", "Date of Death", "Burial Location", "Gender", "Status"}

	allRecordsWidths = []float64{15, 25, 15, 20, 10, 8, 12, 15}
	filteredWidths   = []float64{15, 25, 15, 20, 10, 12}
	pdfTableWidths   = []float64{28, 50, 26, 34, 22, 30}
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

type reportSnapshotter interface {
	Snapshot() ReportSnapshot
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(wb export.Workbook) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

type panelRasterizer interface {
	StatsPanel(tiles []export.StatTile) ([]byte, error)
	ChartsPanel(bars, pie export.ChartSpec) ([]byte, error)
}

type exportObserver interface {
	ObserveExport(format, outcome string, records int)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	DateFormat string
	ResultTTL  time.Duration
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Source   reportSnapshotter
	Storage  fileStorage
	Notifier Notifier
	Metrics  exportObserver
	Raster   panelRasterizer
	CSV      csvRenderer
	XLSX     xlsxRenderer
	PDF      pdfRenderer
	Logger   *zap.Logger
	Config   ExportConfig
}

// ExportService serialises the reports view's full-scope set to files.
type ExportService struct {
	source   reportSnapshotter
	storage  fileStorage
	notifier Notifier
	metrics  exportObserver
	raster   panelRasterizer
	csv      csvRenderer
	xlsx     xlsxRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	cfg      ExportConfig
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.CSV == nil {
		params.CSV = export.NewCSVExporter()
	}
	if params.XLSX == nil {
		params.XLSX = export.NewXLSXExporter()
	}
	if params.PDF == nil {
		params.PDF = export.NewPDFExporter()
	}
	if params.Raster == nil {
		params.Raster = export.NewRasterizer(export.LightTheme)
	}
	if params.Config.DateFormat == "" {
		params.Config.DateFormat = defaultDateFormat
	}
	if params.Config.ResultTTL <= 0 {
		params.Config.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		source:   params.Source,
		storage:  params.Storage,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		raster:   params.Raster,
		csv:      params.CSV,
		xlsx:     params.XLSX,
		pdf:      params.PDF,
		logger:   params.Logger,
		cfg:      params.Config,
		now:      time.Now,
	}
}

// Export renders the current full-scope set in format. Nothing is written
// unless rendering succeeds; an empty set only warns.
func (s *ExportService) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := s.source.Snapshot()
	if len(snap.All) == 0 {
		s.notifier.Warning(appErrors.ErrNothingToExport.Message)
		s.observe(format, ExportOutcomeEmpty, 0)
		return nil, appErrors.ErrNothingToExport
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = s.csv.Render(s.recordsDataset(snap.All))
	case FormatXLSX:
		data, err = s.xlsx.Render(s.workbook(snap))
	case FormatPDF:
		s.notifier.Info("Generating PDF... Please wait")
		data, err = s.renderPDF(snap)
	}
	if err != nil {
		return nil, s.fail(format, err)
	}

	file := &dto.ExportFile{
		Filename:    fmt.Sprintf("burial-permit-report-%s.%s", s.now().UTC().Format(models.DateLayout), format),
		ContentType: contentType,
		Records:     len(snap.All),
		Data:        data,
	}
	if s.storage != nil {
		if _, err := s.storage.Save(file.Filename, data); err != nil {
			return nil, s.fail(format, err)
		}
	}

	s.observe(format, ExportOutcomeSuccess, file.Records)
	s.logger.Info("report exported", zap.String("format", format), zap.Int("records", file.Records), zap.String("file", file.Filename))
	s.notifier.Success(successMessage(format, file.Records))
	return file, nil
}

// Cleanup removes stored exports older than ttl, or the configured TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) fail(format string, err error) error {
	s.logger.Error("export failed", zap.String("format", format), zap.Error(err))
	s.observe(format, ExportOutcomeError, 0)
	msg := failureMessage(format, err)
	s.notifier.Error(msg)
	return appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, msg)
}

func (s *ExportService) observe(format, outcome string, records int) {
	if s.metrics != nil {
		s.metrics.ObserveExport(format, outcome, records)
	}
}

func successMessage(format string, n int) string {
	switch format {
	case FormatPDF:
		return fmt.Sprintf("PDF exported successfully with %d records", n)
	case FormatXLSX:
		return fmt.Sprintf("Excel file exported with %d total records", n)
	default:
		return "CSV file exported successfully"
	}
}

func failureMessage(format string, err error) string {
	switch format {
	case FormatPDF:
		return "Error exporting PDF: " + err.Error()
	case FormatXLSX:
		return "Error exporting Excel file"
	default:
		return "Error exporting CSV file"
	}
}

func (s *ExportService) recordsDataset(records []models.Permit) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Permit Number":   r.PermitNumber,
			"Full Name":       r.FullName(),
			"Date of Death":   formatDate(r.DateOfDeath, s.cfg.DateFormat),
			"Burial Location": r.BurialLocation,
			"Gender":          string(r.Gender),
			"Age":             strconv.Itoa(r.Age),
			"Status":          string(r.Status),
		})
	}
	return export.Dataset{Headers: recordHeaders, Rows: rows}
}

func (s *ExportService) filteredDataset(records []models.Permit) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Permit No.":      r.PermitNumber,
			"Name":            r.FullName(),
			"Date of Death":   formatDate(r.DateOfDeath, s.cfg.DateFormat),
			"Burial Location": r.BurialLocation,
			"Gender":          string(r.Gender),
			"Status":          string(r.Status),
		})
	}
	return export.Dataset{Headers: filteredHeaders, Rows: rows}
}

func (s *ExportService) workbook(snap ReportSnapshot) export.Workbook {
	overview := models.Overview{}
	if snap.Overview != nil {
		overview = *snap.Overview
	}
	summary := export.Sheet{
		Name: "Summary",
		Rows: [][]interface{}{
			{reportTitle},
			{"Generated:", s.generated()},
			{},
			{"Summary Statistics"},
			{"Total Records", overview.TotalRecords},
			{"Males", overview.GenderCount(genderBucketMale)},
			{"Females", overview.GenderCount(genderBucketFemale)},
			{"Verified Records", overview.VerifiedRecords},
			{},
			{"Records exported:", len(snap.All)},
		},
		BoldRows: []int{1, 4},
	}

	all := export.Sheet{Name: "All Records", BoldRows: []int{1}, ColumnWidths: allRecordsWidths}
	all.Rows = append(all.Rows, stringsRow(workbookHeaders))
	for _, r := range snap.All {
		var age interface{} = ""
		if r.Age > 0 {
			age = r.Age
		}
		all.Rows = append(all.Rows, []interface{}{
			r.PermitNumber,
			r.FullName(),
			formatDate(r.DateOfDeath, s.cfg.DateFormat),
			r.BurialLocation,
			string(r.Gender),
			age,
			string(r.Status),
			formatDate(r.IssuanceDate, s.cfg.DateFormat),
		})
	}

	wb := export.Workbook{Sheets: []export.Sheet{summary, all}}
	if len(snap.Page) > 0 {
		wb.Sheets = append(wb.Sheets, s.filteredSheet(snap))
	}
	return wb
}

func (s *ExportService) filteredSheet(snap ReportSnapshot) export.Sheet {
	sheet := export.Sheet{
		Name: "Filtered View",
		Rows: [][]interface{}{
			{"Filtered Records"},
			{"Current Page:", snap.CurrentPage},
			{"Filters Applied:"},
			{"Date Range:", snap.Filters.DateRange},
			{"Gender:", orAll(snap.Filters.Gender)},
			{"Burial Location:", orAll(snap.Filters.BurialLocation)},
			{},
			stringsRow(filteredHeaders),
		},
		BoldRows:     []int{1, 8},
		ColumnWidths: filteredWidths,
	}
	data := s.filteredDataset(snap.Page)
	for i := 0; i < data.Len(); i++ {
		sheet.Rows = append(sheet.Rows, stringsRow(data.Record(i)))
	}
	return sheet
}

func (s *ExportService) renderPDF(snap ReportSnapshot) ([]byte, error) {
	report := export.Report{
		Title:        reportTitle,
		Subtitle:     "Generated: " + s.generated(),
		TableTitle:   "Filtered Records",
		Table:        s.filteredDataset(snap.All),
		ColumnWidths: pdfTableWidths,
	}
	if snap.PanelsReady {
		stats, err := s.raster.StatsPanel(statTiles(snap.Cards))
		if err != nil {
			return nil, fmt.Errorf("render statistics panel: %w", err)
		}
		charts, err := s.raster.ChartsPanel(monthlyChart(snap.Monthly), genderChart(snap.Gender))
		if err != nil {
			return nil, fmt.Errorf("render charts panel: %w", err)
		}
		report.Images = [][]byte{stats, charts}
	} else {
		s.logger.Info("statistics not loaded, exporting pdf without panels")
	}
	return s.pdf.Render(report)
}

func (s *ExportService) generated() string {
	t := s.now()
	return formatDate(&t, s.cfg.DateFormat)
}

func statTiles(cards []dto.StatCard) []export.StatTile {
	tiles := make([]export.StatTile, 0, len(cards))
	for _, c := range cards {
		trend := 0
		switch {
		case strings.HasPrefix(c.Change, "+"):
			trend = 1
		case strings.HasPrefix(c.Change, "-"):
			trend = -1
		}
		tiles = append(tiles, export.StatTile{Title: c.Title, Value: c.Value, Caption: c.Change, Trend: trend})
	}
	return tiles
}

func monthlyChart(monthly []dto.MonthTotal) export.ChartSpec {
	spec := export.ChartSpec{Title: "Records by Month"}
	for _, m := range monthly {
		spec.Points = append(spec.Points, export.ChartPoint{Label: m.Month, Value: float64(m.Records)})
	}
	return spec
}

func genderChart(gender []dto.GenderSlice) export.ChartSpec {
	spec := export.ChartSpec{Title: "Gender Distribution"}
	for _, g := range gender {
		spec.Points = append(spec.Points, export.ChartPoint{Label: g.Name, Value: float64(g.Value)})
	}
	return spec
}

func stringsRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func orAll(v string) string {
	if v == "" {
		return "All"
	}
	return v
}
