package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/export"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/storage"
)

type staticSnapshot struct {
	snap ReportSnapshot
}

func (s staticSnapshot) Snapshot() ReportSnapshot { return s.snap }

type recordingExports struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingExports) ObserveExport(format, outcome string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, format+":"+outcome)
}

type failingPDF struct{}

func (failingPDF) Render(export.Report) ([]byte, error) { return nil, errors.New("font missing") }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleSnapshot() ReportSnapshot {
	overview := sampleOverview()
	all := []models.Permit{
		{ID: "1", PermitNumber: "BP-2024-00001", FirstName: "Jane", LastName: "Doe", Gender: models.GenderFemale, Age: 71, DateOfDeath: datePtr(2024, time.January, 5), BurialLocation: "Main", Status: models.StatusVerified, IssuanceDate: datePtr(2024, time.January, 7)},
		{ID: "2", PermitNumber: "BP-2024-00002", FirstName: "John", MiddleName: "K", LastName: "Otieno", Gender: models.GenderMale, DateOfDeath: datePtr(2024, time.February, 1), BurialLocation: "Block A", Status: models.StatusPending},
	}
	return ReportSnapshot{
		Filters:     models.DefaultReportFilter(),
		CurrentPage: 1,
		Page:        all[:1],
		All:         all,
		Overview:    overview,
		Cards:       ReportCards(*overview),
		Gender:      GenderDistribution(overview.GenderStats),
		Monthly:     MonthlyTotals(overview.MonthlyTrend),
		PanelsReady: true,
	}
}

func newExportServiceForTest(t *testing.T, snap ReportSnapshot) (*ExportService, *storage.LocalStorage, *recordingNotifier, *recordingExports) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	notes := &recordingNotifier{}
	metrics := &recordingExports{}
	svc := NewExportService(ExportServiceParams{
		Source:   staticSnapshot{snap: snap},
		Storage:  store,
		Notifier: notes,
		Metrics:  metrics,
		Logger:   zap.NewNop(),
		Config:   ExportConfig{ResultTTL: time.Hour},
	})
	svc.now = func() time.Time { return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store, notes, metrics
}

func TestExportCSV(t *testing.T) {
	svc, store, notes, metrics := newExportServiceForTest(t, sampleSnapshot())

	file, err := svc.Export(context.Background(), "CSV")
	require.NoError(t, err)
	assert.Equal(t, "burial-permit-report-2024-03-01.csv", file.Filename)
	assert.Equal(t, 2, file.Records)

	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Permit Number","Full Name","Date of Death","Burial Location","Gender","Age","Status"`, lines[0])
	assert.Equal(t, `"BP-2024-00001","Jane Doe","05/01/2024","Main","Female","71","Verified"`, lines[1])
	assert.Equal(t, `"BP-2024-00002","John K Otieno","01/02/2024","Block A","Male","0","Pending"`, lines[2])

	stored, err := os.ReadFile(store.Path(file.Filename))
	require.NoError(t, err)
	assert.Equal(t, file.Data, stored)
	assert.Equal(t, []string{"CSV file exported successfully"}, notes.success)
	assert.Equal(t, []string{"csv:success"}, metrics.outcomes)
}

func TestExportXLSXSheets(t *testing.T) {
	svc, _, notes, _ := newExportServiceForTest(t, sampleSnapshot())

	file, err := svc.Export(context.Background(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "All Records", "Filtered View"}, f.GetSheetList())

	total, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "10", total)

	rows, err := f.GetRows("All Records")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Issuance Date", rows[0][7])
	assert.Equal(t, "07/01/2024", rows[1][7])
	age, err := f.GetCellValue("All Records", "F3")
	require.NoError(t, err)
	assert.Empty(t, age)

	filtered, err := f.GetRows("Filtered View")
	require.NoError(t, err)
	require.Len(t, filtered, 9)
	assert.Equal(t, "BP-2024-00001", filtered[8][0])
	assert.Equal(t, []string{"Excel file exported with 2 total records"}, notes.success)
}

func TestExportXLSXWithoutPageSkipsFilteredSheet(t *testing.T) {
	snap := sampleSnapshot()
	snap.Page = nil
	svc, _, _, _ := newExportServiceForTest(t, snap)

	file, err := svc.Export(context.Background(), FormatXLSX)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "All Records"}, f.GetSheetList())
}

func TestExportPDF(t *testing.T) {
	svc, _, notes, _ := newExportServiceForTest(t, sampleSnapshot())

	file, err := svc.Export(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []string{"Generating PDF... Please wait"}, notes.info)
	assert.Equal(t, []string{"PDF exported successfully with 2 records"}, notes.success)
}

func TestExportPDFWithoutStatistics(t *testing.T) {
	snap := sampleSnapshot()
	snap.PanelsReady = false
	snap.Overview = nil
	svc, _, _, _ := newExportServiceForTest(t, snap)

	file, err := svc.Export(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportEmptyWarnsOnce(t *testing.T) {
	snap := sampleSnapshot()
	snap.All = nil
	svc, store, notes, metrics := newExportServiceForTest(t, snap)

	file, err := svc.Export(context.Background(), FormatCSV)
	require.ErrorIs(t, err, appErrors.ErrNothingToExport)
	assert.Nil(t, file)
	assert.Equal(t, []string{"No records to export. Please wait for data to load."}, notes.warnings)
	assert.Empty(t, notes.success)
	assert.Equal(t, []string{"csv:empty"}, metrics.outcomes)

	entries, err := os.ReadDir(filepath.Dir(store.Path("x")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _, _, _ := newExportServiceForTest(t, sampleSnapshot())
	_, err := svc.Export(context.Background(), "docx")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportRenderFailure(t *testing.T) {
	notes := &recordingNotifier{}
	metrics := &recordingExports{}
	svc := NewExportService(ExportServiceParams{
		Source:   staticSnapshot{snap: sampleSnapshot()},
		Notifier: notes,
		Metrics:  metrics,
		PDF:      failingPDF{},
	})

	_, err := svc.Export(context.Background(), FormatPDF)
	require.ErrorIs(t, err, appErrors.ErrExportFailed)
	assert.Equal(t, []string{"Error exporting PDF: font missing"}, notes.errorMessages())
	assert.Equal(t, []string{"pdf:error"}, metrics.outcomes)
}

func TestExportCleanup(t *testing.T) {
	svc, store, _, _ := newExportServiceForTest(t, sampleSnapshot())
	_, err := store.Save("old.csv", []byte("x"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.csv"), past, past))
	_, err = store.Save("new.csv", []byte("y"))
	require.NoError(t, err)

	deleted, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)
}
