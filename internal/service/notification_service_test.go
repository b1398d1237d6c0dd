package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
)

func TestNotificationFeedDrain(t *testing.T) {
	svc := NewNotificationService(0, nil)
	svc.Success("saved")
	svc.Warning("careful")
	svc.Error("failed")

	pending := svc.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, dto.LevelSuccess, pending[0].Level)
	assert.NotEmpty(t, pending[0].ID)
	assert.NotEqual(t, pending[0].ID, pending[1].ID)
	assert.Equal(t, time.UTC, pending[0].CreatedAt.Location())

	drained := svc.Drain()
	assert.Equal(t, pending, drained)
	assert.Empty(t, svc.Drain())
	assert.NotNil(t, svc.Drain())
}

func TestNotificationFeedIsBounded(t *testing.T) {
	svc := NewNotificationService(3, nil)
	for i := 0; i < 5; i++ {
		svc.Info(fmt.Sprintf("n%d", i))
	}
	items := svc.Drain()
	require.Len(t, items, 3)
	assert.Equal(t, "n2", items[0].Message)
	assert.Equal(t, "n4", items[2].Message)
}

func TestMetricsServiceCollects(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/records", http.StatusOK, 20*time.Millisecond)
	m.ObserveUpstream("GET", "/api/permits", http.StatusUnauthorized, time.Millisecond)
	m.ObserveExport(FormatCSV, ExportOutcomeSuccess, 12)
	m.ObserveDraftSave(nil)
	m.ObserveDraftSave(errors.New("disk full"))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, f := range families {
		var sum float64
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				sum += c.GetValue()
			}
		}
		byName[f.GetName()] = sum
	}
	assert.Equal(t, float64(1), byName["http_requests_total"])
	assert.Equal(t, float64(1), byName["backend_requests_total"])
	assert.Equal(t, float64(1), byName["session_sign_outs_total"])
	assert.Equal(t, float64(1), byName["report_exports_total"])
	assert.Equal(t, float64(2), byName["capture_draft_saves_total"])
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", http.StatusOK, 0)
	m.ObserveExport(FormatPDF, ExportOutcomeError, 0)
	m.ObserveDraftSave(nil)
	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}
