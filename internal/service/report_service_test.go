package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type fakeOverview struct {
	overview *models.Overview
	err      error
}

func (f *fakeOverview) Overview(context.Context) (*models.Overview, error) {
	return f.overview, f.err
}

func sampleOverview() *models.Overview {
	return &models.Overview{
		TotalRecords:    10,
		VerifiedRecords: 4,
		GenderStats:     []models.GroupCount{{ID: "Male", Count: 5}, {ID: "Female", Count: 3}, {ID: "Other", Count: 2}},
		MonthlyTrend:    []models.MonthCount{{ID: models.MonthKey{Year: 2024, Month: 1}, Count: 6}, {ID: models.MonthKey{Year: 2024, Month: 2}, Count: 4}},
	}
}

func reportLister() *fakeLister {
	return &fakeLister{listFn: func(params url.Values) (*models.PermitPage, error) {
		if params.Get("page") == "" {
			return &models.PermitPage{Permits: []models.Permit{{ID: "a"}, {ID: "b"}, {ID: "c"}}, CurrentPage: 1, TotalPages: 1, Total: 3}, nil
		}
		return &models.PermitPage{Permits: []models.Permit{{ID: "a"}}, CurrentPage: 1, TotalPages: 1, Total: 3}, nil
	}}
}

func TestReportLoad(t *testing.T) {
	lister := reportLister()
	notes := &recordingNotifier{}
	svc := NewReportService(newTestExecutor(lister), &fakeOverview{overview: sampleOverview()}, notes, zap.NewNop())

	view, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Records, 1)
	assert.Equal(t, 3, view.ScopeTotal)
	assert.Equal(t, "Found 3 records", view.Message)
	assert.True(t, view.PanelsReady)
	assert.Equal(t, []dto.GenderSlice{{Name: "Male", Value: 5}, {Name: "Female", Value: 3}, {Name: "Unknown", Value: 2}}, view.Gender)
	assert.Equal(t, []dto.MonthTotal{{Month: "Jan", Records: 6}, {Month: "Feb", Records: 4}}, view.Monthly)
	require.Len(t, view.Cards, 4)
	assert.Empty(t, notes.errorMessages())

	calls := lister.recorded()
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.NotContains(t, call, "startDate")
	}

	snap := svc.Snapshot()
	assert.Len(t, snap.All, 3)
	assert.Len(t, snap.Page, 1)
	assert.Equal(t, 1, snap.CurrentPage)
}

func TestReportStatsFailureDegrades(t *testing.T) {
	notes := &recordingNotifier{}
	svc := NewReportService(newTestExecutor(reportLister()), &fakeOverview{err: appErrors.ErrUnavailable}, notes, zap.NewNop())

	view, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, view.PanelsReady)
	assert.Empty(t, view.Cards)
	assert.Equal(t, 3, view.ScopeTotal)
	assert.Equal(t, []string{"Failed to load statistics"}, notes.errorMessages())
}

func TestReportRecordsFailureClearsBothSets(t *testing.T) {
	lister := &fakeLister{listFn: func(params url.Values) (*models.PermitPage, error) {
		if params.Get("page") == "" {
			return nil, errors.New("timeout")
		}
		return &models.PermitPage{Permits: []models.Permit{{ID: "a"}}, Total: 1}, nil
	}}
	notes := &recordingNotifier{}
	svc := NewReportService(newTestExecutor(lister), &fakeOverview{overview: sampleOverview()}, notes, zap.NewNop())

	view, err := svc.ApplyFilters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Records)
	assert.Zero(t, view.ScopeTotal)
	assert.Empty(t, view.Message)
	assert.Equal(t, []string{"Failed to load records"}, notes.errorMessages())
}

func TestReportFiltersReachBothQueries(t *testing.T) {
	lister := reportLister()
	svc := NewReportService(newTestExecutor(lister), &fakeOverview{overview: sampleOverview()}, &recordingNotifier{}, zap.NewNop())

	require.NoError(t, svc.SetFilter(models.FilterGender, "Female"))
	require.NoError(t, svc.SetFilter(models.FilterReportType, "Detailed"))
	require.NoError(t, svc.SetFilter(models.FilterDateRange, models.RangeLast30Days))
	_, err := svc.ApplyFilters(context.Background())
	require.NoError(t, err)

	calls := lister.recorded()
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.Equal(t, "Female", call.Get("gender"))
		assert.NotEmpty(t, call.Get("startDate"))
		assert.NotContains(t, call, "reportType")
	}
	assert.Equal(t, calls[0].Get("startDate"), calls[1].Get("startDate"))

	view, err := svc.ResetFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReportFilter(), view.Filters)
}

func TestReportUnauthorizedReturned(t *testing.T) {
	svc := NewReportService(newTestExecutor(&fakeLister{err: appErrors.ErrUnauthorized}), &fakeOverview{err: appErrors.ErrUnauthorized}, &recordingNotifier{}, zap.NewNop())
	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestReportQueriesShareDateBoundsOnLiveClock(t *testing.T) {
	lister := reportLister()
	exec := NewQueryExecutor(lister, QueryExecutorConfig{Location: time.UTC}, zap.NewNop())
	svc := NewReportService(exec, &fakeOverview{overview: sampleOverview()}, &recordingNotifier{}, zap.NewNop())
	require.NoError(t, svc.SetFilter(models.FilterDateRange, models.RangeLast7Days))

	const rounds = 2000
	for i := 0; i < rounds; i++ {
		_, err := svc.ApplyFilters(context.Background())
		require.NoError(t, err)
	}

	calls := lister.recorded()
	require.Len(t, calls, 2*rounds)
	for i := 0; i < len(calls); i += 2 {
		require.NotEmpty(t, calls[i].Get("startDate"))
		require.Equal(t, withoutWindow(calls[i]), withoutWindow(calls[i+1]), "round %d", i/2)
	}
}

func TestReportStalePageResponseDiscarded(t *testing.T) {
	var hold atomic.Bool
	release := make(chan struct{})
	started := make(chan struct{})
	lister := &fakeLister{listFn: func(params url.Values) (*models.PermitPage, error) {
		switch params.Get("page") {
		case "":
			return pageOf("a", "b", "c", "d"), nil
		case "1":
			if hold.Load() {
				close(started)
				<-release
			}
			return pageOf("first"), nil
		default:
			page := pageOf("second")
			page.CurrentPage = 2
			return page, nil
		}
	}}
	svc := NewReportService(newTestExecutor(lister), &fakeOverview{overview: sampleOverview()}, &recordingNotifier{}, zap.NewNop())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	hold.Store(true)
	var wg sync.WaitGroup
	var slow dto.ReportView
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = svc.ApplyFilters(context.Background())
	}()
	<-started

	view, err := svc.GoToPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "second", view.Records[0].ID)

	close(release)
	wg.Wait()

	require.Len(t, slow.Records, 1)
	assert.Equal(t, "second", slow.Records[0].ID)
	view = svc.View()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "second", view.Records[0].ID)
	assert.Equal(t, 2, view.Pagination.CurrentPage)
	assert.Equal(t, 2, svc.Snapshot().CurrentPage)
}
