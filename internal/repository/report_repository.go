package repository

import (
	"context"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

// ReportRepository reads server-computed aggregates.
type ReportRepository struct {
	client *httpclient.Client
}

// NewReportRepository creates a ReportRepository.
func NewReportRepository(client *httpclient.Client) *ReportRepository {
	return &ReportRepository{client: client}
}

// Overview returns the aggregate statistics snapshot.
func (r *ReportRepository) Overview(ctx context.Context) (*models.Overview, error) {
	var overview models.Overview
	if err := r.client.Get(ctx, "/api/reports/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// RecentPermits returns the latest permits for the dashboard table.
func (r *ReportRepository) RecentPermits(ctx context.Context) ([]models.RecentPermit, error) {
	var items []models.RecentPermit
	if err := r.client.Get(ctx, "/api/reports/recent-permits", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MonthlyTrends returns per-month per-location counts.
func (r *ReportRepository) MonthlyTrends(ctx context.Context) ([]models.MonthlyLocationCount, error) {
	var items []models.MonthlyLocationCount
	if err := r.client.Get(ctx, "/api/reports/monthly-trends", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
