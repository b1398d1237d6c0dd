package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type dashboardReports interface {
	Overview(ctx context.Context) (*models.Overview, error)
	RecentPermits(ctx context.Context) ([]models.RecentPermit, error)
	MonthlyTrends(ctx context.Context) ([]models.MonthlyLocationCount, error)
}

type currentUserReader interface {
	Me(ctx context.Context) (*models.User, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Reports  dashboardReports
	Users    currentUserReader
	Notifier Notifier
	Logger   *zap.Logger
}

// DashboardService composes the dashboard payload.
type DashboardService struct {
	reports  dashboardReports
	users    currentUserReader
	notifier Notifier
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &DashboardService{
		reports:  params.Reports,
		users:    params.Users,
		notifier: params.Notifier,
		logger:   params.Logger,
	}
}

// Load fetches identity, statistics, recent permits and monthly trends
// concurrently. Every slice degrades on its own: statistics failing raises a
// notification, the others fall back to empty lists. Only a rejected session
// is returned as an error.
func (s *DashboardService) Load(ctx context.Context) (*dto.DashboardView, error) {
	var (
		user     *models.User
		overview *models.Overview
		recent   []models.RecentPermit
		monthly  []models.MonthlyLocationCount

		userErr, overviewErr, recentErr, monthlyErr error
	)

	// Members never return their error to the group so that one failure does
	// not cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		user, userErr = s.users.Me(ctx)
		return nil
	})
	g.Go(func() error {
		overview, overviewErr = s.reports.Overview(ctx)
		return nil
	})
	g.Go(func() error {
		recent, recentErr = s.reports.RecentPermits(ctx)
		return nil
	})
	g.Go(func() error {
		monthly, monthlyErr = s.reports.MonthlyTrends(ctx)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{userErr, overviewErr, recentErr, monthlyErr} {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return nil, err
		}
	}

	view := &dto.DashboardView{Cards: []dto.StatCard{}, RecentPermits: []models.RecentPermit{}}
	if userErr != nil {
		s.logger.Warn("dashboard user lookup failed", zap.Error(userErr))
		s.notifier.Warning("Failed to load user profile")
	} else {
		view.User = user
	}

	if overviewErr != nil {
		s.logger.Warn("dashboard statistics failed", zap.Error(overviewErr))
		s.notifier.Error("Failed to load statistics")
	} else if overview != nil {
		view.Overview = overview
		view.Cards = DashboardCards(*overview)
		view.Empty = overview.Empty()
	}

	if recentErr != nil {
		s.logger.Warn("dashboard recent permits failed", zap.Error(recentErr))
		s.notifier.Error("Failed to load recent permits")
	} else if recent != nil {
		view.RecentPermits = recent
	}

	if monthlyErr != nil {
		s.logger.Warn("dashboard monthly trends failed", zap.Error(monthlyErr))
		s.notifier.Error("Failed to load monthly trends")
		monthly = nil
	}
	view.MonthlyByLocation = MonthlyByLocation(monthly)
	return view, nil
}
