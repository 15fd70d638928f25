package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/cache"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type campCounter interface {
	Count(ctx context.Context) (int, error)
}

type requestCounter interface {
	CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error)
}

type donationTotals interface {
	CountByStatus(ctx context.Context, status models.DonationStatus) (int, error)
	TotalMoney(ctx context.Context) (decimal.Decimal, error)
}

type inmateCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type disasterCounter interface {
	CountByStatus(ctx context.Context, status models.DisasterStatus) (int, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Camps     campCounter
	Requests  requestCounter
	Donations donationTotals
	Inmates   inmateCounter
	Disasters disasterCounter
	Cache     summaryCache
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

// DashboardService composes the admin overview across all camps.
type DashboardService struct {
	camps     campCounter
	requests  requestCounter
	donations donationTotals
	inmates   inmateCounter
	disasters disasterCounter
	cache     summaryCache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		camps:     params.Camps,
		requests:  params.Requests,
		donations: params.Donations,
		inmates:   params.Inmates,
		disasters: params.Disasters,
		cache:     params.Cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// Summary returns the overview and indicates cache utilisation.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	key := cache.Key("dashboard", "summary")
	if s.cache != nil {
		var cached models.DashboardSummary
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, summary, s.ttl)
	}
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*models.DashboardSummary, error) {
	var (
		summary models.DashboardSummary
		err     error
	)
	if summary.TotalCamps, err = s.camps.Count(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to count camps")
	}

	byStatus, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count requests")
	}
	summary.PendingRequests = byStatus[models.RequestStatusPending]
	summary.FulfilledRequests = byStatus[models.RequestStatusFulfilled]
	for _, n := range byStatus {
		summary.TotalRequests += n
	}

	if summary.PendingDonations, err = s.donations.CountByStatus(ctx, models.DonationStatusPending); err != nil {
		return nil, appErrors.Internal(err, "failed to count donations")
	}
	if summary.TotalMoneyDonated, err = s.donations.TotalMoney(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to total money donations")
	}
	if summary.ActiveInmates, err = s.inmates.CountActive(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to count inmates")
	}
	if summary.ActiveDisasters, err = s.disasters.CountByStatus(ctx, models.DisasterStatusActive); err != nil {
		return nil, appErrors.Internal(err, "failed to count disasters")
	}
	return &summary, nil
}
