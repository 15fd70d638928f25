package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/internal/repository"
	"github.com/sahaya-relief/camp-api/pkg/database/databasetest"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

type reconciliationFixture struct {
	svc       *ReconciliationService
	requests  *repository.CampRequestRepository
	donations *repository.DonationRepository
	inventory *repository.InventoryRepository
	cache     *recordingCache
	metrics   *MetricsService
}

func newReconciliationFixture(t *testing.T) reconciliationFixture {
	db := databasetest.NewDB(t)
	cache := &recordingCache{}
	metrics := NewMetricsService()
	svc := NewReconciliationService(
		repository.NewLedgerRepository(db),
		repository.NewDonationRepository(db),
		cache,
		metrics,
		nil,
		nil,
		ReconciliationConfig{MaxAttempts: 3, RetryBackoff: time.Millisecond},
	)
	return reconciliationFixture{
		svc:       svc,
		requests:  repository.NewCampRequestRepository(db),
		donations: repository.NewDonationRepository(db),
		inventory: repository.NewInventoryRepository(db),
		cache:     cache,
		metrics:   metrics,
	}
}

func (f reconciliationFixture) seed(t *testing.T, campID, item string, required int) *models.CampRequest {
	t.Helper()
	req := &models.CampRequest{CampID: campID, CampName: "Camp " + campID, ItemName: item, Unit: "kg", Priority: models.SeverityHigh, RequiredQty: required}
	require.NoError(t, f.requests.Create(context.Background(), req))
	return req
}

func (f reconciliationFixture) stock(t *testing.T, campID, item string) int {
	t.Helper()
	rec, err := f.inventory.Get(context.Background(), campID, item)
	if err != nil {
		return 0
	}
	return rec.Quantity
}

var adminActor = &models.JWTClaims{Role: models.RoleAdmin}

func managerOf(campID string) *models.JWTClaims {
	return &models.JWTClaims{Role: models.RoleCampManager, CampID: campID}
}

func intPtr(v int) *int { return &v }

func TestReconciliationPledgeConfirmAndReject(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Rice", 100)

	pledged, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 30})
	require.NoError(t, err)
	assert.Equal(t, 70, pledged.Remaining)
	assert.Equal(t, models.DefaultDonorName, pledged.Donation.DonorName)

	received, err := f.svc.ConfirmReceived(ctx, pledged.Donation.ID, managerOf("CAMP001"))
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusReceived, received.Status)
	assert.Equal(t, 30, received.NewInventory)
	assert.Equal(t, 70, received.RemainingNeeded)

	second, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 20, DonorName: "  Ravi "})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", second.Donation.DonorName)

	rejected, err := f.svc.ConfirmNotReceived(ctx, second.Donation.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusNotReceived, rejected.Status)
	assert.Equal(t, 70, rejected.RemainingNeeded)
	assert.Equal(t, 30, rejected.NewInventory)
	assert.Equal(t, 30, f.stock(t, "CAMP001", "Rice"))

	_, err = f.svc.ConfirmReceived(ctx, pledged.Donation.ID, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeAlreadyResolved))
	_, err = f.svc.ConfirmNotReceived(ctx, pledged.Donation.ID, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeAlreadyResolved))

	assert.Contains(t, f.cache.deleted, inventoryCacheKey("CAMP001"))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues(OpPledge, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues(OpConfirmReceived, OutcomeRejected)))
}

func TestReconciliationPledgeRejections(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Water", 10)

	_, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 11})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidRequestState))

	_, err = f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: "missing", DonateQty: 1})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidRequestState))

	_, err = f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 0})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	_, err = f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 10})
	require.NoError(t, err)
	_, err = f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 1})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidRequestState), "fulfilled requests accept no pledges")

	stored, err := f.requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RemainingQty)
	assert.Equal(t, models.RequestStatusFulfilled, stored.Status)
}

func TestReconciliationManagerScope(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Tents", 5)
	pledged, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 2})
	require.NoError(t, err)

	_, err = f.svc.ConfirmReceived(ctx, pledged.Donation.ID, managerOf("CAMP002"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeForbidden))
	_, err = f.svc.ConfirmReceived(ctx, pledged.Donation.ID, nil)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnauthorized))
	_, err = f.svc.ConfirmNotReceived(ctx, "missing", managerOf("CAMP001"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))
	_, err = f.svc.ManualInventorySet(ctx, dto.InventoryUpdateRequest{CampID: "CAMP002", ItemName: "Tents", Quantity: intPtr(1)}, managerOf("CAMP001"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeForbidden))

	assert.Equal(t, 0, f.stock(t, "CAMP001", "Tents"))
}

func TestReconciliationConcurrentConfirmationsApplyOnce(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Blankets", 50)
	pledged, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 12})
	require.NoError(t, err)

	const workers = 10
	var (
		wg        sync.WaitGroup
		succeeded int32
		resolved  int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = f.svc.ConfirmReceived(ctx, pledged.Donation.ID, adminActor)
			} else {
				_, err = f.svc.ConfirmNotReceived(ctx, pledged.Donation.ID, adminActor)
			}
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case appErrors.IsCode(err, appErrors.CodeAlreadyResolved):
				atomic.AddInt32(&resolved, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(workers-1), resolved)

	stored, err := f.requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	stock := f.stock(t, "CAMP001", "Blankets")
	if stock == 12 {
		assert.Equal(t, 38, stored.RemainingQty)
	} else {
		assert.Equal(t, 0, stock)
		assert.Equal(t, 50, stored.RemainingQty)
	}
}

func TestReconciliationManualInventorySet(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Milk", 40)

	res, err := f.svc.ManualInventorySet(ctx, dto.InventoryUpdateRequest{CampID: "CAMP001", ItemName: " Milk ", Quantity: intPtr(15)}, managerOf("CAMP001"))
	require.NoError(t, err)
	assert.Equal(t, 15, res.Inventory.Quantity)
	require.NotNil(t, res.Request)
	assert.Equal(t, req.ID, res.Request.ID)
	assert.Equal(t, 25, res.Request.RemainingQty)

	_, err = f.svc.ManualInventorySet(ctx, dto.InventoryUpdateRequest{CampID: "CAMP001", ItemName: "Milk"}, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
	assert.Equal(t, 15, f.stock(t, "CAMP001", "Milk"))
}

type flakyLedger struct {
	calls int
	err   error
}

func (l *flakyLedger) Pledge(context.Context, repository.PledgeParams) (*models.PledgeResult, error) {
	l.calls++
	return nil, l.err
}

func (l *flakyLedger) ConfirmReceived(context.Context, string, time.Time) (*models.ConfirmationResult, *models.DonationRecord, error) {
	l.calls++
	return nil, nil, l.err
}

func (l *flakyLedger) ConfirmNotReceived(context.Context, string, time.Time) (*models.ConfirmationResult, *models.DonationRecord, error) {
	l.calls++
	return nil, nil, l.err
}

func (l *flakyLedger) SetInventory(context.Context, string, string, int, time.Time) (*models.ManualInventoryResult, error) {
	l.calls++
	return nil, l.err
}

func TestReconciliationTransientFailuresExhaustRetries(t *testing.T) {
	ledger := &flakyLedger{err: &pq.Error{Code: "40001", Message: "could not serialize access"}}
	metrics := NewMetricsService()
	svc := NewReconciliationService(ledger, nil, nil, metrics, nil, nil, ReconciliationConfig{MaxAttempts: 4, RetryBackoff: time.Millisecond})

	_, err := svc.ConfirmReceived(context.Background(), "d1", adminActor)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeTransientFailure))
	assert.Equal(t, 4, ledger.calls)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.retries.WithLabelValues(OpConfirmReceived)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transitions.WithLabelValues(OpConfirmReceived, OutcomeFailed)))
}

func TestReconciliationUnexpectedFailureIsInternal(t *testing.T) {
	ledger := &flakyLedger{err: assert.AnError}
	svc := NewReconciliationService(ledger, nil, nil, nil, nil, nil, ReconciliationConfig{MaxAttempts: 3})

	_, err := svc.ManualInventorySet(context.Background(), dto.InventoryUpdateRequest{CampID: "CAMP001", ItemName: "Rice", Quantity: intPtr(3)}, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInternal))
	assert.Equal(t, 1, ledger.calls)
}

func TestReconciliationRejectUnknownStatus(t *testing.T) {
	ledger := &flakyLedger{err: &repository.DonationStateError{Status: "Lost"}}
	svc := NewReconciliationService(ledger, nil, nil, nil, nil, nil, ReconciliationConfig{})

	_, err := svc.ConfirmNotReceived(context.Background(), "d1", adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidStateForRejection))
}
