package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/database/databasetest"
)

type ledgerFixture struct {
	ledger    *LedgerRepository
	requests  *CampRequestRepository
	donations *DonationRepository
	inventory *InventoryRepository
}

func newLedgerFixture(t *testing.T) ledgerFixture {
	db := databasetest.NewDB(t)
	return ledgerFixture{
		ledger:    NewLedgerRepository(db),
		requests:  NewCampRequestRepository(db),
		donations: NewDonationRepository(db),
		inventory: NewInventoryRepository(db),
	}
}

func (f ledgerFixture) seedRequest(t *testing.T, item string, required int) *models.CampRequest {
	t.Helper()
	req := &models.CampRequest{
		CampID:      "CAMP001",
		CampName:    "Riverside",
		ItemName:    item,
		Unit:        "kg",
		Category:    "Food",
		Priority:    models.SeverityHigh,
		RequiredQty: required,
	}
	require.NoError(t, f.requests.Create(context.Background(), req))
	return req
}

func (f ledgerFixture) request(t *testing.T, id string) *models.CampRequest {
	t.Helper()
	req, err := f.requests.FindByID(context.Background(), id)
	require.NoError(t, err)
	return req
}

func (f ledgerFixture) stock(t *testing.T, item string) int {
	t.Helper()
	rec, err := f.inventory.Get(context.Background(), "CAMP001", item)
	if err != nil {
		return 0
	}
	return rec.Quantity
}

func (f ledgerFixture) pledge(t *testing.T, requestID string, qty int) *models.PledgeResult {
	t.Helper()
	res, err := f.ledger.Pledge(context.Background(), PledgeParams{
		RequestID: requestID,
		Quantity:  qty,
		DonorName: "Asha",
		At:        time.Now().UTC(),
	})
	require.NoError(t, err)
	return res
}

func TestLedgerReconciliationScenario(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Rice", 100)

	a := f.pledge(t, req.ID, 60)
	assert.Equal(t, 40, a.Remaining)
	assert.Equal(t, models.DonationStatusPending, a.Donation.Status)
	assert.Equal(t, req.ID, a.Donation.RequestID)
	assert.Equal(t, 0, f.stock(t, "Rice"), "pledging must not touch inventory")

	confirmed, _, err := f.ledger.ConfirmReceived(ctx, a.Donation.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 60, confirmed.NewInventory)
	assert.Equal(t, 40, confirmed.RemainingNeeded)
	assert.Equal(t, 40, f.request(t, req.ID).RemainingQty)

	b := f.pledge(t, req.ID, 40)
	assert.Equal(t, 0, b.Remaining)
	assert.Equal(t, models.RequestStatusFulfilled, f.request(t, req.ID).Status)

	rejected, _, err := f.ledger.ConfirmNotReceived(ctx, b.Donation.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 40, rejected.RemainingNeeded)
	assert.Equal(t, 60, rejected.NewInventory)

	after := f.request(t, req.ID)
	assert.Equal(t, 40, after.RemainingQty)
	assert.Equal(t, models.RequestStatusPending, after.Status)
	assert.Equal(t, 60, f.stock(t, "Rice"))

	history, err := f.donations.ListByCamp(ctx, "CAMP001", "")
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestLedgerPledgeOverQuotaLeavesLedgersUnchanged(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Water", 10)

	_, err := f.ledger.Pledge(ctx, PledgeParams{RequestID: req.ID, Quantity: 11, DonorName: "x", At: time.Now().UTC()})
	assert.ErrorIs(t, err, ErrRequestUnavailable)

	assert.Equal(t, 10, f.request(t, req.ID).RemainingQty)
	donations, err := f.donations.ListByCamp(ctx, "CAMP001", "")
	require.NoError(t, err)
	assert.Empty(t, donations)
	assert.Equal(t, 0, f.stock(t, "Water"))
}

func TestLedgerPledgeOnFulfilledOrMissingRequest(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Tents", 2)
	f.pledge(t, req.ID, 2)

	_, err := f.ledger.Pledge(ctx, PledgeParams{RequestID: req.ID, Quantity: 1, At: time.Now().UTC()})
	assert.ErrorIs(t, err, ErrRequestUnavailable)

	_, err = f.ledger.Pledge(ctx, PledgeParams{RequestID: "missing", Quantity: 1, At: time.Now().UTC()})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrRequestUnavailable))
}

func TestLedgerResolvedDonationIsRejectedWithoutSideEffects(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Blankets", 10)
	p := f.pledge(t, req.ID, 4)

	_, _, err := f.ledger.ConfirmReceived(ctx, p.Donation.ID, time.Now().UTC())
	require.NoError(t, err)

	_, _, err = f.ledger.ConfirmReceived(ctx, p.Donation.ID, time.Now().UTC())
	var stateErr *DonationStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.DonationStatusReceived, stateErr.Status)

	_, _, err = f.ledger.ConfirmNotReceived(ctx, p.Donation.ID, time.Now().UTC())
	require.ErrorAs(t, err, &stateErr)

	assert.Equal(t, 4, f.stock(t, "Blankets"))
	assert.Equal(t, 6, f.request(t, req.ID).RemainingQty)
}

func TestLedgerConfirmReceivedMarksDrainedRequestFulfilled(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Soap", 5)
	p := f.pledge(t, req.ID, 5)

	res, stored, err := f.ledger.ConfirmReceived(ctx, p.Donation.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, res.RemainingNeeded)
	require.NotNil(t, stored.ReceivedAt)
	assert.Equal(t, models.RequestStatusFulfilled, f.request(t, req.ID).Status)
}

func TestLedgerSetInventoryResyncsOpenRequest(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Milk", 50)

	res, err := f.ledger.SetInventory(ctx, "CAMP001", "Milk", 20, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, res.Request)
	assert.Equal(t, 30, res.Request.RemainingQty)
	assert.Equal(t, 20, f.stock(t, "Milk"))

	res, err = f.ledger.SetInventory(ctx, "CAMP001", "Milk", 75, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, res.Request)
	stored := f.request(t, req.ID)
	assert.Equal(t, 0, stored.RemainingQty)
	assert.Equal(t, models.RequestStatusFulfilled, stored.Status)
	assert.Equal(t, 75, f.stock(t, "Milk"))

	res, err = f.ledger.SetInventory(ctx, "CAMP001", "Milk", 1, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, res.Request, "fulfilled requests are not reopened by an overwrite")
	assert.Equal(t, 1, f.stock(t, "Milk"))
}

func TestLedgerConcurrentConfirmationsAreAllCounted(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Rice", 200)

	const donors = 8
	ids := make([]string, 0, donors)
	for i := 0; i < donors; i++ {
		ids = append(ids, f.pledge(t, req.ID, 5).Donation.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, donors*2)
	for _, id := range ids {
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, _, err := f.ledger.ConfirmReceived(ctx, id, time.Now().UTC())
				errs <- err
			}(id)
		}
	}
	wg.Wait()
	close(errs)

	var ok, resolved int
	for err := range errs {
		var stateErr *DonationStateError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &stateErr):
			resolved++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, donors, ok)
	assert.Equal(t, donors, resolved)
	assert.Equal(t, donors*5, f.stock(t, "Rice"))
}

func TestLedgerConcurrentPledgesNeverOvercommit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := f.seedRequest(t, "Water", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Pledge(ctx, PledgeParams{RequestID: req.ID, Quantity: 3, DonorName: "d", At: time.Now().UTC()})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	stored := f.request(t, req.ID)
	assert.Equal(t, 1, stored.RemainingQty)
	assert.GreaterOrEqual(t, stored.RemainingQty, 0)
}
