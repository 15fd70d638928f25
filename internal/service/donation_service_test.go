package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/internal/repository"
	"github.com/sahaya-relief/camp-api/pkg/database/databasetest"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

func TestDonationServiceMoney(t *testing.T) {
	db := databasetest.NewDB(t)
	donations := repository.NewDonationRepository(db)
	svc := NewDonationService(donations, newStubCampStore(&models.CampManager{CampID: "CAMP001"}), nil, nil)
	ctx := context.Background()

	gift, err := svc.DonateMoney(ctx, dto.DonateMoneyRequest{DonorID: "donor-7", CampID: "CAMP001", Amount: decimal.RequireFromString("1500.505")})
	require.NoError(t, err)
	assert.NotEmpty(t, gift.ID)
	assert.Equal(t, models.PaymentStatusSuccess, gift.PaymentStatus)
	assert.Equal(t, "1500.51", gift.Amount.StringFixed(2))

	_, err = svc.DonateMoney(ctx, dto.DonateMoneyRequest{CampID: "CAMP001", Amount: decimal.RequireFromString("250")})
	require.NoError(t, err)

	total, err := donations.TotalMoney(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1750.51")), total.String())

	_, err = svc.DonateMoney(ctx, dto.DonateMoneyRequest{CampID: "CAMP001", Amount: decimal.Zero})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
	_, err = svc.DonateMoney(ctx, dto.DonateMoneyRequest{CampID: "CAMP001", Amount: decimal.NewFromInt(-5)})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
	_, err = svc.DonateMoney(ctx, dto.DonateMoneyRequest{CampID: "CAMP404", Amount: decimal.NewFromInt(5)})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))
}

func TestDonationServiceHistory(t *testing.T) {
	f := newReconciliationFixture(t)
	ctx := context.Background()
	req := f.seed(t, "CAMP001", "Rice", 10)
	_, err := f.svc.Pledge(ctx, dto.DonateItemRequest{RequestID: req.ID, DonateQty: 4})
	require.NoError(t, err)

	svc := NewDonationService(f.donations, newStubCampStore(), nil, nil)

	history, err := svc.History(ctx, "CAMP001", managerOf("CAMP001"))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, req.ID, history[0].RequestID)

	empty, err := svc.History(ctx, "CAMP009", adminActor)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.History(ctx, "CAMP001", managerOf("CAMP002"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeForbidden))
}
