package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/internal/repository"
	"github.com/sahaya-relief/camp-api/pkg/database/databasetest"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

func newTestRequestService(t *testing.T) (*RequestService, *recordingCache) {
	db := databasetest.NewDB(t)
	camps := newStubCampStore(
		&models.CampManager{CampID: "CAMP001", CampName: "Riverside"},
		&models.CampManager{CampID: "CAMP002", CampName: "Hilltop"},
	)
	cache := &recordingCache{}
	return NewRequestService(repository.NewCampRequestRepository(db), camps, cache, nil, nil), cache
}

func TestRequestServiceCreate(t *testing.T) {
	svc, cache := newTestRequestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateSupplyRequest{CampID: "CAMP001", ItemName: " Rice ", RequiredQty: 50, Unit: "kg", Category: "Food"}, managerOf("CAMP001"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Riverside", created.CampName)
	assert.Equal(t, "Rice", created.ItemName)
	assert.Equal(t, 50, created.RemainingQty)
	assert.Equal(t, models.SeverityMedium, created.Priority)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.Equal(t, []string{inventoryCacheKey("CAMP001")}, cache.deleted)

	_, err = svc.Create(ctx, dto.CreateSupplyRequest{CampID: "CAMP002", ItemName: "Rice", RequiredQty: 5}, managerOf("CAMP001"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeForbidden))

	_, err = svc.Create(ctx, dto.CreateSupplyRequest{CampID: "CAMP404", ItemName: "Rice", RequiredQty: 5}, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))

	_, err = svc.Create(ctx, dto.CreateSupplyRequest{CampID: "CAMP001", ItemName: "Rice", RequiredQty: 0}, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	_, err = svc.Create(ctx, dto.CreateSupplyRequest{CampID: "CAMP001", ItemName: "Rice", RequiredQty: 1, Priority: "Urgent"}, adminActor)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
}

func TestRequestServiceListings(t *testing.T) {
	svc, _ := newTestRequestService(t)
	ctx := context.Background()

	mk := func(camp, item, category, priority string, qty int) *models.CampRequest {
		req, err := svc.Create(ctx, dto.CreateSupplyRequest{CampID: camp, ItemName: item, RequiredQty: qty, Category: category, Priority: priority}, adminActor)
		require.NoError(t, err)
		return req
	}
	mk("CAMP001", "Rice", "Food", "Low", 10)
	mk("CAMP001", "Insulin", "Medical", "Critical", 3)
	mk("CAMP002", "Tarps", "Shelter", "High", 8)

	open, err := svc.ListOpen(ctx, dto.SupplyRequestQuery{})
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "Insulin", open[0].ItemName, "critical requests come first")

	food, err := svc.ListOpen(ctx, dto.SupplyRequestQuery{Category: "food"})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, "Rice", food[0].ItemName)

	byCamp, err := svc.ListOpen(ctx, dto.SupplyRequestQuery{CampID: "CAMP002", Priority: "High"})
	require.NoError(t, err)
	require.Len(t, byCamp, 1)

	_, err = svc.ListOpen(ctx, dto.SupplyRequestQuery{Priority: "Urgent"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	mine, err := svc.ListByCamp(ctx, "CAMP001", managerOf("CAMP001"))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListByCamp(ctx, "CAMP002", managerOf("CAMP001"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeForbidden))
}
