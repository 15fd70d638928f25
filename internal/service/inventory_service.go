package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/cache"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
	"github.com/sahaya-relief/camp-api/pkg/export"
)

type inventoryReader interface {
	ListByCamp(ctx context.Context, campID string) ([]models.InventoryRecord, error)
}

type campRequestLister interface {
	List(ctx context.Context, filter models.CampRequestFilter) ([]models.CampRequest, error)
}

type campDonationLister interface {
	ListByCamp(ctx context.Context, campID string, status models.DonationStatus) ([]models.DonationRecord, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

func inventoryCacheKey(campID string) string {
	return cache.Key("inventory", "summary", campID)
}

// InventoryService projects requests, received donations and stock into the
// per-camp inventory view.
type InventoryService struct {
	inventory inventoryReader
	requests  campRequestLister
	donations campDonationLister
	cache     summaryCache
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService constructs the service. cache may be nil.
func NewInventoryService(inventory inventoryReader, requests campRequestLister, donations campDonationLister, cache summaryCache, ttl time.Duration, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		inventory: inventory,
		requests:  requests,
		donations: donations,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Summary returns one row per item the camp has requested, received or stocked.
func (s *InventoryService) Summary(ctx context.Context, campID string) ([]models.InventorySummaryItem, error) {
	campID = strings.TrimSpace(campID)
	if campID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "campId is required")
	}

	key := inventoryCacheKey(campID)
	if s.cache != nil {
		var cached []models.InventorySummaryItem
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	stock, err := s.inventory.ListByCamp(ctx, campID)
	if err != nil {
		return nil, appErrors.Internal(err, "error fetching inventory")
	}
	requests, err := s.requests.List(ctx, models.CampRequestFilter{CampID: campID})
	if err != nil {
		return nil, appErrors.Internal(err, "error fetching inventory")
	}
	received, err := s.donations.ListByCamp(ctx, campID, models.DonationStatusReceived)
	if err != nil {
		return nil, appErrors.Internal(err, "error fetching inventory")
	}

	summary := BuildInventorySummary(stock, requests, received)
	if s.cache != nil {
		s.cache.Set(ctx, key, summary, s.ttl)
	}
	return summary, nil
}

// Export renders the camp's inventory summary as CSV or PDF.
func (s *InventoryService) Export(ctx context.Context, campID, format string) ([]byte, string, export.Format, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	summary, err := s.Summary(ctx, campID)
	if err != nil {
		return nil, "", "", err
	}

	now := s.now().UTC()
	table := export.Table{
		Title:       "Inventory " + campID,
		Subtitle:    strconv.Itoa(len(summary)) + " items",
		Headers:     []string{"Item", "Requested", "Received", "Current Stock", "Donors"},
		Rows:        make([][]string, 0, len(summary)),
		GeneratedAt: now,
	}
	for _, item := range summary {
		names := make([]string, 0, len(item.Donors))
		for _, d := range item.Donors {
			names = append(names, d.Name)
		}
		table.Rows = append(table.Rows, []string{
			item.ItemName,
			strconv.Itoa(item.Requested),
			strconv.Itoa(item.Received),
			strconv.Itoa(item.CurrentStock),
			strings.Join(names, "; "),
		})
	}

	body, err := export.Render(f, table)
	if err != nil {
		return nil, "", "", appErrors.Internal(err, "failed to render inventory export")
	}
	s.logger.Info("inventory exported", zap.String("camp_id", campID), zap.String("format", string(f)), zap.Int("items", len(summary)))
	return body, export.Filename("inventory-"+campID, f, now), f, nil
}

// BuildInventorySummary aggregates by item name. Only Received donations
// count toward received and donors; requested sums every request ever made.
func BuildInventorySummary(stock []models.InventoryRecord, requests []models.CampRequest, received []models.DonationRecord) []models.InventorySummaryItem {
	items := make(map[string]*models.InventorySummaryItem)
	ensure := func(name string) *models.InventorySummaryItem {
		item, ok := items[name]
		if !ok {
			item = &models.InventorySummaryItem{ItemName: name, Donors: []models.DonorContribution{}}
			items[name] = item
		}
		return item
	}

	for _, req := range requests {
		ensure(req.ItemName).Requested += req.RequiredQty
	}
	for _, d := range received {
		if d.Status != models.DonationStatusReceived {
			continue
		}
		item := ensure(d.ItemName)
		item.Received += d.Quantity
		item.Donors = append(item.Donors, models.DonorContribution{Name: d.DonorName, Quantity: d.Quantity, Unit: d.Unit})
	}
	for _, rec := range stock {
		ensure(rec.ItemName).CurrentStock = rec.Quantity
	}

	out := make([]models.InventorySummaryItem, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}
