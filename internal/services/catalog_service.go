package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"
)

const (
	catalogCacheTTL = 5 * time.Minute
	catalogMaxItems = 500
)

type CatalogService interface {
	Browse(ctx context.Context, filter *models.CatalogFilter) ([]models.CatalogItem, error)
}

type catalogService struct {
	inventoryRepo repositories.InventoryRepository
	cacheSvc      caching.CacheService
}

func NewCatalogService(inventoryRepo repositories.InventoryRepository, cacheSvc caching.CacheService) CatalogService {
	return &catalogService{
		inventoryRepo: inventoryRepo,
		cacheSvc:      cacheSvc,
	}
}

// Browse merges seller and supplier inventory into the buyer-facing catalog.
// Rows with nothing available are dropped, orderability depends on the source
// party being in good standing.
func (s *catalogService) Browse(ctx context.Context, filter *models.CatalogFilter) ([]models.CatalogItem, error) {
	cacheKey := filterCacheKey(filter)
	if cached, err := s.cacheSvc.GetCatalog(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	rows, err := s.inventoryRepo.ListCatalogRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %v", err)
	}

	now := time.Now()
	items := make([]models.CatalogItem, 0, len(rows))
	for _, row := range rows {
		item, ok := catalogItemFromRow(row, now)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ProductName != items[j].ProductName {
			return strings.ToLower(items[i].ProductName) < strings.ToLower(items[j].ProductName)
		}
		return items[i].AvailableQuantity > items[j].AvailableQuantity
	})

	if len(items) > catalogMaxItems {
		items = items[:catalogMaxItems]
	}

	if err := s.cacheSvc.SetCatalog(ctx, cacheKey, items, catalogCacheTTL); err != nil {
		log.Printf("Failed to cache catalog: %v", err)
	}
	return items, nil
}

// catalogItemFromRow computes availability and orderability for one inventory
// row. Rows with nothing available or no resolvable source are skipped.
func catalogItemFromRow(row *models.CatalogSourceRow, now time.Time) (models.CatalogItem, bool) {
	available := row.Inventory.AvailableQuantity(now)
	if available <= 0 {
		return models.CatalogItem{}, false
	}

	item := models.CatalogItem{
		InventoryID:       row.Inventory.ID,
		Kind:              row.Inventory.Kind,
		ProductID:         row.Inventory.ProductID,
		ProductName:       row.ProductName,
		ProductTypeName:   row.ProductTypeName,
		SellerID:          row.Inventory.SellerID,
		SupplierID:        row.Inventory.SupplierID,
		AvailableQuantity: available,
		UnitPrice:         row.Inventory.UnitPrice,
	}

	switch {
	case row.Inventory.SellerID != nil:
		item.SourceType = models.SourceTypeSeller
		name := ""
		if row.SellerName != nil {
			name = *row.SellerName
		}
		item.SourceLabel = "Seller: " + name
		item.CanOrder = row.SellerStatus != nil && *row.SellerStatus == models.SellerStatusValid && row.SellerHasRole
	case row.Inventory.SupplierID != nil:
		item.SourceType = models.SourceTypeSupplier
		name := ""
		if row.SupplierName != nil {
			name = *row.SupplierName
		}
		item.SourceLabel = "Supplier: " + name
		item.CanOrder = row.SupplierIsActive != nil && *row.SupplierIsActive
	default:
		return models.CatalogItem{}, false
	}

	return item, true
}

func filterCacheKey(filter *models.CatalogFilter) string {
	if filter == nil || filter.Empty() {
		return "all"
	}
	return strings.ToLower(strings.Join([]string{
		filter.ProductType, filter.ProductName, filter.SellerName, filter.SupplierName,
	}, "|"))
}
