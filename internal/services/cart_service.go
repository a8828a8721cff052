package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type CartService interface {
	Get(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, buyerID, inventoryID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateLine(ctx context.Context, buyerID uuid.UUID, lineKey, quantity, unitPrice string) (*models.Cart, error)
	RemoveLine(ctx context.Context, buyerID uuid.UUID, lineKey string) (*models.Cart, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

type cartService struct {
	inventoryRepo repositories.InventoryRepository
	cacheSvc      caching.CacheService
}

func NewCartService(inventoryRepo repositories.InventoryRepository, cacheSvc caching.CacheService) CartService {
	return &cartService{
		inventoryRepo: inventoryRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *cartService) Get(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cacheSvc.GetCart(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %v", err)
	}
	return cart, nil
}

// AddItem puts an orderable catalog item in the cart. A second add of the
// same source and product merges quantities, clamped at availability.
func (s *cartService) AddItem(ctx context.Context, buyerID, inventoryID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	row, err := s.inventoryRepo.GetCatalogRow(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}
	item, ok := catalogItemFromRow(row, time.Now())
	if !ok {
		return nil, fmt.Errorf("item is no longer available")
	}
	if !item.CanOrder {
		return nil, fmt.Errorf("this item cannot be ordered right now")
	}

	cart, err := s.cacheSvc.GetCart(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %v", err)
	}

	line := models.CartLine{
		InventoryID:       item.InventoryID,
		Kind:              item.Kind,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		SourceType:        item.SourceType,
		SellerID:          item.SellerID,
		SupplierID:        item.SupplierID,
		SourceLabel:       item.SourceLabel,
		Quantity:          strconv.Itoa(quantity),
		UnitPrice:         strconv.FormatFloat(item.UnitPrice, 'f', -1, 64),
		AvailableQuantity: item.AvailableQuantity,
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].Key() != line.Key() {
			continue
		}
		existing, err := strconv.Atoi(strings.TrimSpace(cart.Lines[i].Quantity))
		if err != nil {
			existing = 0
		}
		total := existing + quantity
		if total > item.AvailableQuantity {
			total = item.AvailableQuantity
		}
		cart.Lines[i].Quantity = strconv.Itoa(total)
		cart.Lines[i].AvailableQuantity = item.AvailableQuantity
		merged = true
		break
	}
	if !merged {
		if quantity > item.AvailableQuantity {
			line.Quantity = strconv.Itoa(item.AvailableQuantity)
		}
		cart.Lines = append(cart.Lines, line)
	}

	if err := s.cacheSvc.SetCart(ctx, buyerID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %v", err)
	}
	return cart, nil
}

// UpdateLine replaces a line's quantity and unit price. Values are stored
// as given so a half-typed edit survives, validation happens at checkout.
func (s *cartService) UpdateLine(ctx context.Context, buyerID uuid.UUID, lineKey, quantity, unitPrice string) (*models.Cart, error) {
	cart, err := s.cacheSvc.GetCart(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %v", err)
	}

	for i := range cart.Lines {
		if cart.Lines[i].Key() != lineKey {
			continue
		}
		cart.Lines[i].Quantity = quantity
		cart.Lines[i].UnitPrice = unitPrice
		if err := s.cacheSvc.SetCart(ctx, buyerID, cart); err != nil {
			return nil, fmt.Errorf("failed to save cart: %v", err)
		}
		return cart, nil
	}
	return nil, fmt.Errorf("cart line %w", ErrNotFound)
}

func (s *cartService) RemoveLine(ctx context.Context, buyerID uuid.UUID, lineKey string) (*models.Cart, error) {
	cart, err := s.cacheSvc.GetCart(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %v", err)
	}

	for i := range cart.Lines {
		if cart.Lines[i].Key() != lineKey {
			continue
		}
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		if err := s.cacheSvc.SetCart(ctx, buyerID, cart); err != nil {
			return nil, fmt.Errorf("failed to save cart: %v", err)
		}
		return cart, nil
	}
	return nil, fmt.Errorf("cart line %w", ErrNotFound)
}

func (s *cartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	return s.cacheSvc.DeleteCart(ctx, buyerID)
}
