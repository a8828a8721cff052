package services

import (
	"context"
	"fmt"
	"log"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type InventoryService interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	ReleaseExpiredReservations(ctx context.Context) (int64, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	productRepo   repositories.ProductRepository
	userRepo      repositories.UserRepository
	supplierRepo  repositories.SupplierRepository
	cacheSvc      caching.CacheService
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository, supplierRepo repositories.SupplierRepository, cacheSvc caching.CacheService) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		supplierRepo:  supplierRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *inventoryService) validate(ctx context.Context, item *models.InventoryItem) error {
	switch item.Kind {
	case models.InventoryKindRegular:
		if item.Quantity < 0 {
			return fmt.Errorf("quantity cannot be negative")
		}
	case models.InventoryKindFreshProduce:
		if item.EstimatedQuantity < 0 {
			return fmt.Errorf("estimated quantity cannot be negative")
		}
		if item.ValidityDays != nil && *item.ValidityDays <= 0 {
			return fmt.Errorf("validity days must be positive")
		}
	default:
		return fmt.Errorf("inventory kind must be regular or fresh_produce")
	}
	if item.UnitPrice < 0 {
		return fmt.Errorf("unit price cannot be negative")
	}
	if (item.SellerID == nil) == (item.SupplierID == nil) {
		return fmt.Errorf("inventory must belong to exactly one seller or supplier")
	}

	if _, err := s.productRepo.GetByID(ctx, item.ProductID); err != nil {
		return fmt.Errorf("product %w", ErrNotFound)
	}
	if item.SellerID != nil {
		if _, err := s.userRepo.GetByID(ctx, *item.SellerID); err != nil {
			return fmt.Errorf("seller %w", ErrNotFound)
		}
	}
	if item.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *item.SupplierID); err != nil {
			return fmt.Errorf("supplier %w", ErrNotFound)
		}
	}
	return nil
}

func (s *inventoryService) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := s.validate(ctx, item); err != nil {
		return nil, err
	}
	item.ID = uuid.New()
	if item.Origin == "" {
		item.Origin = models.InventoryOriginManual
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %v", err)
	}
	s.invalidateCatalog(ctx)
	return item, nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}
	return item, nil
}

func (s *inventoryService) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	existing, err := s.inventoryRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}
	// Ownership and kind are fixed after creation
	item.Kind = existing.Kind
	item.SellerID = existing.SellerID
	item.SupplierID = existing.SupplierID
	item.ProductID = existing.ProductID
	item.ReservedQuantity = existing.ReservedQuantity

	if err := s.validate(ctx, item); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %v", err)
	}
	s.invalidateCatalog(ctx)
	return item, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("inventory item %w", ErrNotFound)
	}
	if item.ReservedQuantity > 0 {
		return fmt.Errorf("%w: inventory item has active reservations", ErrConflict)
	}
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %v", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *inventoryService) List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	return s.inventoryRepo.List(ctx, limit, offset)
}

func (s *inventoryService) ReleaseExpiredReservations(ctx context.Context) (int64, error) {
	released, err := s.inventoryRepo.ReleaseExpiredReservations(ctx)
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.invalidateCatalog(ctx)
	}
	return released, nil
}

func (s *inventoryService) invalidateCatalog(ctx context.Context) {
	if err := s.cacheSvc.InvalidateCatalog(ctx); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}
}
