package services

import (
	"context"
	"fmt"
	"strings"

	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

// Supplier types carried on product links and into procurement inventory.
const (
	SupplierTypeFarm       = "farm"
	SupplierTypeAggregator = "aggregator"
)

type SupplierService interface {
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	LinkProduct(ctx context.Context, supplierID, productID uuid.UUID, supplierType string, unitPrice *float64) (*models.SupplierProduct, error)
	ListProductLinks(ctx context.Context, supplierID uuid.UUID) ([]*models.SupplierProductRow, error)
	UnlinkProduct(ctx context.Context, linkID uuid.UUID) error
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
	productRepo  repositories.ProductRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository, productRepo repositories.ProductRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

func (s *supplierService) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	supplier.SupplierName = strings.TrimSpace(supplier.SupplierName)
	if supplier.SupplierName == "" {
		return nil, fmt.Errorf("supplier name is required")
	}
	supplier.ID = uuid.New()
	supplier.IsActive = true
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %v", err)
	}
	return supplier, nil
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier %w", ErrNotFound)
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if _, err := s.supplierRepo.GetByID(ctx, supplier.ID); err != nil {
		return nil, fmt.Errorf("supplier %w", ErrNotFound)
	}
	supplier.SupplierName = strings.TrimSpace(supplier.SupplierName)
	if supplier.SupplierName == "" {
		return nil, fmt.Errorf("supplier name is required")
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %v", err)
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx, limit, offset)
}

func (s *supplierService) LinkProduct(ctx context.Context, supplierID, productID uuid.UUID, supplierType string, unitPrice *float64) (*models.SupplierProduct, error) {
	if supplierType != SupplierTypeFarm && supplierType != SupplierTypeAggregator {
		return nil, fmt.Errorf("supplier type must be farm or aggregator")
	}
	if _, err := s.supplierRepo.GetByID(ctx, supplierID); err != nil {
		return nil, fmt.Errorf("supplier %w", ErrNotFound)
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	if existing, _ := s.supplierRepo.GetProductLink(ctx, supplierID, productID); existing != nil {
		return nil, fmt.Errorf("%w: supplier is already linked to this product", ErrConflict)
	}

	link := &models.SupplierProduct{
		ID:           uuid.New(),
		SupplierID:   supplierID,
		ProductID:    productID,
		SupplierType: supplierType,
		UnitPrice:    unitPrice,
	}
	if err := s.supplierRepo.CreateProductLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to link product: %v", err)
	}
	return link, nil
}

func (s *supplierService) ListProductLinks(ctx context.Context, supplierID uuid.UUID) ([]*models.SupplierProductRow, error) {
	return s.supplierRepo.ListProductLinks(ctx, supplierID)
}

func (s *supplierService) UnlinkProduct(ctx context.Context, linkID uuid.UUID) error {
	return s.supplierRepo.DeleteProductLink(ctx, linkID)
}
