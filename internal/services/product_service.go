package services

import (
	"context"
	"fmt"
	"strings"

	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.ProductRow, error)
	CreateType(ctx context.Context, name string, description *string) (*models.ProductType, error)
	ListTypes(ctx context.Context) ([]*models.ProductType, error)
}

type productService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) validate(product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if len(product.Name) > 200 {
		return fmt.Errorf("product name cannot exceed 200 characters")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.validate(product); err != nil {
		return nil, err
	}
	product.ID = uuid.New()
	product.IsActive = true
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %v", err)
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if _, err := s.productRepo.GetByID(ctx, product.ID); err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	if err := s.validate(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %v", err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.ProductRow, error) {
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) CreateType(ctx context.Context, name string, description *string) (*models.ProductType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("product type name is required")
	}
	pt := &models.ProductType{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := s.productRepo.CreateType(ctx, pt); err != nil {
		return nil, fmt.Errorf("failed to create product type: %v", err)
	}
	return pt, nil
}

func (s *productService) ListTypes(ctx context.Context) ([]*models.ProductType, error) {
	return s.productRepo.ListTypes(ctx)
}
