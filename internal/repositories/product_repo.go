package repositories

import (
	"context"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, limit, offset int) ([]*models.ProductRow, error)
	CreateType(ctx context.Context, pt *models.ProductType) error
	ListTypes(ctx context.Context) ([]*models.ProductType, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, product_type_id, unit_of_measure, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description,
		product.ProductTypeID, product.UnitOfMeasure, product.IsActive)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, description, product_type_id, unit_of_measure, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description,
		&product.ProductTypeID, &product.UnitOfMeasure, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, product_type_id = $3, unit_of_measure = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.ProductTypeID,
		product.UnitOfMeasure, product.IsActive, product.ID)
	return err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.ProductRow, error) {
	query := `
		SELECT p.id, p.name, p.description, p.product_type_id, p.unit_of_measure, p.is_active, p.created_at, p.updated_at, pt.name
		FROM products p
		LEFT JOIN product_types pt ON pt.id = p.product_type_id
		ORDER BY p.name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.ProductRow
	for rows.Next() {
		row := &models.ProductRow{}
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.ProductTypeID,
			&row.UnitOfMeasure, &row.IsActive, &row.CreatedAt, &row.UpdatedAt, &row.ProductTypeName); err != nil {
			return nil, err
		}
		products = append(products, row)
	}
	return products, nil
}

func (r *productRepo) CreateType(ctx context.Context, pt *models.ProductType) error {
	query := `INSERT INTO product_types (id, name, description) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, pt.ID, pt.Name, pt.Description)
	return err
}

func (r *productRepo) ListTypes(ctx context.Context) ([]*models.ProductType, error) {
	query := `SELECT id, name, description FROM product_types ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.ProductType
	for rows.Next() {
		pt := &models.ProductType{}
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Description); err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	return types, nil
}
