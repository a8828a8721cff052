package repositories

import (
	"context"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	CreateProductLink(ctx context.Context, link *models.SupplierProduct) error
	GetProductLink(ctx context.Context, supplierID, productID uuid.UUID) (*models.SupplierProduct, error)
	ListProductLinks(ctx context.Context, supplierID uuid.UUID) ([]*models.SupplierProductRow, error)
	DeleteProductLink(ctx context.Context, id uuid.UUID) error
}

type supplierRepo struct {
	db DB
}

func NewSupplierRepo(db DB) SupplierRepository {
	return &supplierRepo{db: db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, supplier_name, contact_email, contact_phone, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, supplier.ID, supplier.SupplierName, supplier.ContactEmail,
		supplier.ContactPhone, supplier.IsActive)
	return err
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `
		SELECT id, supplier_name, contact_email, contact_phone, is_active, created_at
		FROM suppliers
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&supplier.ID, &supplier.SupplierName,
		&supplier.ContactEmail, &supplier.ContactPhone, &supplier.IsActive, &supplier.CreatedAt)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET supplier_name = $1, contact_email = $2, contact_phone = $3, is_active = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, supplier.SupplierName, supplier.ContactEmail,
		supplier.ContactPhone, supplier.IsActive, supplier.ID)
	return err
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	query := `
		SELECT id, supplier_name, contact_email, contact_phone, is_active, created_at
		FROM suppliers
		ORDER BY supplier_name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier := &models.Supplier{}
		if err := rows.Scan(&supplier.ID, &supplier.SupplierName, &supplier.ContactEmail,
			&supplier.ContactPhone, &supplier.IsActive, &supplier.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

func (r *supplierRepo) CreateProductLink(ctx context.Context, link *models.SupplierProduct) error {
	query := `
		INSERT INTO supplier_products (id, supplier_id, product_id, supplier_type, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, link.ID, link.SupplierID, link.ProductID, link.SupplierType, link.UnitPrice)
	return err
}

func (r *supplierRepo) GetProductLink(ctx context.Context, supplierID, productID uuid.UUID) (*models.SupplierProduct, error) {
	link := &models.SupplierProduct{}
	query := `
		SELECT id, supplier_id, product_id, supplier_type, unit_price, created_at
		FROM supplier_products
		WHERE supplier_id = $1 AND product_id = $2
	`
	err := r.db.QueryRow(ctx, query, supplierID, productID).Scan(&link.ID, &link.SupplierID,
		&link.ProductID, &link.SupplierType, &link.UnitPrice, &link.CreatedAt)
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *supplierRepo) ListProductLinks(ctx context.Context, supplierID uuid.UUID) ([]*models.SupplierProductRow, error) {
	query := `
		SELECT sp.id, sp.supplier_id, sp.product_id, sp.supplier_type, sp.unit_price, sp.created_at, s.supplier_name, p.name
		FROM supplier_products sp
		JOIN suppliers s ON s.id = sp.supplier_id
		JOIN products p ON p.id = sp.product_id
		WHERE sp.supplier_id = $1
		ORDER BY p.name
	`
	rows, err := r.db.Query(ctx, query, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.SupplierProductRow
	for rows.Next() {
		row := &models.SupplierProductRow{}
		if err := rows.Scan(&row.ID, &row.SupplierID, &row.ProductID, &row.SupplierType,
			&row.UnitPrice, &row.CreatedAt, &row.SupplierName, &row.ProductName); err != nil {
			return nil, err
		}
		links = append(links, row)
	}
	return links, nil
}

func (r *supplierRepo) DeleteProductLink(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM supplier_products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
