package repositories

import (
	"context"
	"fmt"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	ListCatalogRows(ctx context.Context, filter *models.CatalogFilter) ([]*models.CatalogSourceRow, error)
	GetCatalogRow(ctx context.Context, id uuid.UUID) (*models.CatalogSourceRow, error)
	AdjustReservation(ctx context.Context, id uuid.UUID, delta int) error
	ApplyDelivery(ctx context.Context, id uuid.UUID, quantity int) error
	ReleaseExpiredReservations(ctx context.Context) (int64, error)
}

type inventoryRepo struct {
	db DB
}

func NewInventoryRepo(db DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventoryColumns = `id, kind, product_id, seller_id, supplier_id, quantity, estimated_quantity, reserved_quantity, unit_price, validity_days, origin, supplier_type, created_at, updated_at`

func scanInventory(row interface{ Scan(dest ...any) error }) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.Kind, &item.ProductID, &item.SellerID, &item.SupplierID,
		&item.Quantity, &item.EstimatedQuantity, &item.ReservedQuantity, &item.UnitPrice,
		&item.ValidityDays, &item.Origin, &item.SupplierType, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Kind, item.ProductID, item.SellerID, item.SupplierID,
		item.Quantity, item.EstimatedQuantity, item.ReservedQuantity, item.UnitPrice,
		item.ValidityDays, item.Origin, item.SupplierType)
	return err
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	return scanInventory(r.db.QueryRow(ctx, query, id))
}

func (r *inventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory
		SET quantity = $1, estimated_quantity = $2, reserved_quantity = $3, unit_price = $4, validity_days = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, item.Quantity, item.EstimatedQuantity, item.ReservedQuantity,
		item.UnitPrice, item.ValidityDays, item.ID)
	return err
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inventory WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *inventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

const catalogRowQuery = `
	SELECT i.id, i.kind, i.product_id, i.seller_id, i.supplier_id, i.quantity, i.estimated_quantity,
	       i.reserved_quantity, i.unit_price, i.validity_days, i.origin, i.supplier_type, i.created_at, i.updated_at,
	       p.name, pt.name,
	       u.name, u.validation_status,
	       EXISTS (
	           SELECT 1 FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id
	           WHERE ur.user_id = u.id AND ro.name = 'seller'
	       ),
	       s.supplier_name, s.is_active
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	LEFT JOIN product_types pt ON pt.id = p.product_type_id
	LEFT JOIN users u ON u.id = i.seller_id
	LEFT JOIN suppliers s ON s.id = i.supplier_id
`

func scanCatalogRow(scanner interface{ Scan(dest ...any) error }) (*models.CatalogSourceRow, error) {
	row := &models.CatalogSourceRow{}
	i := &row.Inventory
	var sellerHasRole *bool
	if err := scanner.Scan(&i.ID, &i.Kind, &i.ProductID, &i.SellerID, &i.SupplierID,
		&i.Quantity, &i.EstimatedQuantity, &i.ReservedQuantity, &i.UnitPrice,
		&i.ValidityDays, &i.Origin, &i.SupplierType, &i.CreatedAt, &i.UpdatedAt,
		&row.ProductName, &row.ProductTypeName,
		&row.SellerName, &row.SellerStatus, &sellerHasRole,
		&row.SupplierName, &row.SupplierIsActive); err != nil {
		return nil, err
	}
	if sellerHasRole != nil {
		row.SellerHasRole = *sellerHasRole
	}
	return row, nil
}

// ListCatalogRows returns inventory rows joined with product and source party
// details. Filters match case-insensitively on substrings.
func (r *inventoryRepo) ListCatalogRows(ctx context.Context, filter *models.CatalogFilter) ([]*models.CatalogSourceRow, error) {
	queryBase := catalogRowQuery + ` WHERE 1=1`
	args := []interface{}{}
	conditionCount := 0

	if filter.ProductName != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND p.name ILIKE $%d`, conditionCount)
		args = append(args, "%"+filter.ProductName+"%")
	}
	if filter.ProductType != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND pt.name ILIKE $%d`, conditionCount)
		args = append(args, "%"+filter.ProductType+"%")
	}
	if filter.SellerName != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (u.name ILIKE $%d OR u.email ILIKE $%d)`, conditionCount, conditionCount)
		args = append(args, "%"+filter.SellerName+"%")
	}
	if filter.SupplierName != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND s.supplier_name ILIKE $%d`, conditionCount)
		args = append(args, "%"+filter.SupplierName+"%")
	}

	queryBase += ` ORDER BY p.name`

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.CatalogSourceRow
	for rows.Next() {
		row, err := scanCatalogRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

func (r *inventoryRepo) GetCatalogRow(ctx context.Context, id uuid.UUID) (*models.CatalogSourceRow, error) {
	query := catalogRowQuery + ` WHERE i.id = $1`
	return scanCatalogRow(r.db.QueryRow(ctx, query, id))
}

// AdjustReservation atomically moves reserved_quantity by delta, never below
// zero. A positive delta fails when it would exceed availability.
func (r *inventoryRepo) AdjustReservation(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE inventory
		SET reserved_quantity = GREATEST(reserved_quantity + $1, 0)
		WHERE id = $2
		  AND ($1 <= 0 OR reserved_quantity + $1 <= CASE WHEN kind = 'fresh_produce' THEN estimated_quantity ELSE quantity END)
	`
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insufficient available quantity")
	}
	return nil
}

// ApplyDelivery releases the reservation and decrements stored stock when an
// order reaches delivered.
func (r *inventoryRepo) ApplyDelivery(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory
		SET reserved_quantity = GREATEST(reserved_quantity - $1, 0),
		    quantity = CASE WHEN kind = 'regular' THEN GREATEST(quantity - $1, 0) ELSE quantity END,
		    estimated_quantity = CASE WHEN kind = 'fresh_produce' THEN GREATEST(estimated_quantity - $1, 0) ELSE estimated_quantity END
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, quantity, id)
	return err
}

// ReleaseExpiredReservations zeroes reservations held against fresh produce
// rows that have passed their validity window.
func (r *inventoryRepo) ReleaseExpiredReservations(ctx context.Context) (int64, error) {
	query := `
		UPDATE inventory
		SET reserved_quantity = 0
		WHERE kind = 'fresh_produce'
		  AND reserved_quantity > 0
		  AND validity_days IS NOT NULL
		  AND updated_at + make_interval(days => validity_days) <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
