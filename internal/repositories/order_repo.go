package repositories

import (
	"context"
	"fmt"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type OrderRepository interface {
	CreateGroup(ctx context.Context, group *models.OrderGroup, orders []*models.Order, items map[uuid.UUID][]*models.OrderItem) error
	GetGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error)
	ListGroupsForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error)
	ListGroupsForAmbassador(ctx context.Context, ambassadorID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error)
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*models.OrderRow, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.OrderRow, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

// CreateGroup persists a checkout as one group with its per-source orders and
// their items in a single transaction.
func (r *orderRepo) CreateGroup(ctx context.Context, group *models.OrderGroup, orders []*models.Order, items map[uuid.UUID][]*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	groupInsert := `
		INSERT INTO order_groups (id, group_number, buyer_id, total_amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := tx.Exec(ctx, groupInsert, group.ID, group.GroupNumber, group.BuyerID, group.TotalAmount, group.Currency); err != nil {
		return err
	}

	orderInsert := `
		INSERT INTO orders (id, order_group_id, order_number, buyer_id, source_type, seller_id, supplier_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	itemInsert := `
		INSERT INTO order_items (id, order_id, inventory_id, kind, product_id, sku, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, order := range orders {
		if _, err := tx.Exec(ctx, orderInsert, order.ID, order.OrderGroupID, order.OrderNumber, order.BuyerID,
			order.SourceType, order.SellerID, order.SupplierID, order.Status, order.TotalAmount); err != nil {
			return err
		}
		for _, item := range items[order.ID] {
			if _, err := tx.Exec(ctx, itemInsert, item.ID, item.OrderID, item.InventoryID, item.Kind,
				item.ProductID, item.SKU, item.Name, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	group := &models.OrderGroup{}
	query := `
		SELECT id, group_number, buyer_id, total_amount, currency, created_at
		FROM order_groups
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&group.ID, &group.GroupNumber, &group.BuyerID,
		&group.TotalAmount, &group.Currency, &group.CreatedAt)
	if err != nil {
		return nil, err
	}
	return group, nil
}

const groupColumns = `id, group_number, buyer_id, total_amount, currency, created_at`

func (r *orderRepo) listGroups(ctx context.Context, where string, args ...interface{}) ([]*models.OrderGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM order_groups ` + where
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.OrderGroup
	for rows.Next() {
		group := &models.OrderGroup{}
		if err := rows.Scan(&group.ID, &group.GroupNumber, &group.BuyerID,
			&group.TotalAmount, &group.Currency, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *orderRepo) ListGroupsForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	return r.listGroups(ctx, `WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, buyerID, limit, offset)
}

// ListGroupsForAmbassador returns the checkouts of every buyer that belongs
// to one of the ambassador's buyer groups.
func (r *orderRepo) ListGroupsForAmbassador(ctx context.Context, ambassadorID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	where := `
		WHERE buyer_id IN (
			SELECT m.buyer_id
			FROM buyer_group_members m
			JOIN buyer_groups g ON g.id = m.group_id
			WHERE g.ambassador_id = $1
		)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`
	return r.listGroups(ctx, where, ambassadorID, limit, offset)
}

const orderColumns = `id, order_group_id, order_number, buyer_id, source_type, seller_id, supplier_id, status, total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.OrderGroupID, &order.OrderNumber, &order.BuyerID, &order.SourceType,
		&order.SellerID, &order.SupplierID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, inventory_id, kind, product_id, sku, name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.InventoryID, &item.Kind, &item.ProductID,
			&item.SKU, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

const orderRowQuery = `
	SELECT o.id, o.order_group_id, o.order_number, o.buyer_id, o.source_type, o.seller_id, o.supplier_id,
	       o.status, o.total_amount, o.created_at, o.updated_at,
	       CASE WHEN o.source_type = 'seller' THEN 'Seller: ' || COALESCE(u.name, '')
	            ELSE 'Supplier: ' || COALESCE(s.supplier_name, '') END
	FROM orders o
	LEFT JOIN users u ON u.id = o.seller_id
	LEFT JOIN suppliers s ON s.id = o.supplier_id
`

func (r *orderRepo) listRows(ctx context.Context, where string, args ...interface{}) ([]*models.OrderRow, error) {
	rows, err := r.db.Query(ctx, orderRowQuery+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.OrderRow
	for rows.Next() {
		row := &models.OrderRow{}
		if err := rows.Scan(&row.ID, &row.OrderGroupID, &row.OrderNumber, &row.BuyerID, &row.SourceType,
			&row.SellerID, &row.SupplierID, &row.Status, &row.TotalAmount, &row.CreatedAt, &row.UpdatedAt,
			&row.SourceLabel); err != nil {
			return nil, err
		}
		orders = append(orders, row)
	}
	return orders, nil
}

func (r *orderRepo) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return r.listRows(ctx, ` WHERE o.buyer_id = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, buyerID, limit, offset)
}

func (r *orderRepo) ListForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return r.listRows(ctx, ` WHERE o.seller_id = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, sellerID, limit, offset)
}

func (r *orderRepo) ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return r.listRows(ctx, ` WHERE o.supplier_id = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, supplierID, limit, offset)
}

func (r *orderRepo) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*models.OrderRow, error) {
	return r.listRows(ctx, ` WHERE o.order_group_id = $1 ORDER BY o.order_number`, groupID)
}

func (r *orderRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.OrderRow, error) {
	if status != "" {
		return r.listRows(ctx, ` WHERE o.status = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	}
	return r.listRows(ctx, ` ORDER BY o.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found")
	}
	return nil
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}
