package repositories

import (
	"context"
	"errors"
	"fmt"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

// ErrAlreadyPushed reports a push against an order whose stock already
// landed in inventory.
var ErrAlreadyPushed = errors.New("procurement order already pushed to inventory")

type ProcurementRepository interface {
	Create(ctx context.Context, order *models.ProcurementOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error)
	Update(ctx context.Context, order *models.ProcurementOrder) error
	List(ctx context.Context, filter *models.ProcurementFilter) ([]*models.ProcurementOrderRow, int, error)
	ListOptions(ctx context.Context, includeDraft bool) ([]*models.ProcurementOrderRow, error)
	PushToInventory(ctx context.Context, order *models.ProcurementOrder, supplierType string) error
	GetReview(ctx context.Context, procurementOrderID uuid.UUID) (*models.ProcurementReview, error)
	CreateReview(ctx context.Context, review *models.ProcurementReview) error
	UpdateReview(ctx context.Context, review *models.ProcurementReview) error
	AddReviewImage(ctx context.Context, image *models.ProcurementReviewImage) error
	ListReviewImages(ctx context.Context, reviewID uuid.UUID) ([]*models.ProcurementReviewImage, error)
}

type procurementRepo struct {
	db DB
}

func NewProcurementRepo(db DB) ProcurementRepository {
	return &procurementRepo{db: db}
}

func (r *procurementRepo) Create(ctx context.Context, order *models.ProcurementOrder) error {
	query := `
		INSERT INTO procurement_orders (id, supplier_id, product_id, quantity, unit_price, status, pushed_to_inventory, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.SupplierID, order.ProductID, order.Quantity,
		order.UnitPrice, order.Status, order.PushedToInventory, order.CreatedBy)
	return err
}

func (r *procurementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error) {
	order := &models.ProcurementOrder{}
	query := `
		SELECT id, supplier_id, product_id, quantity, unit_price, status, pushed_to_inventory, created_by, created_at, updated_at
		FROM procurement_orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.SupplierID, &order.ProductID,
		&order.Quantity, &order.UnitPrice, &order.Status, &order.PushedToInventory,
		&order.CreatedBy, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *procurementRepo) Update(ctx context.Context, order *models.ProcurementOrder) error {
	query := `
		UPDATE procurement_orders
		SET quantity = $1, unit_price = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, order.Quantity, order.UnitPrice, order.Status, order.ID)
	return err
}

const procurementRowQuery = `
	SELECT po.id, po.supplier_id, po.product_id, po.quantity, po.unit_price, po.status,
	       po.pushed_to_inventory, po.created_by, po.created_at, po.updated_at,
	       s.supplier_name, p.name
	FROM procurement_orders po
	JOIN suppliers s ON s.id = po.supplier_id
	JOIN products p ON p.id = po.product_id
`

func scanProcurementRows(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.ProcurementOrderRow, error) {
	var results []*models.ProcurementOrderRow
	for rows.Next() {
		row := &models.ProcurementOrderRow{}
		if err := rows.Scan(&row.ID, &row.SupplierID, &row.ProductID, &row.Quantity, &row.UnitPrice,
			&row.Status, &row.PushedToInventory, &row.CreatedBy, &row.CreatedAt, &row.UpdatedAt,
			&row.SupplierName, &row.ProductName); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

// List returns a filtered page of procurement orders plus the total count for
// the filter.
func (r *procurementRepo) List(ctx context.Context, filter *models.ProcurementFilter) ([]*models.ProcurementOrderRow, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	conditionCount := 0

	if filter.SupplierID != nil {
		conditionCount++
		where += fmt.Sprintf(` AND po.supplier_id = $%d`, conditionCount)
		args = append(args, *filter.SupplierID)
	}
	if filter.ProductID != nil {
		conditionCount++
		where += fmt.Sprintf(` AND po.product_id = $%d`, conditionCount)
		args = append(args, *filter.ProductID)
	}
	if filter.Status != "" {
		conditionCount++
		where += fmt.Sprintf(` AND po.status = $%d`, conditionCount)
		args = append(args, filter.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM procurement_orders po` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := procurementRowQuery + where + fmt.Sprintf(` ORDER BY po.created_at DESC LIMIT $%d OFFSET $%d`,
		conditionCount+1, conditionCount+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanProcurementRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// ListOptions returns the compact set used to pick an order for review,
// drafts excluded unless asked for.
func (r *procurementRepo) ListOptions(ctx context.Context, includeDraft bool) ([]*models.ProcurementOrderRow, error) {
	query := procurementRowQuery
	if !includeDraft {
		query += ` WHERE po.status <> 'draft'`
	}
	query += ` ORDER BY po.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProcurementRows(rows)
}

// PushToInventory marks the order pushed and lands its stock as a
// procurement-origin inventory row in one transaction. The guarded flag
// update locks the order row, so a concurrent push matches zero rows and
// the stock is credited exactly once.
func (r *procurementRepo) PushToInventory(ctx context.Context, order *models.ProcurementOrder, supplierType string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	markQuery := `
		UPDATE procurement_orders
		SET pushed_to_inventory = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT pushed_to_inventory
	`
	tag, err := tx.Exec(ctx, markQuery, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyPushed
	}

	upsertQuery := `
		INSERT INTO inventory (id, kind, product_id, supplier_id, quantity, estimated_quantity, reserved_quantity, unit_price, origin, supplier_type, created_at, updated_at)
		VALUES ($1, 'regular', $2, $3, $4, 0, 0, $5, 'procurement', $6, NOW(), NOW())
		ON CONFLICT (supplier_id, product_id) WHERE origin = 'procurement'
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, upsertQuery, uuid.New(), order.ProductID, order.SupplierID,
		order.Quantity, order.UnitPrice, supplierType); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *procurementRepo) GetReview(ctx context.Context, procurementOrderID uuid.UUID) (*models.ProcurementReview, error) {
	review := &models.ProcurementReview{}
	query := `
		SELECT id, procurement_order_id, rating, review_text, reviewer_id, created_at, updated_at
		FROM procurement_reviews
		WHERE procurement_order_id = $1
	`
	err := r.db.QueryRow(ctx, query, procurementOrderID).Scan(&review.ID, &review.ProcurementOrderID,
		&review.Rating, &review.ReviewText, &review.ReviewerID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *procurementRepo) CreateReview(ctx context.Context, review *models.ProcurementReview) error {
	query := `
		INSERT INTO procurement_reviews (id, procurement_order_id, rating, review_text, reviewer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.ProcurementOrderID, review.Rating,
		review.ReviewText, review.ReviewerID)
	return err
}

func (r *procurementRepo) UpdateReview(ctx context.Context, review *models.ProcurementReview) error {
	query := `
		UPDATE procurement_reviews
		SET rating = $1, review_text = $2, reviewer_id = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, review.Rating, review.ReviewText, review.ReviewerID, review.ID)
	return err
}

func (r *procurementRepo) AddReviewImage(ctx context.Context, image *models.ProcurementReviewImage) error {
	query := `
		INSERT INTO procurement_review_images (id, review_id, object_name, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, image.ID, image.ReviewID, image.ObjectName)
	return err
}

func (r *procurementRepo) ListReviewImages(ctx context.Context, reviewID uuid.UUID) ([]*models.ProcurementReviewImage, error) {
	query := `
		SELECT id, review_id, object_name, created_at
		FROM procurement_review_images
		WHERE review_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.ProcurementReviewImage
	for rows.Next() {
		image := &models.ProcurementReviewImage{}
		if err := rows.Scan(&image.ID, &image.ReviewID, &image.ObjectName, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}
