package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

const (
	reviewImageBucket    = "procurement-reviews"
	reviewImageURLExpiry = 24 * time.Hour
)

var allowedReviewImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type ProcurementPage struct {
	Items      []*models.ProcurementOrderRow `json:"items"`
	Page       int                           `json:"page"`
	PageSize   int                           `json:"page_size"`
	Total      int                           `json:"total"`
	TotalPages int                           `json:"total_pages"`
}

type ReviewImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type ReviewResult struct {
	Review  *models.ProcurementReview   `json:"review"`
	History []models.ReviewHistoryEntry `json:"history"`
	Images  []string                    `json:"images"`
	Created bool                        `json:"-"`
}

type ProcurementService interface {
	Create(ctx context.Context, supplierID, productID uuid.UUID, quantity int, unitPrice float64, createdBy uuid.UUID) (*models.ProcurementOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error)
	Update(ctx context.Context, id uuid.UUID, quantity int, unitPrice float64) (*models.ProcurementOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.ProcurementOrder, error)
	PushToInventory(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error)
	List(ctx context.Context, filter *models.ProcurementFilter) (*ProcurementPage, error)
	ListOptions(ctx context.Context, includeDraft bool) ([]*models.ProcurementOrderRow, error)
	SubmitReview(ctx context.Context, procurementOrderID, reviewerID uuid.UUID, rating int, text string, images []ReviewImageUpload) (*ReviewResult, error)
	GetReview(ctx context.Context, procurementOrderID uuid.UUID) (*ReviewResult, error)
}

type procurementService struct {
	procurementRepo repositories.ProcurementRepository
	supplierRepo    repositories.SupplierRepository
	minioSvc        MinioService
	cacheSvc        caching.CacheService
}

func NewProcurementService(procurementRepo repositories.ProcurementRepository, supplierRepo repositories.SupplierRepository,
	minioSvc MinioService, cacheSvc caching.CacheService) ProcurementService {
	return &procurementService{
		procurementRepo: procurementRepo,
		supplierRepo:    supplierRepo,
		minioSvc:        minioSvc,
		cacheSvc:        cacheSvc,
	}
}

// Create opens a draft procurement order. The supplier must already be
// linked to the product.
func (s *procurementService) Create(ctx context.Context, supplierID, productID uuid.UUID, quantity int, unitPrice float64, createdBy uuid.UUID) (*models.ProcurementOrder, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("unit price cannot be negative")
	}
	if _, err := s.supplierRepo.GetProductLink(ctx, supplierID, productID); err != nil {
		return nil, fmt.Errorf("supplier is not linked to this product")
	}

	order := &models.ProcurementOrder{
		ID:         uuid.New(),
		SupplierID: supplierID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Status:     models.ProcurementStatusDraft,
		CreatedBy:  createdBy,
	}
	if err := s.procurementRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create procurement order: %v", err)
	}
	return order, nil
}

func (s *procurementService) GetByID(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error) {
	order, err := s.procurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("procurement order %w", ErrNotFound)
	}
	return order, nil
}

func (s *procurementService) Update(ctx context.Context, id uuid.UUID, quantity int, unitPrice float64) (*models.ProcurementOrder, error) {
	order, err := s.procurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("procurement order %w", ErrNotFound)
	}
	if order.PushedToInventory {
		return nil, fmt.Errorf("%w: order was already pushed to inventory", ErrConflict)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("unit price cannot be negative")
	}

	order.Quantity = quantity
	order.UnitPrice = unitPrice
	if err := s.procurementRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update procurement order: %v", err)
	}
	return order, nil
}

func (s *procurementService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.ProcurementOrder, error) {
	if !models.ValidProcurementStatus(status) {
		return nil, fmt.Errorf("unknown procurement status %q", status)
	}

	order, err := s.procurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("procurement order %w", ErrNotFound)
	}
	if order.PushedToInventory {
		return nil, fmt.Errorf("%w: order was already pushed to inventory", ErrConflict)
	}

	order.Status = status
	if err := s.procurementRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update procurement status: %v", err)
	}
	return order, nil
}

// PushToInventory lands a received order's stock as a procurement-origin
// inventory row. Each order can be pushed once.
func (s *procurementService) PushToInventory(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error) {
	order, err := s.procurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("procurement order %w", ErrNotFound)
	}
	if order.PushedToInventory {
		return nil, fmt.Errorf("%w: order was already pushed to inventory", ErrConflict)
	}
	if order.Status != models.ProcurementStatusReceived {
		return nil, fmt.Errorf("only received orders can be pushed to inventory")
	}

	link, err := s.supplierRepo.GetProductLink(ctx, order.SupplierID, order.ProductID)
	if err != nil {
		return nil, fmt.Errorf("supplier is no longer linked to this product")
	}

	if err := s.procurementRepo.PushToInventory(ctx, order, link.SupplierType); err != nil {
		if errors.Is(err, repositories.ErrAlreadyPushed) {
			return nil, fmt.Errorf("%w: order was already pushed to inventory", ErrConflict)
		}
		return nil, fmt.Errorf("failed to push stock to inventory: %v", err)
	}
	if err := s.cacheSvc.InvalidateCatalog(ctx); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}

	order.PushedToInventory = true
	return order, nil
}

func (s *procurementService) List(ctx context.Context, filter *models.ProcurementFilter) (*ProcurementPage, error) {
	if filter.Status != "" && !models.ValidProcurementStatus(filter.Status) {
		return nil, fmt.Errorf("unknown procurement status %q", filter.Status)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := s.procurementRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list procurement orders: %v", err)
	}

	totalPages := total / filter.PageSize
	if total%filter.PageSize != 0 {
		totalPages++
	}
	return &ProcurementPage{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *procurementService) ListOptions(ctx context.Context, includeDraft bool) ([]*models.ProcurementOrderRow, error) {
	return s.procurementRepo.ListOptions(ctx, includeDraft)
}

// SubmitReview creates the order's review or, when one exists, updates the
// rating and appends the text as a dated entry. Images are stored alongside.
func (s *procurementService) SubmitReview(ctx context.Context, procurementOrderID, reviewerID uuid.UUID, rating int, text string, images []ReviewImageUpload) (*ReviewResult, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("rating must be between 1 and 10")
	}
	text = strings.TrimSpace(text)

	order, err := s.procurementRepo.GetByID(ctx, procurementOrderID)
	if err != nil {
		return nil, fmt.Errorf("procurement order %w", ErrNotFound)
	}
	if order.Status == models.ProcurementStatusDraft {
		return nil, fmt.Errorf("draft orders cannot be reviewed")
	}

	for _, img := range images {
		ext := strings.ToLower(filepath.Ext(img.Filename))
		if !allowedReviewImageExts[ext] {
			return nil, fmt.Errorf("image type %q is not allowed", ext)
		}
	}

	now := time.Now()
	review, err := s.procurementRepo.GetReview(ctx, procurementOrderID)
	created := false
	if err != nil {
		review = &models.ProcurementReview{
			ID:                 uuid.New(),
			ProcurementOrderID: procurementOrderID,
			Rating:             rating,
			ReviewText:         text,
			ReviewerID:         reviewerID,
		}
		if err := s.procurementRepo.CreateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("failed to create review: %v", err)
		}
		created = true
	} else {
		review.Rating = rating
		if text != "" {
			review.ReviewText = models.AppendReviewEntry(review.ReviewText, text, now)
		}
		review.ReviewerID = reviewerID
		if err := s.procurementRepo.UpdateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("failed to update review: %v", err)
		}
	}

	for _, img := range images {
		ext := strings.ToLower(filepath.Ext(img.Filename))
		objectName := fmt.Sprintf("%s/%s%s", review.ID, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
		if err := s.minioSvc.UploadImage(ctx, reviewImageBucket, objectName, img.Reader, img.Size); err != nil {
			return nil, fmt.Errorf("failed to store review image: %v", err)
		}
		record := &models.ProcurementReviewImage{
			ID:         uuid.New(),
			ReviewID:   review.ID,
			ObjectName: objectName,
		}
		if err := s.procurementRepo.AddReviewImage(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record review image: %v", err)
		}
	}

	result, err := s.buildReviewResult(ctx, review)
	if err != nil {
		return nil, err
	}
	result.Created = created
	return result, nil
}

func (s *procurementService) GetReview(ctx context.Context, procurementOrderID uuid.UUID) (*ReviewResult, error) {
	review, err := s.procurementRepo.GetReview(ctx, procurementOrderID)
	if err != nil {
		return nil, fmt.Errorf("review %w", ErrNotFound)
	}
	return s.buildReviewResult(ctx, review)
}

func (s *procurementService) buildReviewResult(ctx context.Context, review *models.ProcurementReview) (*ReviewResult, error) {
	images, err := s.procurementRepo.ListReviewImages(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review images: %v", err)
	}

	var urls []string
	for _, img := range images {
		url, err := s.minioSvc.GetPresignedURL(reviewImageBucket, img.ObjectName, reviewImageURLExpiry)
		if err != nil {
			log.Printf("Failed to presign review image %s: %v", img.ObjectName, err)
			continue
		}
		urls = append(urls, url)
	}

	return &ReviewResult{
		Review:  review,
		History: models.ParseReviewHistory(review.ReviewText),
		Images:  urls,
	}, nil
}
