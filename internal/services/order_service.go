package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type OrderService interface {
	Checkout(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderRow, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*models.OrderGroupDetail, error)
	ListGroupsForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error)
	ListGroupsForAmbassador(ctx context.Context, ambassadorID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.OrderRow, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.OrderRow, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	inventoryRepo repositories.InventoryRepository
	userRepo      repositories.UserRepository
	supplierRepo  repositories.SupplierRepository
	cacheSvc      caching.CacheService
}

func NewOrderService(orderRepo repositories.OrderRepository, inventoryRepo repositories.InventoryRepository,
	userRepo repositories.UserRepository, supplierRepo repositories.SupplierRepository, cacheSvc caching.CacheService) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		userRepo:      userRepo,
		supplierRepo:  supplierRepo,
		cacheSvc:      cacheSvc,
	}
}

// sourceKey groups checkout items by the party that fulfils them.
type sourceKey struct {
	sourceType string
	id         uuid.UUID
}

// Checkout validates every submitted item, reserves stock and fans the
// purchase out into one order per source under a single order group. The
// buyer's cart is cleared only when everything succeeds.
func (s *orderService) Checkout(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	// A buyer checking out a stored cart gets its line validation first,
	// so a stale or malformed cart fails before any stock is touched.
	if cart, err := s.cacheSvc.GetCart(ctx, buyerID); err == nil && len(cart.Lines) > 0 {
		if err := cart.ValidateForSubmit(); err != nil {
			return nil, err
		}
	}

	for i := range req.Items {
		if err := s.validateCheckoutItem(ctx, &req.Items[i]); err != nil {
			return nil, err
		}
	}

	// Reserve stock item by item, rolling back on failure
	var reserved []models.CheckoutItem
	for _, item := range req.Items {
		if err := s.inventoryRepo.AdjustReservation(ctx, item.InventoryID, item.Quantity); err != nil {
			for _, done := range reserved {
				if releaseErr := s.inventoryRepo.AdjustReservation(ctx, done.InventoryID, -done.Quantity); releaseErr != nil {
					log.Printf("Failed to release reservation on %s: %v", done.InventoryID, releaseErr)
				}
			}
			return nil, fmt.Errorf("could not reserve %q: %v", item.Name, err)
		}
		reserved = append(reserved, item)
	}

	now := time.Now().UTC()
	stamp := now.Format("20060102150405") + fmt.Sprintf("%06d", now.Nanosecond()/1000)

	group := &models.OrderGroup{
		ID:          uuid.New(),
		GroupNumber: "GRP-" + stamp,
		BuyerID:     buyerID,
		Currency:    currency,
	}

	grouped := make(map[sourceKey][]models.CheckoutItem)
	var keyOrder []sourceKey
	for _, item := range req.Items {
		key := sourceKey{sourceType: models.SourceTypeSeller}
		if item.SupplierID != nil {
			key = sourceKey{sourceType: models.SourceTypeSupplier, id: *item.SupplierID}
		} else {
			key.id = *item.SellerID
		}
		if _, seen := grouped[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		grouped[key] = append(grouped[key], item)
	}

	var orders []*models.Order
	var orderRows []models.OrderRow
	items := make(map[uuid.UUID][]*models.OrderItem)
	for idx, key := range keyOrder {
		order := &models.Order{
			ID:           uuid.New(),
			OrderGroupID: group.ID,
			OrderNumber:  fmt.Sprintf("ORD-%s-%d", stamp, idx+1),
			BuyerID:      buyerID,
			SourceType:   key.sourceType,
			Status:       models.OrderStatusCreated,
		}
		if key.sourceType == models.SourceTypeSeller {
			id := key.id
			order.SellerID = &id
		} else {
			id := key.id
			order.SupplierID = &id
		}

		var rowItems []models.OrderItem
		for _, ci := range grouped[key] {
			orderItem := &models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				InventoryID: ci.InventoryID,
				Kind:        ci.Kind,
				ProductID:   ci.ProductID,
				SKU:         ci.SKU,
				Name:        ci.Name,
				Quantity:    ci.Quantity,
				UnitPrice:   ci.UnitPrice,
			}
			order.TotalAmount += float64(ci.Quantity) * ci.UnitPrice
			items[order.ID] = append(items[order.ID], orderItem)
			rowItems = append(rowItems, *orderItem)
		}
		group.TotalAmount += order.TotalAmount
		orders = append(orders, order)
		orderRows = append(orderRows, models.OrderRow{Order: *order, Items: rowItems})
	}

	if err := s.orderRepo.CreateGroup(ctx, group, orders, items); err != nil {
		for _, done := range reserved {
			if releaseErr := s.inventoryRepo.AdjustReservation(ctx, done.InventoryID, -done.Quantity); releaseErr != nil {
				log.Printf("Failed to release reservation on %s: %v", done.InventoryID, releaseErr)
			}
		}
		return nil, fmt.Errorf("failed to create orders: %v", err)
	}

	if err := s.cacheSvc.DeleteCart(ctx, buyerID); err != nil {
		log.Printf("Failed to clear cart for buyer %s: %v", buyerID, err)
	}
	if err := s.cacheSvc.InvalidateCatalog(ctx); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}

	return &models.CheckoutResult{
		OrderGroupID: group.ID,
		GroupNumber:  group.GroupNumber,
		TotalAmount:  group.TotalAmount,
		Currency:     group.Currency,
		Orders:       orderRows,
	}, nil
}

func (s *orderService) validateCheckoutItem(ctx context.Context, item *models.CheckoutItem) error {
	item.SKU = strings.TrimSpace(item.SKU)
	item.Name = strings.TrimSpace(item.Name)
	if item.SKU == "" || item.Name == "" {
		return fmt.Errorf("every item needs a sku and a name")
	}
	if item.ProductID == uuid.Nil {
		return fmt.Errorf("item %q is missing a product", item.Name)
	}
	if item.Kind != models.InventoryKindRegular && item.Kind != models.InventoryKindFreshProduce {
		return fmt.Errorf("item %q has an unknown inventory kind", item.Name)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity for %q must be a positive whole number", item.Name)
	}
	if item.UnitPrice <= 0 {
		return fmt.Errorf("unit price for %q must be positive", item.Name)
	}
	if (item.SellerID == nil) == (item.SupplierID == nil) {
		return fmt.Errorf("item %q must come from exactly one seller or supplier", item.Name)
	}

	if item.SellerID != nil {
		seller, err := s.userRepo.GetByID(ctx, *item.SellerID)
		if err != nil {
			return fmt.Errorf("seller for %q %w", item.Name, ErrNotFound)
		}
		roles, err := s.userRepo.GetRoles(ctx, seller.ID)
		if err != nil {
			return fmt.Errorf("failed to load seller roles: %v", err)
		}
		isSeller := false
		for _, r := range roles {
			if r == models.RoleSeller {
				isSeller = true
				break
			}
		}
		if !isSeller || seller.ValidationStatus != models.SellerStatusValid {
			return fmt.Errorf("seller for %q is not validated", item.Name)
		}
	} else {
		supplier, err := s.supplierRepo.GetByID(ctx, *item.SupplierID)
		if err != nil {
			return fmt.Errorf("supplier for %q %w", item.Name, ErrNotFound)
		}
		if !supplier.IsActive {
			return fmt.Errorf("supplier for %q is not active", item.Name)
		}
	}

	inv, err := s.inventoryRepo.GetByID(ctx, item.InventoryID)
	if err != nil {
		return fmt.Errorf("inventory for %q %w", item.Name, ErrNotFound)
	}
	if inv.ProductID != item.ProductID {
		return fmt.Errorf("item %q does not match its inventory product", item.Name)
	}
	sameSeller := item.SellerID != nil && inv.SellerID != nil && *inv.SellerID == *item.SellerID
	sameSupplier := item.SupplierID != nil && inv.SupplierID != nil && *inv.SupplierID == *item.SupplierID
	if !sameSeller && !sameSupplier {
		return fmt.Errorf("item %q does not belong to the given source", item.Name)
	}
	now := time.Now()
	if inv.Expired(now) {
		return fmt.Errorf("item %q has expired", item.Name)
	}
	if item.Quantity > inv.AvailableQuantity(now) {
		return fmt.Errorf("quantity for %q exceeds available stock (%d)", item.Name, inv.AvailableQuantity(now))
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderRow, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	items, err := s.orderRepo.GetOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %v", err)
	}
	return &models.OrderRow{Order: *order, Items: items}, nil
}

func (s *orderService) GetGroup(ctx context.Context, id uuid.UUID) (*models.OrderGroupDetail, error) {
	group, err := s.orderRepo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order group %w", ErrNotFound)
	}
	orders, err := s.orderRepo.ListForGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load group orders: %v", err)
	}
	return &models.OrderGroupDetail{OrderGroup: *group, Orders: orders}, nil
}

func (s *orderService) ListGroupsForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	return s.orderRepo.ListGroupsForBuyer(ctx, buyerID, limit, offset)
}

func (s *orderService) ListGroupsForAmbassador(ctx context.Context, ambassadorID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	return s.orderRepo.ListGroupsForAmbassador(ctx, ambassadorID, limit, offset)
}

func (s *orderService) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return s.orderRepo.ListForBuyer(ctx, buyerID, limit, offset)
}

func (s *orderService) ListForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return s.orderRepo.ListForSeller(ctx, sellerID, limit, offset)
}

func (s *orderService) ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	return s.orderRepo.ListForSupplier(ctx, supplierID, limit, offset)
}

func (s *orderService) List(ctx context.Context, status string, limit, offset int) ([]*models.OrderRow, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	return s.orderRepo.List(ctx, status, limit, offset)
}

// UpdateStatus moves an order to a new status. Delivered and cancelled are
// terminal, reaching either releases the reservations the order holds, and
// delivered additionally draws down stored stock.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	if models.TerminalOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order is already %s", ErrConflict, order.Status)
	}
	if status == order.Status {
		return order, nil
	}

	if models.TerminalOrderStatus(status) {
		items, err := s.orderRepo.GetOrderItems(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load order items: %v", err)
		}
		for _, item := range items {
			if status == models.OrderStatusDelivered {
				err = s.inventoryRepo.ApplyDelivery(ctx, item.InventoryID, item.Quantity)
			} else {
				err = s.inventoryRepo.AdjustReservation(ctx, item.InventoryID, -item.Quantity)
			}
			if err != nil {
				log.Printf("Failed to settle inventory %s for order %s: %v", item.InventoryID, id, err)
			}
		}
		if err := s.cacheSvc.InvalidateCatalog(ctx); err != nil {
			log.Printf("Failed to invalidate catalog cache: %v", err)
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %v", err)
	}
	order.Status = status
	return order, nil
}
