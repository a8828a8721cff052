package services

import (
	"context"
	"errors"
	"testing"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo     *MockOrderRepository
	mockInventoryRepo *MockInventoryRepository
	mockUserRepo      *MockUserRepository
	mockSupplierRepo  *MockSupplierRepository
	mockCache         *MockCacheService
	service           OrderService
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = &MockOrderRepository{}
	suite.mockInventoryRepo = &MockInventoryRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockSupplierRepo = &MockSupplierRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewOrderService(suite.mockOrderRepo, suite.mockInventoryRepo,
		suite.mockUserRepo, suite.mockSupplierRepo, suite.mockCache)
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockSupplierRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) validatedSeller(id uuid.UUID) {
	suite.mockUserRepo.On("GetByID", mock.Anything, id).
		Return(&models.User{ID: id, ValidationStatus: models.SellerStatusValid}, nil)
	suite.mockUserRepo.On("GetRoles", mock.Anything, id).
		Return([]string{models.RoleSeller}, nil)
}

func (suite *OrderServiceTestSuite) sellerStock(invID, productID, sellerID uuid.UUID, quantity int) {
	suite.mockInventoryRepo.On("GetByID", mock.Anything, invID).
		Return(&models.InventoryItem{
			ID:        invID,
			Kind:      models.InventoryKindRegular,
			ProductID: productID,
			SellerID:  &sellerID,
			Quantity:  quantity,
		}, nil)
}

func (suite *OrderServiceTestSuite) TestCheckout_FansOutOnePerSource() {
	buyerID := uuid.New()
	sellerID := uuid.New()
	supplierID := uuid.New()
	prodA, prodB, prodC := uuid.New(), uuid.New(), uuid.New()
	invA, invB, invC := uuid.New(), uuid.New(), uuid.New()

	req := &models.CheckoutRequest{
		Currency: "USD",
		Items: []models.CheckoutItem{
			{InventoryID: invA, Kind: models.InventoryKindRegular, ProductID: prodA, SKU: "TOM-1", Name: "Tomatoes", SellerID: &sellerID, Quantity: 2, UnitPrice: 4},
			{InventoryID: invB, Kind: models.InventoryKindRegular, ProductID: prodB, SKU: "ONI-1", Name: "Onions", SellerID: &sellerID, Quantity: 3, UnitPrice: 6},
			{InventoryID: invC, Kind: models.InventoryKindRegular, ProductID: prodC, SKU: "RIC-1", Name: "Rice", SupplierID: &supplierID, Quantity: 5, UnitPrice: 2},
		},
	}

	storedCart := &models.Cart{Lines: []models.CartLine{
		{InventoryID: invA, ProductID: prodA, ProductName: "Tomatoes", SourceType: models.SourceTypeSeller, SellerID: &sellerID, Quantity: "2", UnitPrice: "4", AvailableQuantity: 100},
	}}
	suite.mockCache.On("GetCart", mock.Anything, buyerID).Return(storedCart, nil)

	suite.validatedSeller(sellerID)
	suite.mockSupplierRepo.On("GetByID", mock.Anything, supplierID).
		Return(&models.Supplier{ID: supplierID, SupplierName: "Valley Farms", IsActive: true}, nil)
	suite.sellerStock(invA, prodA, sellerID, 100)
	suite.sellerStock(invB, prodB, sellerID, 100)
	suite.mockInventoryRepo.On("GetByID", mock.Anything, invC).
		Return(&models.InventoryItem{
			ID:         invC,
			Kind:       models.InventoryKindRegular,
			ProductID:  prodC,
			SupplierID: &supplierID,
			Quantity:   100,
		}, nil)

	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invA, 2).Return(nil)
	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invB, 3).Return(nil)
	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invC, 5).Return(nil)

	var createdOrders []*models.Order
	suite.mockOrderRepo.On("CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			createdOrders = args.Get(2).([]*models.Order)
		}).
		Return(nil)
	suite.mockCache.On("DeleteCart", mock.Anything, buyerID).Return(nil)
	suite.mockCache.On("InvalidateCatalog", mock.Anything).Return(nil)

	result, err := suite.service.Checkout(context.Background(), buyerID, req)

	suite.NoError(err)
	suite.Len(createdOrders, 2)
	suite.Len(result.Orders, 2)

	sellerOrder := result.Orders[0]
	suite.Equal(models.SourceTypeSeller, sellerOrder.SourceType)
	suite.Equal(sellerID, *sellerOrder.SellerID)
	suite.Len(sellerOrder.Items, 2)
	suite.Equal(26.0, sellerOrder.TotalAmount)

	supplierOrder := result.Orders[1]
	suite.Equal(models.SourceTypeSupplier, supplierOrder.SourceType)
	suite.Equal(supplierID, *supplierOrder.SupplierID)
	suite.Len(supplierOrder.Items, 1)
	suite.Equal(10.0, supplierOrder.TotalAmount)

	suite.Equal(36.0, result.TotalAmount)
	suite.Equal(result.Orders[0].OrderGroupID, result.Orders[1].OrderGroupID)
}

func (suite *OrderServiceTestSuite) TestCheckout_ReleasesReservationsWhenReserveFails() {
	buyerID := uuid.New()
	sellerID := uuid.New()
	prodA, prodB := uuid.New(), uuid.New()
	invA, invB := uuid.New(), uuid.New()

	req := &models.CheckoutRequest{
		Items: []models.CheckoutItem{
			{InventoryID: invA, Kind: models.InventoryKindRegular, ProductID: prodA, SKU: "TOM-1", Name: "Tomatoes", SellerID: &sellerID, Quantity: 2, UnitPrice: 4},
			{InventoryID: invB, Kind: models.InventoryKindRegular, ProductID: prodB, SKU: "ONI-1", Name: "Onions", SellerID: &sellerID, Quantity: 3, UnitPrice: 6},
		},
	}

	suite.mockCache.On("GetCart", mock.Anything, buyerID).Return(nil, errors.New("cache miss"))
	suite.validatedSeller(sellerID)
	suite.sellerStock(invA, prodA, sellerID, 100)
	suite.sellerStock(invB, prodB, sellerID, 100)

	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invA, 2).Return(nil)
	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invB, 3).Return(errors.New("insufficient stock"))
	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invA, -2).Return(nil)

	_, err := suite.service.Checkout(context.Background(), buyerID, req)

	suite.ErrorContains(err, `could not reserve "Onions"`)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCheckout_StoredCartValidatedFirst() {
	buyerID := uuid.New()
	sellerID := uuid.New()
	invID := uuid.New()
	prodID := uuid.New()

	req := &models.CheckoutRequest{
		Items: []models.CheckoutItem{
			{InventoryID: invID, Kind: models.InventoryKindRegular, ProductID: prodID, SKU: "TOM-1", Name: "Tomatoes", SellerID: &sellerID, Quantity: 2, UnitPrice: 4},
		},
	}

	storedCart := &models.Cart{Lines: []models.CartLine{
		{InventoryID: invID, ProductID: prodID, ProductName: "Tomatoes", SourceType: models.SourceTypeSeller, SellerID: &sellerID, Quantity: "0", UnitPrice: "4", AvailableQuantity: 100},
	}}
	suite.mockCache.On("GetCart", mock.Anything, buyerID).Return(storedCart, nil)

	_, err := suite.service.Checkout(context.Background(), buyerID, req)

	suite.EqualError(err, "quantity for Tomatoes must be a positive whole number")
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "AdjustReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_TerminalOrderConflicts() {
	order := &models.Order{
		ID:     uuid.New(),
		Status: models.OrderStatusDelivered,
	}

	suite.mockOrderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil)

	_, err := suite.service.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)

	suite.ErrorIs(err, ErrConflict)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_CancelReleasesReservations() {
	orderID := uuid.New()
	invID := uuid.New()
	order := &models.Order{ID: orderID, Status: models.OrderStatusConfirmed}

	suite.mockOrderRepo.On("GetOrderByID", mock.Anything, orderID).Return(order, nil)
	suite.mockOrderRepo.On("GetOrderItems", mock.Anything, orderID).
		Return([]models.OrderItem{{OrderID: orderID, InventoryID: invID, Quantity: 4}}, nil)
	suite.mockInventoryRepo.On("AdjustReservation", mock.Anything, invID, -4).Return(nil)
	suite.mockCache.On("InvalidateCatalog", mock.Anything).Return(nil)
	suite.mockOrderRepo.On("UpdateStatus", mock.Anything, orderID, models.OrderStatusCancelled).Return(nil)

	updated, err := suite.service.UpdateStatus(context.Background(), orderID, models.OrderStatusCancelled)

	suite.NoError(err)
	suite.Equal(models.OrderStatusCancelled, updated.Status)
}
