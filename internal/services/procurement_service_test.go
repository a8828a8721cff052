package services

import (
	"context"
	"errors"
	"testing"

	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProcurementServiceTestSuite struct {
	suite.Suite
	mockProcurementRepo *MockProcurementRepository
	mockSupplierRepo    *MockSupplierRepository
	mockMinio           *MockMinioService
	mockCache           *MockCacheService
	service             ProcurementService
}

func (suite *ProcurementServiceTestSuite) SetupTest() {
	suite.mockProcurementRepo = &MockProcurementRepository{}
	suite.mockSupplierRepo = &MockSupplierRepository{}
	suite.mockMinio = &MockMinioService{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewProcurementService(suite.mockProcurementRepo, suite.mockSupplierRepo, suite.mockMinio, suite.mockCache)
}

func (suite *ProcurementServiceTestSuite) TearDownTest() {
	suite.mockProcurementRepo.AssertExpectations(suite.T())
	suite.mockSupplierRepo.AssertExpectations(suite.T())
	suite.mockMinio.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestProcurementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProcurementServiceTestSuite))
}

func receivedOrder() *models.ProcurementOrder {
	return &models.ProcurementOrder{
		ID:         uuid.New(),
		SupplierID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   40,
		UnitPrice:  3.25,
		Status:     models.ProcurementStatusReceived,
	}
}

func (suite *ProcurementServiceTestSuite) TestCreate_UnlinkedSupplierRejected() {
	supplierID := uuid.New()
	productID := uuid.New()

	suite.mockSupplierRepo.On("GetProductLink", mock.Anything, supplierID, productID).
		Return(nil, errors.New("no rows"))

	_, err := suite.service.Create(context.Background(), supplierID, productID, 10, 2.5, uuid.New())

	suite.EqualError(err, "supplier is not linked to this product")
}

func (suite *ProcurementServiceTestSuite) TestUpdateStatus_PushedOrderFrozen() {
	order := receivedOrder()
	order.PushedToInventory = true

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	_, err := suite.service.UpdateStatus(context.Background(), order.ID, models.ProcurementStatusCancelled)

	suite.ErrorIs(err, ErrConflict)
	suite.mockProcurementRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *ProcurementServiceTestSuite) TestUpdateStatus_UnknownStatusRejected() {
	_, err := suite.service.UpdateStatus(context.Background(), uuid.New(), "lost")

	suite.EqualError(err, `unknown procurement status "lost"`)
}

func (suite *ProcurementServiceTestSuite) TestPushToInventory_Success() {
	order := receivedOrder()
	link := &models.SupplierProduct{
		SupplierID:   order.SupplierID,
		ProductID:    order.ProductID,
		SupplierType: "farm",
	}

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	suite.mockSupplierRepo.On("GetProductLink", mock.Anything, order.SupplierID, order.ProductID).Return(link, nil)
	suite.mockProcurementRepo.On("PushToInventory", mock.Anything, order, "farm").Return(nil)
	suite.mockCache.On("InvalidateCatalog", mock.Anything).Return(nil)

	pushed, err := suite.service.PushToInventory(context.Background(), order.ID)

	suite.NoError(err)
	suite.True(pushed.PushedToInventory)
}

func (suite *ProcurementServiceTestSuite) TestPushToInventory_OnlyReceivedOrders() {
	order := receivedOrder()
	order.Status = models.ProcurementStatusPlaced

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	_, err := suite.service.PushToInventory(context.Background(), order.ID)

	suite.EqualError(err, "only received orders can be pushed to inventory")
	suite.mockProcurementRepo.AssertNotCalled(suite.T(), "PushToInventory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProcurementServiceTestSuite) TestPushToInventory_AlreadyPushedConflicts() {
	order := receivedOrder()
	order.PushedToInventory = true

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	_, err := suite.service.PushToInventory(context.Background(), order.ID)

	suite.ErrorIs(err, ErrConflict)
	suite.mockProcurementRepo.AssertNotCalled(suite.T(), "PushToInventory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProcurementServiceTestSuite) TestPushToInventory_ConcurrentPushConflicts() {
	// A second push that loses the race inside the repository still surfaces
	// as a conflict rather than a server error.
	order := receivedOrder()
	link := &models.SupplierProduct{
		SupplierID:   order.SupplierID,
		ProductID:    order.ProductID,
		SupplierType: "aggregator",
	}

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	suite.mockSupplierRepo.On("GetProductLink", mock.Anything, order.SupplierID, order.ProductID).Return(link, nil)
	suite.mockProcurementRepo.On("PushToInventory", mock.Anything, order, "aggregator").
		Return(repositories.ErrAlreadyPushed)

	_, err := suite.service.PushToInventory(context.Background(), order.ID)

	suite.ErrorIs(err, ErrConflict)
	suite.mockCache.AssertNotCalled(suite.T(), "InvalidateCatalog", mock.Anything)
}

func (suite *ProcurementServiceTestSuite) TestSubmitReview_DraftOrderRejected() {
	order := receivedOrder()
	order.Status = models.ProcurementStatusDraft

	suite.mockProcurementRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	_, err := suite.service.SubmitReview(context.Background(), order.ID, uuid.New(), 8, "fine", nil)

	suite.EqualError(err, "draft orders cannot be reviewed")
	suite.mockProcurementRepo.AssertNotCalled(suite.T(), "CreateReview", mock.Anything, mock.Anything)
}

func (suite *ProcurementServiceTestSuite) TestSubmitReview_RatingOutOfRange() {
	_, err := suite.service.SubmitReview(context.Background(), uuid.New(), uuid.New(), 11, "too good", nil)

	suite.EqualError(err, "rating must be between 1 and 10")
}
