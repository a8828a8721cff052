package services

import (
	"context"
	"testing"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	mockInventoryRepo *MockInventoryRepository
	mockCache         *MockCacheService
	service           CartService
	buyerID           uuid.UUID
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.mockInventoryRepo = &MockInventoryRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewCartService(suite.mockInventoryRepo, suite.mockCache)
	suite.buyerID = uuid.New()
}

func (suite *CartServiceTestSuite) TearDownTest() {
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func sellerCatalogRow(available int) *models.CatalogSourceRow {
	sellerID := uuid.New()
	sellerName := "Green Farm"
	status := models.SellerStatusValid
	return &models.CatalogSourceRow{
		Inventory: models.InventoryItem{
			ID:        uuid.New(),
			Kind:      models.InventoryKindRegular,
			ProductID: uuid.New(),
			SellerID:  &sellerID,
			Quantity:  available,
			UnitPrice: 12.5,
		},
		ProductName:   "Maize",
		SellerName:    &sellerName,
		SellerStatus:  &status,
		SellerHasRole: true,
	}
}

func (suite *CartServiceTestSuite) TestAddItem_Success() {
	row := sellerCatalogRow(50)

	suite.mockInventoryRepo.On("GetCatalogRow", mock.Anything, row.Inventory.ID).Return(row, nil)
	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(&models.Cart{}, nil)
	suite.mockCache.On("SetCart", mock.Anything, suite.buyerID, mock.AnythingOfType("*models.Cart")).Return(nil)

	cart, err := suite.service.AddItem(context.Background(), suite.buyerID, row.Inventory.ID, 3)

	suite.NoError(err)
	suite.Len(cart.Lines, 1)
	suite.Equal("3", cart.Lines[0].Quantity)
	suite.Equal("12.5", cart.Lines[0].UnitPrice)
	suite.Equal("Seller: Green Farm", cart.Lines[0].SourceLabel)
}

func (suite *CartServiceTestSuite) TestAddItem_MergesAndClampsAtAvailability() {
	row := sellerCatalogRow(10)

	suite.mockInventoryRepo.On("GetCatalogRow", mock.Anything, row.Inventory.ID).Return(row, nil)
	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(&models.Cart{}, nil).Once()
	suite.mockCache.On("SetCart", mock.Anything, suite.buyerID, mock.AnythingOfType("*models.Cart")).Return(nil)

	first, err := suite.service.AddItem(context.Background(), suite.buyerID, row.Inventory.ID, 7)
	suite.NoError(err)

	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(first, nil).Once()

	cart, err := suite.service.AddItem(context.Background(), suite.buyerID, row.Inventory.ID, 7)

	suite.NoError(err)
	suite.Len(cart.Lines, 1)
	suite.Equal("10", cart.Lines[0].Quantity)
}

func (suite *CartServiceTestSuite) TestAddItem_RejectsInvalidSeller() {
	row := sellerCatalogRow(50)
	status := models.SellerStatusPending
	row.SellerStatus = &status

	suite.mockInventoryRepo.On("GetCatalogRow", mock.Anything, row.Inventory.ID).Return(row, nil)

	_, err := suite.service.AddItem(context.Background(), suite.buyerID, row.Inventory.ID, 3)

	suite.ErrorContains(err, "cannot be ordered")
}

func (suite *CartServiceTestSuite) TestAddItem_RejectsNonPositiveQuantity() {
	_, err := suite.service.AddItem(context.Background(), suite.buyerID, uuid.New(), 0)
	suite.ErrorContains(err, "quantity must be positive")
}

func (suite *CartServiceTestSuite) TestUpdateLine_StoresRawValues() {
	row := sellerCatalogRow(50)
	line := models.CartLine{
		InventoryID: row.Inventory.ID,
		ProductID:   row.Inventory.ProductID,
		SourceType:  models.SourceTypeSeller,
		SellerID:    row.Inventory.SellerID,
		Quantity:    "3",
		UnitPrice:   "12.5",
	}
	cart := &models.Cart{Lines: []models.CartLine{line}}

	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(cart, nil)
	suite.mockCache.On("SetCart", mock.Anything, suite.buyerID, mock.AnythingOfType("*models.Cart")).Return(nil)

	updated, err := suite.service.UpdateLine(context.Background(), suite.buyerID, line.Key(), "4.", "abc")

	suite.NoError(err)
	suite.Equal("4.", updated.Lines[0].Quantity)
	suite.Equal("abc", updated.Lines[0].UnitPrice)
}

func (suite *CartServiceTestSuite) TestUpdateLine_UnknownKey() {
	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(&models.Cart{}, nil)

	_, err := suite.service.UpdateLine(context.Background(), suite.buyerID, "seller:x:y", "1", "2")

	suite.ErrorIs(err, ErrNotFound)
}

func (suite *CartServiceTestSuite) TestRemoveLine_Success() {
	row := sellerCatalogRow(50)
	line := models.CartLine{
		InventoryID: row.Inventory.ID,
		ProductID:   row.Inventory.ProductID,
		SourceType:  models.SourceTypeSeller,
		SellerID:    row.Inventory.SellerID,
		Quantity:    "3",
		UnitPrice:   "12.5",
	}
	cart := &models.Cart{Lines: []models.CartLine{line}}

	suite.mockCache.On("GetCart", mock.Anything, suite.buyerID).Return(cart, nil)
	suite.mockCache.On("SetCart", mock.Anything, suite.buyerID, mock.AnythingOfType("*models.Cart")).Return(nil)

	updated, err := suite.service.RemoveLine(context.Background(), suite.buyerID, line.Key())

	suite.NoError(err)
	suite.Empty(updated.Lines)
}
