package services

import (
	"context"
	"io"
	"time"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared across the service tests.

type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) Create(ctx context.Context, region *models.Region) error {
	args := m.Called(ctx, region)
	return args.Error(0)
}

func (m *MockRegionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Region), args.Error(1)
}

func (m *MockRegionRepository) Update(ctx context.Context, region *models.Region) error {
	args := m.Called(ctx, region)
	return args.Error(0)
}

func (m *MockRegionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRegionRepository) List(ctx context.Context) ([]*models.RegionRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.RegionRow), args.Error(1)
}

func (m *MockRegionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Region, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Region), args.Error(1)
}

func (m *MockRegionRepository) ExistsByNameAndType(ctx context.Context, name, regionType string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, regionType, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegionRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegionRepository) GetDefault(ctx context.Context, regionID uuid.UUID) (*models.RegionDefault, error) {
	args := m.Called(ctx, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RegionDefault), args.Error(1)
}

func (m *MockRegionRepository) UpsertDefault(ctx context.Context, def *models.RegionDefault) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockRegionRepository) RegroupLocals(ctx context.Context, newMinor *models.Region, localIDs []uuid.UUID) error {
	args := m.Called(ctx, newMinor, localIDs)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.UserRow, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.UserRow), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, roleName string) ([]*models.UserRow, error) {
	args := m.Called(ctx, roleName)
	return args.Get(0).([]*models.UserRow), args.Error(1)
}

func (m *MockUserRepository) ListByRegions(ctx context.Context, regionIDs []uuid.UUID) ([]*models.UserRow, error) {
	args := m.Called(ctx, regionIDs)
	return args.Get(0).([]*models.UserRow), args.Error(1)
}

func (m *MockUserRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) SetValidationStatus(ctx context.Context, userID uuid.UUID, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockUserRepository) SetAssignedAdmin(ctx context.Context, userID uuid.UUID, adminID *uuid.UUID) error {
	args := m.Called(ctx, userID, adminID)
	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListCatalogRows(ctx context.Context, filter *models.CatalogFilter) ([]*models.CatalogSourceRow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.CatalogSourceRow), args.Error(1)
}

func (m *MockInventoryRepository) GetCatalogRow(ctx context.Context, id uuid.UUID) (*models.CatalogSourceRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogSourceRow), args.Error(1)
}

func (m *MockInventoryRepository) AdjustReservation(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockInventoryRepository) ApplyDelivery(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) ReleaseExpiredReservations(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetRegionList(ctx context.Context) ([]*models.RegionRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RegionRow), args.Error(1)
}

func (m *MockCacheService) SetRegionList(ctx context.Context, regions []*models.RegionRow, ttl time.Duration) error {
	args := m.Called(ctx, regions, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateRegions(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetCatalog(ctx context.Context, filterKey string) ([]models.CatalogItem, error) {
	args := m.Called(ctx, filterKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogItem), args.Error(1)
}

func (m *MockCacheService) SetCatalog(ctx context.Context, filterKey string, items []models.CatalogItem, ttl time.Duration) error {
	args := m.Called(ctx, filterKey, items, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCatalog(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetCart(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCacheService) SetCart(ctx context.Context, buyerID uuid.UUID, cart *models.Cart) error {
	args := m.Called(ctx, buyerID, cart)
	return args.Error(0)
}

func (m *MockCacheService) DeleteCart(ctx context.Context, buyerID uuid.UUID) error {
	args := m.Called(ctx, buyerID)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboard(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, data map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, data, ttl)
	return args.Error(0)
}

func (m *MockCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockProcurementRepository struct {
	mock.Mock
}

func (m *MockProcurementRepository) Create(ctx context.Context, order *models.ProcurementOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockProcurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProcurementOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProcurementOrder), args.Error(1)
}

func (m *MockProcurementRepository) Update(ctx context.Context, order *models.ProcurementOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockProcurementRepository) List(ctx context.Context, filter *models.ProcurementFilter) ([]*models.ProcurementOrderRow, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.ProcurementOrderRow), args.Int(1), args.Error(2)
}

func (m *MockProcurementRepository) ListOptions(ctx context.Context, includeDraft bool) ([]*models.ProcurementOrderRow, error) {
	args := m.Called(ctx, includeDraft)
	return args.Get(0).([]*models.ProcurementOrderRow), args.Error(1)
}

func (m *MockProcurementRepository) PushToInventory(ctx context.Context, order *models.ProcurementOrder, supplierType string) error {
	args := m.Called(ctx, order, supplierType)
	return args.Error(0)
}

func (m *MockProcurementRepository) GetReview(ctx context.Context, procurementOrderID uuid.UUID) (*models.ProcurementReview, error) {
	args := m.Called(ctx, procurementOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProcurementReview), args.Error(1)
}

func (m *MockProcurementRepository) CreateReview(ctx context.Context, review *models.ProcurementReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockProcurementRepository) UpdateReview(ctx context.Context, review *models.ProcurementReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockProcurementRepository) AddReviewImage(ctx context.Context, image *models.ProcurementReviewImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProcurementRepository) ListReviewImages(ctx context.Context, reviewID uuid.UUID) ([]*models.ProcurementReviewImage, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).([]*models.ProcurementReviewImage), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateGroup(ctx context.Context, group *models.OrderGroup, orders []*models.Order, items map[uuid.UUID][]*models.OrderItem) error {
	args := m.Called(ctx, group, orders, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderGroup), args.Error(1)
}

func (m *MockOrderRepository) ListGroupsForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]*models.OrderGroup), args.Error(1)
}

func (m *MockOrderRepository) ListGroupsForAmbassador(ctx context.Context, ambassadorID uuid.UUID, limit, offset int) ([]*models.OrderGroup, error) {
	args := m.Called(ctx, ambassadorID, limit, offset)
	return args.Get(0).([]*models.OrderGroup), args.Error(1)
}

func (m *MockOrderRepository) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*models.OrderRow, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]*models.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]*models.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) ListForSeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]*models.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.OrderRow, error) {
	args := m.Called(ctx, supplierID, limit, offset)
	return args.Get(0).([]*models.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.OrderRow, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.OrderRow), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) CreateProductLink(ctx context.Context, link *models.SupplierProduct) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetProductLink(ctx context.Context, supplierID, productID uuid.UUID) (*models.SupplierProduct, error) {
	args := m.Called(ctx, supplierID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierProduct), args.Error(1)
}

func (m *MockSupplierRepository) ListProductLinks(ctx context.Context, supplierID uuid.UUID) ([]*models.SupplierProductRow, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]*models.SupplierProductRow), args.Error(1)
}

func (m *MockSupplierRepository) DeleteProductLink(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}
