package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/core/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

var _ portsrepo.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, limit int, nextToken *string, activeOnly bool) ([]domain.Product, *string, error) {
	args := m.Called(ctx, limit, nextToken, activeOnly)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Product), returnedNextToken, args.Error(2)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, tx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ApplyQuantityDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]int64) error {
	args := m.Called(ctx, tx, deltas)
	return args.Error(0)
}

// --- Mock StockLedgerRepository ---
type MockStockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.StockLedgerRepository = (*MockStockLedgerRepository)(nil)

func (m *MockStockLedgerRepository) RecordMovement(ctx context.Context, productID string, movementType domain.MovementType, quantity int64, referenceType domain.ReferenceType, referenceID, notes, actorID string) (*domain.StockMovement, error) {
	args := m.Called(ctx, productID, movementType, quantity, referenceType, referenceID, notes, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockStockLedgerRepository) RecordOpname(ctx context.Context, productID string, countedQty int64, notes, actorID string) (*domain.StockMovement, error) {
	args := m.Called(ctx, productID, countedQty, notes, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockStockLedgerRepository) InsertMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error {
	args := m.Called(ctx, tx, movements)
	return args.Error(0)
}

func (m *MockStockLedgerRepository) ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string, filter domain.MovementFilter) ([]domain.StockMovement, *string, error) {
	args := m.Called(ctx, productID, limit, nextToken, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.StockMovement), returnedNextToken, args.Error(2)
}

func (m *MockStockLedgerRepository) ListMovementsByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) ([]domain.StockMovement, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

// --- Test Suite Setup ---
type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	mockLedgerRepo  *MockStockLedgerRepository
	service         portssvc.ProductSvcFacade
	actorID         string
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockLedgerRepo = new(MockStockLedgerRepository)
	suite.service = services.NewProductService(suite.mockProductRepo, suite.mockLedgerRepo)
	suite.actorID = uuid.NewString()
}

// --- Test Cases ---

func (suite *ProductServiceTestSuite) TestCreateProduct_Success() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:        "SKU-001",
		Name:       "Kopi Susu 250ml",
		Price:      decimal.RequireFromString("15000"),
		MinStock:   5,
		TrackStock: true,
	}

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()

	product, err := suite.service.CreateProduct(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(product)
	suite.NotEmpty(product.ProductID)
	suite.Equal(req.SKU, product.SKU)
	suite.True(product.IsActive)
	suite.Equal(int64(0), product.Quantity)
	suite.Equal(suite.actorID, product.CreatedBy)

	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordMovement",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_WithInitialStock() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:          "SKU-002",
		Name:         "Teh Botol",
		Price:        decimal.RequireFromString("5000"),
		TrackStock:   true,
		InitialStock: 24,
	}

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()
	suite.mockLedgerRepo.On("RecordMovement", ctx, mock.AnythingOfType("string"), domain.MovementIn, int64(24),
		domain.ReferencePurchase, mock.AnythingOfType("string"), "opening stock", suite.actorID).
		Return(&domain.StockMovement{
			MovementID: uuid.NewString(),
			BeforeQty:  0,
			AfterQty:   24,
		}, nil).Once()

	product, err := suite.service.CreateProduct(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(24), product.Quantity)
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestCreateProduct_NegativePrice() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:   "SKU-003",
		Name:  "Broken",
		Price: decimal.RequireFromString("-1"),
	}

	_, err := suite.service.CreateProduct(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "SaveProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_DuplicateSKU() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:   "SKU-001",
		Name:  "Duplicate",
		Price: decimal.RequireFromString("1000"),
	}

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateProduct(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_PartialFields() {
	ctx := context.Background()
	productID := uuid.NewString()
	existing := &domain.Product{
		ProductID: productID,
		SKU:       "SKU-001",
		Name:      "Old Name",
		Price:     decimal.RequireFromString("10000"),
		MinStock:  5,
		IsActive:  true,
	}
	newPrice := decimal.RequireFromString("12000")
	req := dto.UpdateProductRequest{Price: &newPrice}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(existing, nil).Once()
	suite.mockProductRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.Price.Equal(newPrice) && p.Name == "Old Name" && p.MinStock == 5
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProduct(ctx, productID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(updated.Price.Equal(newPrice))
	suite.Equal("Old Name", updated.Name)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NegativePrice() {
	ctx := context.Background()
	productID := uuid.NewString()
	existing := &domain.Product{ProductID: productID, Price: decimal.RequireFromString("10000")}
	badPrice := decimal.RequireFromString("-500")
	req := dto.UpdateProductRequest{Price: &badPrice}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(existing, nil).Once()

	_, err := suite.service.UpdateProduct(ctx, productID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "UpdateProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NotFound() {
	ctx := context.Background()
	productID := uuid.NewString()

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateProduct(ctx, productID, dto.UpdateProductRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestListProducts_Success() {
	ctx := context.Background()
	products := []domain.Product{
		{ProductID: uuid.NewString(), SKU: "SKU-001", Price: decimal.RequireFromString("1000")},
		{ProductID: uuid.NewString(), SKU: "SKU-002", Price: decimal.RequireFromString("2000")},
	}
	nextToken := "next-page"

	suite.mockProductRepo.On("ListProducts", ctx, 10, (*string)(nil), true).
		Return(products, nextToken, nil).Once()

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{Limit: 10, ActiveOnly: true})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(nextToken, *resp.NextToken)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestCreateProduct_OpeningStockError() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:          "SKU-004",
		Name:         "Unlucky",
		Price:        decimal.RequireFromString("2500"),
		InitialStock: 10,
	}
	repoErr := assert.AnError

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()
	suite.mockLedgerRepo.On("RecordMovement", ctx, mock.Anything, domain.MovementIn, int64(10),
		domain.ReferencePurchase, mock.Anything, "opening stock", suite.actorID).
		Return(nil, repoErr).Once()

	_, err := suite.service.CreateProduct(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestProductService(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
