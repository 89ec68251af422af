package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/core/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// --- Test Suite Setup ---
type StockServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockStockLedgerRepository
	mockProductRepo *MockProductRepository
	service         portssvc.StockSvcFacade
	actorID         string
	productID       string
}

func (suite *StockServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockStockLedgerRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewStockService(suite.mockLedgerRepo, suite.mockProductRepo)
	suite.actorID = uuid.NewString()
	suite.productID = uuid.NewString()
}

// --- Test Cases ---

func (suite *StockServiceTestSuite) TestRecordMovement_Success() {
	ctx := context.Background()
	req := dto.RecordMovementRequest{
		ProductID:     suite.productID,
		MovementType:  "IN",
		Quantity:      10,
		ReferenceType: "PURCHASE",
		Notes:         "restock delivery",
	}
	movement := &domain.StockMovement{
		MovementID:   uuid.NewString(),
		ProductID:    suite.productID,
		MovementType: domain.MovementIn,
		Quantity:     10,
		BeforeQty:    5,
		AfterQty:     15,
	}

	suite.mockLedgerRepo.On("RecordMovement", ctx, suite.productID, domain.MovementIn, int64(10),
		domain.ReferencePurchase, "", "restock delivery", suite.actorID).Return(movement, nil).Once()

	got, err := suite.service.RecordMovement(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(15), got.AfterQty)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestRecordMovement_NonPositiveOut() {
	ctx := context.Background()
	req := dto.RecordMovementRequest{
		ProductID:     suite.productID,
		MovementType:  "OUT",
		Quantity:      -3,
		ReferenceType: "SALE",
	}

	_, err := suite.service.RecordMovement(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordMovement",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestRecordMovement_ZeroAdjustment() {
	ctx := context.Background()
	req := dto.RecordMovementRequest{
		ProductID:     suite.productID,
		MovementType:  "ADJUSTMENT",
		Quantity:      0,
		ReferenceType: "ADJUSTMENT",
	}

	_, err := suite.service.RecordMovement(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StockServiceTestSuite) TestRecordMovement_NegativeAdjustmentAllowed() {
	ctx := context.Background()
	req := dto.RecordMovementRequest{
		ProductID:     suite.productID,
		MovementType:  "ADJUSTMENT",
		Quantity:      -4,
		ReferenceType: "ADJUSTMENT",
		Notes:         "breakage",
	}
	movement := &domain.StockMovement{
		MovementID:   uuid.NewString(),
		MovementType: domain.MovementAdjustment,
		Quantity:     -4,
		BeforeQty:    10,
		AfterQty:     6,
	}

	suite.mockLedgerRepo.On("RecordMovement", ctx, suite.productID, domain.MovementAdjustment, int64(-4),
		domain.ReferenceAdjustment, "", "breakage", suite.actorID).Return(movement, nil).Once()

	got, err := suite.service.RecordMovement(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(6), got.AfterQty)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestRecordMovement_NegativeStock() {
	ctx := context.Background()
	req := dto.RecordMovementRequest{
		ProductID:     suite.productID,
		MovementType:  "OUT",
		Quantity:      100,
		ReferenceType: "SALE",
	}

	suite.mockLedgerRepo.On("RecordMovement", ctx, suite.productID, domain.MovementOut, int64(100),
		domain.ReferenceSale, "", "", suite.actorID).Return(nil, apperrors.ErrNegativeStock).Once()

	_, err := suite.service.RecordMovement(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNegativeStock)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestRecordOpname_Success() {
	ctx := context.Background()
	req := dto.OpnameRequest{ProductID: suite.productID, CountedQty: 47, Notes: "monthly count"}
	movement := &domain.StockMovement{
		MovementID:    uuid.NewString(),
		MovementType:  domain.MovementAdjustment,
		ReferenceType: domain.ReferenceOpname,
		Quantity:      -3,
		BeforeQty:     50,
		AfterQty:      47,
	}

	suite.mockLedgerRepo.On("RecordOpname", ctx, suite.productID, int64(47), "monthly count", suite.actorID).
		Return(movement, nil).Once()

	got, err := suite.service.RecordOpname(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(47), got.AfterQty)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestRecordOpname_ZeroDelta() {
	ctx := context.Background()
	req := dto.OpnameRequest{ProductID: suite.productID, CountedQty: 50}

	// A count matching the live quantity appends nothing.
	suite.mockLedgerRepo.On("RecordOpname", ctx, suite.productID, int64(50), "", suite.actorID).
		Return(nil, nil).Once()

	got, err := suite.service.RecordOpname(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Nil(got)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestListMovements_ProductNotFound() {
	ctx := context.Background()

	suite.mockProductRepo.On("FindProductByID", ctx, suite.productID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListMovements(ctx, suite.productID, dto.ListMovementsParams{Limit: 20})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListMovementsByProduct",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestListMovements_FilterMapping() {
	ctx := context.Background()
	movementType := "OUT"
	product := &domain.Product{ProductID: suite.productID, Price: decimal.RequireFromString("1000")}

	suite.mockProductRepo.On("FindProductByID", ctx, suite.productID).Return(product, nil).Once()
	suite.mockLedgerRepo.On("ListMovementsByProduct", ctx, suite.productID, 20, (*string)(nil),
		mock.MatchedBy(func(f domain.MovementFilter) bool {
			return f.MovementType != nil && *f.MovementType == domain.MovementOut && f.ReferenceType == nil
		})).Return([]domain.StockMovement{}, nil, nil).Once()

	resp, err := suite.service.ListMovements(ctx, suite.productID,
		dto.ListMovementsParams{MovementType: &movementType, Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Movements)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestStockService(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}
