package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/core/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionItem), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, params portsrepo.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) UpsertItemInDraft(ctx context.Context, transactionID string, item domain.TransactionItem, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, item, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) RemoveItemFromDraft(ctx context.Context, transactionID, productID, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, productID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CompleteTransaction(ctx context.Context, transactionID string, paymentMethod domain.PaymentMethod, paymentAmount decimal.Decimal, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, paymentMethod, paymentAmount, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) LockTransaction(ctx context.Context, transactionID, actorID string) error {
	args := m.Called(ctx, transactionID, actorID)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID, actorID string, reverseDrawer bool) error {
	args := m.Called(ctx, transactionID, actorID, reverseDrawer)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListStaleDraftIDs(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockProductRepo *MockProductRepository
	service         portssvc.TransactionSvcFacade
	cashierID       string
	product         domain.Product
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockProductRepo, false)

	suite.cashierID = uuid.NewString()
	suite.product = domain.Product{
		ProductID:  uuid.NewString(),
		SKU:        "SKU-001",
		Name:       "Kopi Susu 250ml",
		Price:      decimal.RequireFromString("15000"),
		Quantity:   10,
		TrackStock: true,
		IsActive:   true,
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusDraft && t.CashierID == suite.cashierID && t.Total.IsZero()
	})).Return(nil).Once()

	txn, err := suite.service.CreateDraft(ctx, suite.cashierID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(domain.StatusDraft, txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpsertItem_SnapshotsPrice() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	req := dto.UpsertItemRequest{ProductID: suite.product.ProductID, Quantity: 3}

	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()
	suite.mockTxnRepo.On("UpsertItemInDraft", ctx, transactionID, mock.MatchedBy(func(it domain.TransactionItem) bool {
		return it.ProductID == suite.product.ProductID &&
			it.Quantity == 3 &&
			it.UnitPrice.Equal(suite.product.Price) &&
			it.Subtotal.Equal(suite.product.Price.Mul(decimal.NewFromInt(3)))
	}), suite.cashierID).Return(&domain.Transaction{TransactionID: transactionID}, nil).Once()

	_, err := suite.service.UpsertItem(ctx, transactionID, req, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpsertItem_ZeroQuantityRemoves() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	req := dto.UpsertItemRequest{ProductID: suite.product.ProductID, Quantity: 0}

	suite.mockTxnRepo.On("RemoveItemFromDraft", ctx, transactionID, suite.product.ProductID, suite.cashierID).
		Return(&domain.Transaction{TransactionID: transactionID}, nil).Once()

	_, err := suite.service.UpsertItem(ctx, transactionID, req, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpsertItem_InactiveProduct() {
	ctx := context.Background()
	inactive := suite.product
	inactive.IsActive = false

	suite.mockProductRepo.On("FindProductByID", ctx, inactive.ProductID).Return(&inactive, nil).Once()

	_, err := suite.service.UpsertItem(ctx, uuid.NewString(),
		dto.UpsertItemRequest{ProductID: inactive.ProductID, Quantity: 1}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpsertItemInDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpsertItem_InsufficientStock() {
	ctx := context.Background()

	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()

	_, err := suite.service.UpsertItem(ctx, uuid.NewString(),
		dto.UpsertItemRequest{ProductID: suite.product.ProductID, Quantity: suite.product.Quantity + 1}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpsertItemInDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpsertItem_UntrackedIgnoresStock() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	untracked := suite.product
	untracked.TrackStock = false
	untracked.Quantity = 0

	suite.mockProductRepo.On("FindProductByID", ctx, untracked.ProductID).Return(&untracked, nil).Once()
	suite.mockTxnRepo.On("UpsertItemInDraft", ctx, transactionID, mock.AnythingOfType("domain.TransactionItem"), suite.cashierID).
		Return(&domain.Transaction{TransactionID: transactionID}, nil).Once()

	_, err := suite.service.UpsertItem(ctx, transactionID,
		dto.UpsertItemRequest{ProductID: untracked.ProductID, Quantity: 50}, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestComplete_Success() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	payment := decimal.RequireFromString("50000")
	completed := &domain.Transaction{
		TransactionID: transactionID,
		Status:        domain.StatusCompleted,
		Total:         decimal.RequireFromString("45000"),
		PaymentAmount: payment,
		ChangeAmount:  decimal.RequireFromString("5000"),
	}

	suite.mockTxnRepo.On("CompleteTransaction", ctx, transactionID, domain.PaymentCash, payment, suite.cashierID).
		Return(completed, nil).Once()

	txn, err := suite.service.Complete(ctx, transactionID,
		dto.CompleteTransactionRequest{PaymentMethod: "CASH", PaymentAmount: payment}, suite.cashierID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.True(txn.ChangeAmount.Equal(decimal.RequireFromString("5000")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestComplete_NegativePayment() {
	ctx := context.Background()

	_, err := suite.service.Complete(ctx, uuid.NewString(),
		dto.CompleteTransactionRequest{PaymentMethod: "CASH", PaymentAmount: decimal.RequireFromString("-1")}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "CompleteTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestComplete_PaymentInsufficient() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	payment := decimal.RequireFromString("100")

	suite.mockTxnRepo.On("CompleteTransaction", ctx, transactionID, domain.PaymentCash, payment, suite.cashierID).
		Return(nil, apperrors.ErrPaymentInsufficient).Once()

	_, err := suite.service.Complete(ctx, transactionID,
		dto.CompleteTransactionRequest{PaymentMethod: "CASH", PaymentAmount: payment}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPaymentInsufficient)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestLock_Delegates() {
	ctx := context.Background()
	transactionID := uuid.NewString()

	suite.mockTxnRepo.On("LockTransaction", ctx, transactionID, suite.cashierID).Return(nil).Once()

	err := suite.service.Lock(ctx, transactionID, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDelete_PassesReversalPolicy() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	reversing := services.NewTransactionService(suite.mockTxnRepo, suite.mockProductRepo, true)

	suite.mockTxnRepo.On("DeleteTransaction", ctx, transactionID, suite.cashierID, true).Return(nil).Once()

	err := reversing.Delete(ctx, transactionID, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetTransaction_LoadsItems() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	header := &domain.Transaction{TransactionID: transactionID, Status: domain.StatusCompleted}
	items := []domain.TransactionItem{
		{ItemID: uuid.NewString(), TransactionID: transactionID, ProductID: suite.product.ProductID, Quantity: 2},
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, transactionID).Return(header, nil).Once()
	suite.mockTxnRepo.On("FindItemsByTransactionID", ctx, transactionID).Return(items, nil).Once()

	txn, err := suite.service.GetTransaction(ctx, transactionID)

	suite.Require().NoError(err)
	suite.Len(txn.Items, 1)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_InvalidStatus() {
	ctx := context.Background()
	badStatus := "PENDING"

	_, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{Status: &badStatus})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_StatusFilter() {
	ctx := context.Background()
	status := "DRAFT"

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(p portsrepo.ListTransactionsParams) bool {
		return p.Status != nil && *p.Status == domain.StatusDraft
	})).Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{Status: &status, Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestSweepStaleDrafts_LocksAll() {
	ctx := context.Background()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	suite.mockTxnRepo.On("ListStaleDraftIDs", ctx, mock.AnythingOfType("time.Time"), 200).
		Return(ids, nil).Once()
	for _, id := range ids {
		suite.mockTxnRepo.On("LockTransaction", ctx, id, "system").Return(nil).Once()
	}

	locked, err := suite.service.SweepStaleDrafts(ctx, 24*time.Hour)

	suite.Require().NoError(err)
	suite.Equal(3, locked)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestSweepStaleDrafts_SkipsLosingCAS() {
	ctx := context.Background()
	completedMidSweep := uuid.NewString()
	stillDraft := uuid.NewString()

	suite.mockTxnRepo.On("ListStaleDraftIDs", ctx, mock.AnythingOfType("time.Time"), 200).
		Return([]string{completedMidSweep, stillDraft}, nil).Once()
	suite.mockTxnRepo.On("LockTransaction", ctx, completedMidSweep, "system").
		Return(apperrors.ErrInvalidState).Once()
	suite.mockTxnRepo.On("LockTransaction", ctx, stillDraft, "system").Return(nil).Once()

	locked, err := suite.service.SweepStaleDrafts(ctx, 24*time.Hour)

	suite.Require().NoError(err)
	suite.Equal(1, locked)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestSweepStaleDrafts_NothingStale() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListStaleDraftIDs", ctx, mock.AnythingOfType("time.Time"), 200).
		Return([]string{}, nil).Once()

	locked, err := suite.service.SweepStaleDrafts(ctx, 24*time.Hour)

	suite.Require().NoError(err)
	suite.Equal(0, locked)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "LockTransaction", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
