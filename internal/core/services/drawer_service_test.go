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

// --- Mock DrawerRepository ---
type MockDrawerRepository struct {
	mock.Mock
}

var _ portsrepo.DrawerRepository = (*MockDrawerRepository)(nil)

func (m *MockDrawerRepository) OpenDrawer(ctx context.Context, drawer domain.CashDrawer) error {
	args := m.Called(ctx, drawer)
	return args.Error(0)
}

func (m *MockDrawerRepository) FindDrawerByID(ctx context.Context, drawerID string) (*domain.CashDrawer, error) {
	args := m.Called(ctx, drawerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDrawer), args.Error(1)
}

func (m *MockDrawerRepository) FindOpenDrawerByCashier(ctx context.Context, cashierID string) (*domain.CashDrawer, error) {
	args := m.Called(ctx, cashierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDrawer), args.Error(1)
}

func (m *MockDrawerRepository) RecordEntry(ctx context.Context, entry domain.DrawerEntry) (*domain.CashDrawer, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDrawer), args.Error(1)
}

func (m *MockDrawerRepository) CloseDrawer(ctx context.Context, drawerID string, countedAmount decimal.Decimal, notes, actorID string) (*domain.CashDrawer, error) {
	args := m.Called(ctx, drawerID, countedAmount, notes, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDrawer), args.Error(1)
}

func (m *MockDrawerRepository) ListEntriesByDrawer(ctx context.Context, drawerID string, limit int, nextToken *string) ([]domain.DrawerEntry, *string, error) {
	args := m.Called(ctx, drawerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.DrawerEntry), returnedNextToken, args.Error(2)
}

func (m *MockDrawerRepository) ListDrawers(ctx context.Context, cashierID *string, limit int, nextToken *string) ([]domain.CashDrawer, *string, error) {
	args := m.Called(ctx, cashierID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CashDrawer), returnedNextToken, args.Error(2)
}

// --- Test Suite Setup ---
type DrawerServiceTestSuite struct {
	suite.Suite
	mockDrawerRepo *MockDrawerRepository
	service        portssvc.DrawerSvcFacade
	cashierID      string
}

func (suite *DrawerServiceTestSuite) SetupTest() {
	suite.mockDrawerRepo = new(MockDrawerRepository)
	suite.service = services.NewDrawerService(suite.mockDrawerRepo)
	suite.cashierID = uuid.NewString()
}

// --- Test Cases ---

func (suite *DrawerServiceTestSuite) TestOpen_Success() {
	ctx := context.Background()
	opening := decimal.RequireFromString("200000")

	suite.mockDrawerRepo.On("OpenDrawer", ctx, mock.MatchedBy(func(d domain.CashDrawer) bool {
		return d.CashierID == suite.cashierID &&
			d.Status == domain.DrawerOpen &&
			d.OpeningBalance.Equal(opening) &&
			d.CashIn.IsZero() && d.CashOut.IsZero()
	})).Return(nil).Once()

	drawer, err := suite.service.Open(ctx, suite.cashierID, dto.OpenDrawerRequest{OpeningBalance: opening})

	suite.Require().NoError(err)
	suite.Require().NotNil(drawer)
	suite.NotEmpty(drawer.DrawerID)
	suite.True(drawer.ExpectedBalance().Equal(opening))
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestOpen_NegativeBalance() {
	ctx := context.Background()

	_, err := suite.service.Open(ctx, suite.cashierID,
		dto.OpenDrawerRequest{OpeningBalance: decimal.RequireFromString("-100")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "OpenDrawer", mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestOpen_AlreadyOpen() {
	ctx := context.Background()

	suite.mockDrawerRepo.On("OpenDrawer", ctx, mock.AnythingOfType("domain.CashDrawer")).
		Return(apperrors.ErrDrawerAlreadyOpen).Once()

	_, err := suite.service.Open(ctx, suite.cashierID,
		dto.OpenDrawerRequest{OpeningBalance: decimal.RequireFromString("100")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDrawerAlreadyOpen)
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestRecordCashIn_Success() {
	ctx := context.Background()
	drawerID := uuid.NewString()
	amount := decimal.RequireFromString("50000")

	suite.mockDrawerRepo.On("RecordEntry", ctx, mock.MatchedBy(func(e domain.DrawerEntry) bool {
		return e.DrawerID == drawerID &&
			e.EntryType == domain.EntryCashIn &&
			e.ReferenceType == domain.DrawerRefManual &&
			e.Amount.Equal(amount) &&
			e.CreatedBy == suite.cashierID
	})).Return(&domain.CashDrawer{DrawerID: drawerID, CashIn: amount}, nil).Once()

	drawer, err := suite.service.RecordCashIn(ctx, drawerID,
		dto.CashEntryRequest{Amount: amount, Notes: "change float top-up"}, suite.cashierID)

	suite.Require().NoError(err)
	suite.True(drawer.CashIn.Equal(amount))
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestRecordCashOut_Success() {
	ctx := context.Background()
	drawerID := uuid.NewString()
	amount := decimal.RequireFromString("25000")

	suite.mockDrawerRepo.On("RecordEntry", ctx, mock.MatchedBy(func(e domain.DrawerEntry) bool {
		return e.EntryType == domain.EntryCashOut && e.Amount.Equal(amount)
	})).Return(&domain.CashDrawer{DrawerID: drawerID, CashOut: amount}, nil).Once()

	drawer, err := suite.service.RecordCashOut(ctx, drawerID,
		dto.CashEntryRequest{Amount: amount}, suite.cashierID)

	suite.Require().NoError(err)
	suite.True(drawer.CashOut.Equal(amount))
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestRecordEntry_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.RecordCashIn(ctx, uuid.NewString(),
		dto.CashEntryRequest{Amount: decimal.Zero}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "RecordEntry", mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestRecordEntry_ClosedDrawer() {
	ctx := context.Background()

	suite.mockDrawerRepo.On("RecordEntry", ctx, mock.AnythingOfType("domain.DrawerEntry")).
		Return(nil, apperrors.ErrInvalidState).Once()

	_, err := suite.service.RecordCashOut(ctx, uuid.NewString(),
		dto.CashEntryRequest{Amount: decimal.RequireFromString("100")}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestClose_Success() {
	ctx := context.Background()
	drawerID := uuid.NewString()
	counted := decimal.RequireFromString("495000")
	closedAt := time.Now()
	closed := &domain.CashDrawer{
		DrawerID:       drawerID,
		CashierID:      suite.cashierID,
		OpeningBalance: decimal.RequireFromString("200000"),
		CashIn:         decimal.RequireFromString("300000"),
		CashOut:        decimal.RequireFromString("0"),
		CountedAmount:  counted,
		Difference:     decimal.RequireFromString("-5000"),
		Status:         domain.DrawerClosed,
		ClosedAt:       &closedAt,
	}

	suite.mockDrawerRepo.On("CloseDrawer", ctx, drawerID, counted, "shortfall", suite.cashierID).
		Return(closed, nil).Once()

	drawer, err := suite.service.Close(ctx, drawerID,
		dto.CloseDrawerRequest{CountedAmount: counted, Notes: "shortfall"}, suite.cashierID)

	suite.Require().NoError(err)
	suite.Equal(domain.DrawerClosed, drawer.Status)
	suite.True(drawer.Difference.Equal(decimal.RequireFromString("-5000")))
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestClose_NegativeCounted() {
	ctx := context.Background()

	_, err := suite.service.Close(ctx, uuid.NewString(),
		dto.CloseDrawerRequest{CountedAmount: decimal.RequireFromString("-1")}, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "CloseDrawer",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestListEntries_DrawerNotFound() {
	ctx := context.Background()
	drawerID := uuid.NewString()

	suite.mockDrawerRepo.On("FindDrawerByID", ctx, drawerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListEntries(ctx, drawerID, 20, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "ListEntriesByDrawer",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestListEntries_Success() {
	ctx := context.Background()
	drawerID := uuid.NewString()
	entries := []domain.DrawerEntry{
		{EntryID: uuid.NewString(), DrawerID: drawerID, EntryType: domain.EntryCashIn, Amount: decimal.RequireFromString("1000")},
	}

	suite.mockDrawerRepo.On("FindDrawerByID", ctx, drawerID).
		Return(&domain.CashDrawer{DrawerID: drawerID}, nil).Once()
	suite.mockDrawerRepo.On("ListEntriesByDrawer", ctx, drawerID, 20, (*string)(nil)).
		Return(entries, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, drawerID, 20, nil)

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestDrawerService(t *testing.T) {
	suite.Run(t, new(DrawerServiceTestSuite))
}
