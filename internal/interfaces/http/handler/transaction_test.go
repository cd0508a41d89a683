package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appbilling "github.com/courierhq/billing/internal/application/billing"
	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mocks

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*billing.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Account), args.Error(1)
}

func (m *MockAccountRepository) LockForDebit(ctx context.Context, accountNumber string) (*billing.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountNumber, amount)
	return args.Error(0)
}

type MockCostRuleRepository struct {
	mock.Mock
}

func (m *MockCostRuleRepository) FindMatching(ctx context.Context, ev billing.BillableEvent) ([]billing.CostRule, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CostRule), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *billing.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByAccount(ctx context.Context, accountNumber string, filter shared.Filter) ([]billing.Transaction, int64, error) {
	args := m.Called(ctx, accountNumber, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Transaction), args.Get(1).(int64), args.Error(2)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, accountNumber string, level, creditBalance decimal.Decimal) error {
	args := m.Called(ctx, accountNumber, level, creditBalance)
	return args.Error(0)
}

type fakeScope struct {
	accounts  *MockAccountRepository
	costRules *MockCostRuleRepository
	txs       *MockTransactionRepository
}

func (s *fakeScope) Accounts() billing.AccountRepository         { return s.accounts }
func (s *fakeScope) CostRules() billing.CostRuleRepository       { return s.costRules }
func (s *fakeScope) Transactions() billing.TransactionRepository { return s.txs }

func (s *fakeScope) Execute(ctx context.Context, fn func(repos appbilling.LedgerRepositories) error) error {
	return fn(s)
}

// Test helpers

type handlerFixture struct {
	router    *gin.Engine
	accounts  *MockAccountRepository
	costRules *MockCostRuleRepository
	txs       *MockTransactionRepository
}

func setupTransactionTestRouter(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scope := &fakeScope{
		accounts:  new(MockAccountRepository),
		costRules: new(MockCostRuleRepository),
		txs:       new(MockTransactionRepository),
	}

	converter := billing.NewCreditConverter(decimal.NewFromInt(10), 3)
	thresholds := billing.NewThresholdMap([]int{10, 20, 50})
	detector := billing.NewCrossingDetector(thresholds)

	service := appbilling.NewTransactionService(
		scope, scope.txs, converter, detector,
		new(MockDispatcher), false, zap.NewNop(),
	)
	handler := NewTransactionHandler(service)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/"))

	return &handlerFixture{
		router:    router,
		accounts:  scope.accounts,
		costRules: scope.costRules,
		txs:       scope.txs,
	}
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validRecordBody() map[string]any {
	return map[string]any{
		"account_number":    "acc-0001",
		"message_id":        "msg-1",
		"tag_pool_name":     "pool1",
		"tag_name":          "tag1",
		"message_direction": "Inbound",
	}
}

// Tests

func TestTransactionHandler_Record(t *testing.T) {
	t.Run("debits and returns the ledger entry", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		rule := billing.CostRule{
			BaseEntity:       shared.NewBaseEntity(),
			MessageDirection: billing.DirectionInbound,
			MessageCost:      decimal.RequireFromString("0.05"),
			StorageCost:      decimal.RequireFromString("0.02"),
			MarkupPercent:    decimal.RequireFromString("10"),
		}
		account := &billing.Account{
			BaseEntity:       shared.NewBaseEntity(),
			AccountNumber:    "acc-0001",
			CreditBalance:    decimal.RequireFromString("99.23"),
			LastTopupBalance: decimal.NewFromInt(100),
		}

		f.costRules.On("FindMatching", mock.Anything, mock.Anything).
			Return([]billing.CostRule{rule}, nil)
		f.txs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Transaction")).
			Return(nil)
		f.accounts.On("Debit", mock.Anything, "acc-0001", mock.Anything).
			Return(nil)
		f.accounts.On("LockForDebit", mock.Anything, "acc-0001").
			Return(account, nil)

		w := postJSON(f.router, "/transactions", validRecordBody())

		require.Equal(t, http.StatusOK, w.Code)

		var resp TransactionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "acc-0001", resp.AccountNumber)
		assert.Equal(t, "msg-1", resp.MessageID)
		assert.Equal(t, "Completed", resp.Status)
		assert.True(t, resp.CreditAmount.Equal(decimal.RequireFromString("-0.77")),
			"got credit_amount %s", resp.CreditAmount)
		assert.True(t, resp.MarkupPercent.Equal(decimal.RequireFromString("10")))

		f.accounts.AssertExpectations(t)
		f.txs.AssertExpectations(t)
	})

	t.Run("missing required field responds 400 with empty body", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		body := validRecordBody()
		delete(body, "message_id")

		w := postJSON(f.router, "/transactions", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unknown direction responds 400 with empty body", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		body := validRecordBody()
		body["message_direction"] = "Sideways"

		w := postJSON(f.router, "/transactions", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("malformed JSON responds 400 with empty body", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("billing failure responds 500 with plain error text", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		f.costRules.On("FindMatching", mock.Anything, mock.Anything).
			Return([]billing.CostRule{}, nil)

		w := postJSON(f.router, "/transactions", validRecordBody())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "No cost rule")
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	})
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("lists ledger entries for an account", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		entry := billing.Transaction{
			BaseEntity:       shared.NewBaseEntity(),
			AccountNumber:    "acc-0001",
			MessageID:        "msg-1",
			TransactionType:  billing.TransactionTypeMessage,
			TagPoolName:      "pool1",
			TagName:          "tag1",
			MessageDirection: billing.DirectionInbound,
			CreditAmount:     decimal.RequireFromString("-0.77"),
			Status:           billing.StatusCompleted,
		}
		f.txs.On("FindByAccount", mock.Anything, "acc-0001",
			shared.Filter{Page: 1, PageSize: 20}).
			Return([]billing.Transaction{entry}, int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?account_number=acc-0001", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var page shared.Paginated[TransactionResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "msg-1", page.Items[0].MessageID)
	})

	t.Run("missing account_number responds 400 with empty body", func(t *testing.T) {
		f := setupTransactionTestRouter(t)

		req, _ := http.NewRequest(http.MethodGet, "/transactions", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestTransactionResponse_RoundTrip(t *testing.T) {
	original := TransactionResponse{
		ID:               "550e8400-e29b-41d4-a716-446655440000",
		AccountNumber:    "acc-0001",
		MessageID:        "msg-1",
		TransactionType:  "Message",
		TagPoolName:      "pool1",
		TagName:          "tag1",
		MessageDirection: "Inbound",
		MessageCost:      decimal.RequireFromString("0.05"),
		StorageCost:      decimal.RequireFromString("0.02"),
		MarkupPercent:    decimal.RequireFromString("10"),
		CreditFactor:     decimal.RequireFromString("0.25"),
		CreditAmount:     decimal.RequireFromString("-0.018"),
		Status:           "Completed",
	}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded TransactionResponse
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, original.AccountNumber, decoded.AccountNumber)
	assert.Equal(t, original.MessageDirection, decoded.MessageDirection)
	assert.True(t, original.CreditAmount.Equal(decoded.CreditAmount))
	assert.True(t, original.CreditFactor.Equal(decoded.CreditFactor))
	assert.True(t, original.MarkupPercent.Equal(decoded.MarkupPercent))
}
