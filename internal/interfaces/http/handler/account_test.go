package handler

import (
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
)

func setupAccountTestRouter(t *testing.T) (*gin.Engine, *MockAccountRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := new(MockAccountRepository)
	handler := NewAccountHandler(appbilling.NewAccountService(repo))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/"))
	return router, repo
}

func TestAccountHandler_Get(t *testing.T) {
	t.Run("returns the account", func(t *testing.T) {
		router, repo := setupAccountTestRouter(t)

		repo.On("FindByNumber", mock.Anything, "acc-0001").
			Return(&billing.Account{
				BaseEntity:       shared.NewBaseEntity(),
				AccountNumber:    "acc-0001",
				Description:      "courier account",
				CreditBalance:    decimal.RequireFromString("42.5"),
				LastTopupBalance: decimal.NewFromInt(100),
			}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/acc-0001", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "acc-0001", resp.AccountNumber)
		assert.True(t, resp.CreditBalance.Equal(decimal.RequireFromString("42.5")))
	})

	t.Run("unknown account responds 404", func(t *testing.T) {
		router, repo := setupAccountTestRouter(t)

		repo.On("FindByNumber", mock.Anything, "nope").
			Return(nil, billing.ErrAccountNotFound)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ACCOUNT_NOT_FOUND")
	})
}
