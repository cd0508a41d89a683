package handler

import (
	"errors"
	"net/http"
	"time"

	appbilling "github.com/courierhq/billing/internal/application/billing"
	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler handles billing account API endpoints
type AccountHandler struct {
	service *appbilling.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *appbilling.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// AccountResponse is the wire representation of a billing account
type AccountResponse struct {
	ID               string          `json:"id"`
	AccountNumber    string          `json:"account_number"`
	Description      string          `json:"description"`
	CreditBalance    decimal.Decimal `json:"credit_balance"`
	LastTopupBalance decimal.Decimal `json:"last_topup_balance"`
	CreatedAt        time.Time       `json:"created"`
	LastModified     time.Time       `json:"last_modified"`
}

// Get returns one billing account by account number
func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.service.Get(c.Request.Context(), c.Param("account_number"))
	if err != nil {
		if errors.Is(err, billing.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, billing.ErrAccountNotFound)
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, AccountResponse{
		ID:               account.ID.String(),
		AccountNumber:    account.AccountNumber,
		Description:      account.Description,
		CreditBalance:    account.CreditBalance,
		LastTopupBalance: account.LastTopupBalance,
		CreatedAt:        account.CreatedAt,
		LastModified:     account.UpdatedAt,
	})
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts/:account_number", h.Get)
}
