package handler

import (
	"net/http"
	"time"

	appbilling "github.com/courierhq/billing/internal/application/billing"
	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/courierhq/billing/internal/infrastructure/logger"
	"github.com/courierhq/billing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionHandler handles billing transaction API endpoints
type TransactionHandler struct {
	service *appbilling.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *appbilling.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// RecordTransactionRequest is the request body for recording a billed
// message. Missing or invalid required fields fail the request with an
// empty 400 response.
type RecordTransactionRequest struct {
	AccountNumber    string  `json:"account_number" binding:"required"`
	MessageID        string  `json:"message_id" binding:"required"`
	TagPoolName      string  `json:"tag_pool_name" binding:"required"`
	TagName          string  `json:"tag_name" binding:"required"`
	Provider         *string `json:"provider"`
	MessageDirection string  `json:"message_direction" binding:"required,oneof=Inbound Outbound"`
	SessionCreated   bool    `json:"session_created"`
	TransactionType  string  `json:"transaction_type" binding:"omitempty,oneof=Message"`
}

// TransactionResponse is the wire representation of a ledger entry.
// Decimal fields are serialized as strings so amounts round-trip exactly.
type TransactionResponse struct {
	ID               string          `json:"id"`
	AccountNumber    string          `json:"account_number"`
	MessageID        string          `json:"message_id"`
	TransactionType  string          `json:"transaction_type"`
	TagPoolName      string          `json:"tag_pool_name"`
	TagName          string          `json:"tag_name"`
	Provider         *string         `json:"provider"`
	MessageDirection string          `json:"message_direction"`
	SessionCreated   bool            `json:"session_created"`
	MessageCost      decimal.Decimal `json:"message_cost"`
	StorageCost      decimal.Decimal `json:"storage_cost"`
	SessionCost      decimal.Decimal `json:"session_cost"`
	MarkupPercent    decimal.Decimal `json:"markup_percent"`
	MessageCredits   decimal.Decimal `json:"credit_amount_message"`
	StorageCredits   decimal.Decimal `json:"credit_amount_storage"`
	SessionCredits   decimal.Decimal `json:"credit_amount_session"`
	CreditFactor     decimal.Decimal `json:"credit_factor"`
	CreditAmount     decimal.Decimal `json:"credit_amount"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created"`
	LastModified     time.Time       `json:"last_modified"`
}

// TransactionListQuery binds the query parameters for listing ledger entries
type TransactionListQuery struct {
	AccountNumber string `form:"account_number" binding:"required"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func toTransactionResponse(t *billing.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID.String(),
		AccountNumber:    t.AccountNumber,
		MessageID:        t.MessageID,
		TransactionType:  string(t.TransactionType),
		TagPoolName:      t.TagPoolName,
		TagName:          t.TagName,
		Provider:         t.Provider,
		MessageDirection: t.MessageDirection.String(),
		SessionCreated:   t.SessionCreated,
		MessageCost:      t.MessageCost,
		StorageCost:      t.StorageCost,
		SessionCost:      t.SessionCost,
		MarkupPercent:    t.MarkupPercent,
		MessageCredits:   t.MessageCredits,
		StorageCredits:   t.StorageCredits,
		SessionCredits:   t.SessionCredits,
		CreditFactor:     t.CreditFactor,
		CreditAmount:     t.CreditAmount,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
		LastModified:     t.UpdatedAt,
	}
}

// Record debits one billed message against its account. Responds 200 with
// the persisted ledger entry, an empty 400 on malformed or incomplete
// requests, or a plain-text 500 when billing fails.
func (h *TransactionHandler) Record(c *gin.Context) {
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetGinLogger(c).Debug("Rejected transaction request",
			zap.String("reason", middleware.DescribeBindingError(err)))
		c.Status(http.StatusBadRequest)
		return
	}

	tx, err := h.service.Record(c.Request.Context(), appbilling.RecordRequest{
		AccountNumber:    req.AccountNumber,
		MessageID:        req.MessageID,
		TagPoolName:      req.TagPoolName,
		TagName:          req.TagName,
		Provider:         req.Provider,
		MessageDirection: billing.MessageDirection(req.MessageDirection),
		SessionCreated:   req.SessionCreated,
		TransactionType:  billing.TransactionType(req.TransactionType),
	})
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// List returns the ledger entries for an account, newest first
func (h *TransactionHandler) List(c *gin.Context) {
	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.GetGinLogger(c).Debug("Rejected transaction query",
			zap.String("reason", middleware.DescribeBindingError(err)))
		c.Status(http.StatusBadRequest)
		return
	}

	page, err := h.service.List(c.Request.Context(), query.AccountNumber, shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]TransactionResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toTransactionResponse(&page.Items[i])
	}

	c.JSON(http.StatusOK, shared.Paginated[TransactionResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transactions", h.Record)
	rg.GET("/transactions", h.List)
}
