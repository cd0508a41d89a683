package billing

import "github.com/courierhq/billing/internal/domain/shared"

// Billing domain errors
var (
	// ErrNoCostRule indicates that no cost rule matched a billable event.
	ErrNoCostRule = shared.NewDomainError("NO_COST_RULE", "No cost rule matches the billed event")
	// ErrAccountNotFound indicates the billed account does not exist in the store.
	ErrAccountNotFound = shared.NewDomainError("ACCOUNT_NOT_FOUND", "Billing account not found")
	// ErrInvalidDirection indicates an unknown message direction.
	ErrInvalidDirection = shared.NewDomainError("INVALID_DIRECTION", "Message direction must be Inbound or Outbound")
)
