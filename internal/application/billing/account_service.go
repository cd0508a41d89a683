package billing

import (
	"context"

	"github.com/courierhq/billing/internal/domain/billing"
)

// AccountService exposes read access to billing accounts
type AccountService struct {
	accountRepo billing.AccountRepository
}

// NewAccountService creates an AccountService
func NewAccountService(accountRepo billing.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Get returns the account for the given account number, or
// billing.ErrAccountNotFound.
func (s *AccountService) Get(ctx context.Context, accountNumber string) (*billing.Account, error) {
	return s.accountRepo.FindByNumber(ctx, accountNumber)
}
