package billing

import (
	"context"
	"fmt"

	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/domain/shared"
	"go.uber.org/zap"
)

// RecordRequest describes one billable event to be debited
type RecordRequest struct {
	AccountNumber    string
	MessageID        string
	TagPoolName      string
	TagName          string
	Provider         *string
	MessageDirection billing.MessageDirection
	SessionCreated   bool
	TransactionType  billing.TransactionType
}

// TransactionService is the billing transaction ledger. Record converts a
// billable event into a persisted debit inside one atomic unit of work and
// hands any threshold crossing to the notification dispatcher after the
// unit of work commits.
type TransactionService struct {
	scope         LedgerScope
	txRepo        billing.TransactionRepository
	converter     *billing.CreditConverter
	detector      *billing.CrossingDetector
	dispatcher    NotificationDispatcher
	notifyEnabled bool
	logger        *zap.Logger
}

// NewTransactionService creates a TransactionService
func NewTransactionService(
	scope LedgerScope,
	txRepo billing.TransactionRepository,
	converter *billing.CreditConverter,
	detector *billing.CrossingDetector,
	dispatcher NotificationDispatcher,
	notifyEnabled bool,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		scope:         scope,
		txRepo:        txRepo,
		converter:     converter,
		detector:      detector,
		dispatcher:    dispatcher,
		notifyEnabled: notifyEnabled,
		logger:        logger,
	}
}

// Record resolves the cost rule for the event, converts it to credits,
// persists the ledger entry and debits the account balance atomically.
// Failure anywhere inside the unit of work rolls back every write. The
// re-read of the account happens under a row lock inside the same store
// transaction, so the balances it returns reflect exactly this debit and
// no concurrent one is lost.
func (s *TransactionService) Record(ctx context.Context, req RecordRequest) (*billing.Transaction, error) {
	if !req.MessageDirection.IsValid() {
		return nil, billing.ErrInvalidDirection
	}

	ev := billing.BillableEvent{
		AccountNumber:    req.AccountNumber,
		TagPoolName:      req.TagPoolName,
		Provider:         req.Provider,
		MessageDirection: req.MessageDirection,
	}

	var (
		tx      *billing.Transaction
		account *billing.Account
	)

	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		rules, err := repos.CostRules().FindMatching(ctx, ev)
		if err != nil {
			return fmt.Errorf("failed to load cost rules: %w", err)
		}

		rule, err := billing.SelectBestRule(rules, ev)
		if err != nil {
			return err
		}

		credits := s.converter.Convert(rule, req.SessionCreated)
		tx = billing.NewTransaction(
			ev, req.MessageID, req.TagName, req.SessionCreated,
			req.TransactionType, rule, credits, s.converter.CreditFactor(),
		)

		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if err := repos.Accounts().Debit(ctx, req.AccountNumber, credits.CreditAmount); err != nil {
			return fmt.Errorf("failed to debit account: %w", err)
		}

		account, err = repos.Accounts().LockForDebit(ctx, req.AccountNumber)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("billing transaction aborted",
			zap.String("account_number", req.AccountNumber),
			zap.String("tag_pool_name", req.TagPoolName),
			zap.String("message_direction", req.MessageDirection.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.notifyIfCrossed(ctx, account, tx)
	return tx, nil
}

// notifyIfCrossed runs crossing detection on the balances captured inside
// the committed unit of work and hands the result to the dispatcher. The
// handoff uses a detached context: the caller giving up on the billing
// request must not cancel an already-committed notification.
func (s *TransactionService) notifyIfCrossed(ctx context.Context, account *billing.Account, tx *billing.Transaction) {
	crossing, crossed := s.detector.Detect(account.CreditBalance, tx.CreditAmount, account.LastTopupBalance)
	if !crossed || !s.notifyEnabled {
		return
	}

	dctx := context.WithoutCancel(ctx)
	if err := s.dispatcher.Dispatch(dctx, account.AccountNumber, crossing.Level, account.CreditBalance); err != nil {
		s.logger.Error("failed to dispatch low-credit notification",
			zap.String("account_number", account.AccountNumber),
			zap.Int("threshold_percent", crossing.Percentage),
			zap.String("credit_balance", account.CreditBalance.String()),
			zap.Error(err),
		)
	}
}

// List returns the ledger entries for an account, newest first
func (s *TransactionService) List(ctx context.Context, accountNumber string, filter shared.Filter) (shared.Paginated[billing.Transaction], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.txRepo.FindByAccount(ctx, accountNumber, filter)
	if err != nil {
		return shared.Paginated[billing.Transaction]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
