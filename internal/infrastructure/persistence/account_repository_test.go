package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAccountRepository creates a GormAccountRepository with a mocked SQL connection
func newMockAccountRepository(t *testing.T) (*GormAccountRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAccountRepository(gormDB), mock, mockDB
}

func accountRows(accountNumber string, balance, topup string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"account_number", "description", "credit_balance", "last_topup_balance",
	}).AddRow(
		uuid.New(), time.Now(), time.Now(),
		accountNumber, "test account", balance, topup,
	)
}

func TestGormAccountRepository_FindByNumber(t *testing.T) {
	t.Run("finds existing account", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "billing_accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("acc-0001", 1).
			WillReturnRows(accountRows("acc-0001", "100", "100"))

		account, err := repo.FindByNumber(context.Background(), "acc-0001")

		require.NoError(t, err)
		assert.Equal(t, "acc-0001", account.AccountNumber)
		assert.True(t, account.CreditBalance.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrAccountNotFound for missing account", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "billing_accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("nope", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByNumber(context.Background(), "nope")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, billing.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_LockForDebit(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "billing_accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs("acc-0001", 1).
			WillReturnRows(accountRows("acc-0001", "42.5", "100"))

		account, err := repo.LockForDebit(context.Background(), "acc-0001")

		require.NoError(t, err)
		assert.True(t, account.CreditBalance.Equal(decimal.RequireFromString("42.5")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrAccountNotFound when the account vanished", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "billing_accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs("gone", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.LockForDebit(context.Background(), "gone")

		assert.ErrorIs(t, err, billing.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_Debit(t *testing.T) {
	t.Run("subtracts from the balance in the database", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "billing_accounts" SET "credit_balance"=credit_balance - \$1.*WHERE account_number = \$\d`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Debit(context.Background(), "acc-0001", decimal.RequireFromString("0.77"))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrAccountNotFound when no row was updated", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "billing_accounts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Debit(context.Background(), "gone", decimal.NewFromInt(1))

		assert.ErrorIs(t, err, billing.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
