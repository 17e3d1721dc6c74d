//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bathingculture/books/internal/checkin"
	checkinstore "github.com/bathingculture/books/internal/checkin/store"
	"github.com/bathingculture/books/internal/database"
	"github.com/bathingculture/books/internal/money"
	"github.com/bathingculture/books/internal/transaction"
	transactionstore "github.com/bathingculture/books/internal/transaction/store"
	"github.com/bathingculture/books/internal/user"
	userstore "github.com/bathingculture/books/internal/user/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("books_test"),
		postgres.WithUsername("books"),
		postgres.WithPassword("books"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr))
	// A second run is a no-op.
	require.NoError(t, database.Migrate(connStr))

	db, err := database.New(connStr)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func createUser(t *testing.T, db *sql.DB, username string) *user.User {
	t.Helper()

	u := &user.User{Username: username, PasswordHash: "x"}
	require.NoError(t, userstore.New(db).Create(context.Background(), u))

	return u
}

func TestCheckInStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	karl := createUser(t, db, "karl")
	chang := createUser(t, db, "chang")

	store := checkinstore.New(db)
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, karl.ID, day))

	t.Run("duplicate day", func(t *testing.T) {
		err := store.Insert(ctx, karl.ID, day)
		assert.ErrorIs(t, err, checkin.ErrAlreadyCheckedIn)
	})

	t.Run("same day other partner", func(t *testing.T) {
		assert.NoError(t, store.Insert(ctx, chang.ID, day))
	})

	t.Run("list month", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, karl.ID, day.AddDate(0, 1, 0)))

		checkIns, err := store.ListMonth(ctx, 2024, 6)
		require.NoError(t, err)
		assert.Len(t, checkIns, 2)
	})

	t.Run("count range", func(t *testing.T) {
		count, err := store.CountRange(ctx, karl.ID,
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, karl.ID, day))
		require.NoError(t, store.Delete(ctx, karl.ID, day))

		count, err := store.CountRange(ctx, karl.ID,
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestMarkedTransactionStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	karl := createUser(t, db, "karl")
	chang := createUser(t, db, "chang")

	store := transactionstore.New(db)

	marked := func(txID string, typ transaction.Type, userID *int64) *transaction.Marked {
		return &transaction.Marked{
			AccountNumber:    "2001",
			TransactionID:    txID,
			IsDebit:          true,
			Amount:           money.Amount(120.50),
			CreditedUserID:   userID,
			Type:             typ,
			CounterpartyID:   "acme",
			CounterpartyName: "Acme Corp",
			PostedAt:         time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC),
		}
	}

	t.Run("insert refuses duplicates", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, marked("tx-ins", transaction.TypeExpense, &karl.ID)))

		err := store.Insert(ctx, marked("tx-ins", transaction.TypeExpense, &chang.ID))
		assert.ErrorIs(t, err, transaction.ErrAlreadyMarked)
	})

	t.Run("upsert latest wins", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, marked("tx-ups", transaction.TypeExpense, &karl.ID)))
		require.NoError(t, store.Upsert(ctx, marked("tx-ups", transaction.TypeDeposit, &chang.ID)))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)

		var rows []transaction.Marked
		for _, m := range all {
			if m.TransactionID == "tx-ups" {
				rows = append(rows, m)
			}
		}

		require.Len(t, rows, 1)
		assert.Equal(t, transaction.TypeDeposit, rows[0].Type)
		assert.Equal(t, chang.ID, *rows[0].CreditedUserID)
	})

	t.Run("upsert clears credited partner", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, marked("tx-clear", transaction.TypeExpense, &karl.ID)))
		require.NoError(t, store.Upsert(ctx, marked("tx-clear", transaction.TypeExpense, nil)))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)

		for _, m := range all {
			if m.TransactionID == "tx-clear" {
				assert.Nil(t, m.CreditedUserID)
			}
		}
	})

	t.Run("list by types", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, marked("tx-dist", transaction.TypeDistribution, &karl.ID)))

		rows, err := store.ListByTypes(ctx, []transaction.Type{transaction.TypeDistribution})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "tx-dist", rows[0].TransactionID)
		assert.Equal(t, money.Amount(120.50), rows[0].Amount)
	})
}
