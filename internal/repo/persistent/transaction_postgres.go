package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/pkg/postgres"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	transactionsTable = "transactions"

	// Columns
	transactionIDColumn = "transaction_id"
	customerIDColumn    = "customer_id"
	amountColumn        = "amount"
	merchantColumn      = "merchant"
	categoryColumn      = "category"
	timestampMsColumn   = "timestamp_ms"
	locationColumn      = "location"
	cardLast4Column     = "card_last4"
)

// TransactionRepo is the canonical document store. The writer is the
// immutable event itself, so an upsert replay is a no-op in effect.
type TransactionRepo struct {
	*postgres.Postgres
}

func NewTransactionRepo(pg *postgres.Postgres) *TransactionRepo {
	return &TransactionRepo{pg}
}

func (r *TransactionRepo) Upsert(ctx context.Context, tx *entity.Transaction) error {
	sql, args, err := r.Builder.
		Insert(transactionsTable).
		Columns(
			transactionIDColumn,
			customerIDColumn,
			amountColumn,
			merchantColumn,
			categoryColumn,
			timestampMsColumn,
			locationColumn,
			cardLast4Column,
		).
		Values(
			tx.TransactionID,
			tx.CustomerID,
			tx.Amount,
			tx.Merchant,
			string(tx.Category),
			tx.Timestamp,
			tx.Location,
			tx.CardLast4,
		).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			transactionIDColumn,
			customerIDColumn, customerIDColumn,
			amountColumn, amountColumn,
			merchantColumn, merchantColumn,
			categoryColumn, categoryColumn,
			timestampMsColumn, timestampMsColumn,
			locationColumn, locationColumn,
			cardLast4Column, cardLast4Column,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("TransactionRepo - Upsert - r.Builder.ToSql: %w", err)
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("TransactionRepo - Upsert - r.Pool.Exec: %w", err)
	}

	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	sql, args, err := r.selectTransactions().
		Where(squirrel.Eq{transactionIDColumn: transactionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TransactionRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	var tx entity.Transaction
	err = r.Pool.QueryRow(ctx, sql, args...).Scan(
		&tx.TransactionID,
		&tx.CustomerID,
		&tx.Amount,
		&tx.Merchant,
		&tx.Category,
		&tx.Timestamp,
		&tx.Location,
		&tx.CardLast4,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("TransactionRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("TransactionRepo - GetByID - r.Pool.QueryRow: %w", err)
	}

	return &tx, nil
}

// GetByIDs returns the records for the requested IDs, preserving the request
// order and omitting misses.
func (r *TransactionRepo) GetByIDs(ctx context.Context, transactionIDs []string) ([]entity.Transaction, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.selectTransactions().
		Where(squirrel.Eq{transactionIDColumn: transactionIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TransactionRepo - GetByIDs - r.Builder.ToSql: %w", err)
	}

	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("TransactionRepo - GetByIDs - r.Pool.Query: %w", err)
	}
	defer rows.Close()

	found := make(map[string]entity.Transaction, len(transactionIDs))
	for rows.Next() {
		var tx entity.Transaction
		err = rows.Scan(
			&tx.TransactionID,
			&tx.CustomerID,
			&tx.Amount,
			&tx.Merchant,
			&tx.Category,
			&tx.Timestamp,
			&tx.Location,
			&tx.CardLast4,
		)
		if err != nil {
			return nil, fmt.Errorf("TransactionRepo - GetByIDs - rows.Scan: %w", err)
		}

		found[tx.TransactionID] = tx
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("TransactionRepo - GetByIDs - rows.Err: %w", err)
	}

	return orderByRequested(transactionIDs, found), nil
}

func (r *TransactionRepo) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.Builder.
		Select("COUNT(*)").
		From(transactionsTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("TransactionRepo - Count - r.Builder.ToSql: %w", err)
	}

	var count int64
	err = r.Pool.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("TransactionRepo - Count - r.Pool.QueryRow: %w", err)
	}

	return count, nil
}

func (r *TransactionRepo) selectTransactions() squirrel.SelectBuilder {
	return r.Builder.
		Select(
			transactionIDColumn,
			customerIDColumn,
			amountColumn,
			merchantColumn,
			categoryColumn,
			timestampMsColumn,
			locationColumn,
			cardLast4Column,
		).
		From(transactionsTable)
}

// orderByRequested reorders the fetched records to the requested ID order,
// keeping the first occurrence of a repeated ID and skipping misses.
func orderByRequested(requested []string, found map[string]entity.Transaction) []entity.Transaction {
	result := make([]entity.Transaction, 0, len(found))
	seen := make(map[string]struct{}, len(requested))

	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if tx, ok := found[id]; ok {
			result = append(result, tx)
		}
	}

	return result
}
