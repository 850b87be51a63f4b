// Package postgres is the production Store (spec §4.A), backed by pgx. The
// compare-and-swap account update is the load-bearing piece: it is a single
// conditional UPDATE, never a read-then-write, so the database itself is
// the arbiter of whether a version conflict occurred.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
	"corebank/internal/store"
)

// Store is a pgx-backed implementation of store.Store.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		poolConfig.MaxConnLifetime = lifetime
	}
	if health, err := time.ParseDuration(cfg.HealthCheckPeriod); err == nil {
		poolConfig.HealthCheckPeriod = health
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	pgxTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &tx{pgx: pgxTx}, nil
}

type tx struct {
	pgx pgx.Tx
}

func (t *tx) FindAccountByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return t.scanAccount(ctx, `
		SELECT id, account_number, user_id, type, status, balance_cents, currency, version, created_at
		FROM accounts WHERE id = $1`, id)
}

func (t *tx) FindAccountByNumber(ctx context.Context, number string) (*ledger.Account, error) {
	return t.scanAccount(ctx, `
		SELECT id, account_number, user_id, type, status, balance_cents, currency, version, created_at
		FROM accounts WHERE account_number = $1`, number)
}

func (t *tx) scanAccount(ctx context.Context, query string, arg any) (*ledger.Account, error) {
	var acc ledger.Account
	var balanceCents int64
	err := t.pgx.QueryRow(ctx, query, arg).Scan(
		&acc.ID, &acc.AccountNumber, &acc.UserID, &acc.Type, &acc.Status,
		&balanceCents, &acc.Currency, &acc.Version, &acc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading account: %w", err)
	}
	acc.CachedBalance = money.FromCents(balanceCents)
	return &acc, nil
}

// UpdateAccount issues the compare-and-swap update: the WHERE clause pins
// both the account id and the version the caller read. If no row matches —
// because another writer already advanced the version and committed before
// this statement ran — RowsAffected is 0 and we report ErrVersionConflict
// without touching anything else. Under RepeatableRead a concurrent writer
// that is still in-flight on the same row instead aborts this statement with
// SQLSTATE 40001 ("could not serialize access"), or 40P01 on deadlock; both
// are the same lost-update race caught by a different mechanism, so they map
// to ErrVersionConflict too and drive the same retry.
func (t *tx) UpdateAccount(ctx context.Context, acc *ledger.Account, expectedVersion int64) error {
	tag, err := t.pgx.Exec(ctx, `
		UPDATE accounts
		SET balance_cents = $1, version = version + 1
		WHERE id = $2 AND version = $3`,
		acc.CachedBalance.Cents(), acc.ID, expectedVersion,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return store.ErrVersionConflict
		}
		return fmt.Errorf("updating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrVersionConflict
	}
	acc.Version = expectedVersion + 1
	return nil
}

func (t *tx) InsertJournalEntry(ctx context.Context, entry *ledger.JournalEntry) error {
	_, err := t.pgx.Exec(ctx, `
		INSERT INTO journal_entries
			(id, account_id, amount_cents, kind, status, balance_after_cents, transfer_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.AccountID, entry.Amount.Cents(), entry.Kind, entry.Status,
		entry.BalanceAfter.Cents(), entry.TransferID, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

func (t *tx) SumCompletedJournalEntries(ctx context.Context, accountID uuid.UUID) (int64, int, error) {
	var sum int64
	var count int
	err := t.pgx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
		FROM journal_entries
		WHERE account_id = $1 AND status = $2`,
		accountID, ledger.EntryStatusCompleted,
	).Scan(&sum, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("summing journal entries: %w", err)
	}
	return sum, count, nil
}

func (t *tx) InsertTransfer(ctx context.Context, tr *ledger.TransferRecord) error {
	_, err := t.pgx.Exec(ctx, `
		INSERT INTO transfers
			(id, source_account_id, destination_account_id, amount_cents, currency,
			 status, description, operation_key, failure_reason, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tr.ID, tr.SourceAccountID, tr.DestinationAccountID, tr.Amount.Cents(), tr.Currency,
		tr.Status, tr.Description, tr.OperationKey, tr.FailureReason, tr.CreatedAt, tr.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateTransferKey
		}
		return fmt.Errorf("inserting transfer: %w", err)
	}
	return nil
}

func (t *tx) FindTransferByOperationKey(ctx context.Context, operationKey string) (*ledger.TransferRecord, error) {
	var tr ledger.TransferRecord
	var amountCents int64
	err := t.pgx.QueryRow(ctx, `
		SELECT id, source_account_id, destination_account_id, amount_cents, currency,
		       status, description, operation_key, failure_reason, created_at, completed_at
		FROM transfers WHERE operation_key = $1`, operationKey,
	).Scan(
		&tr.ID, &tr.SourceAccountID, &tr.DestinationAccountID, &amountCents, &tr.Currency,
		&tr.Status, &tr.Description, &tr.OperationKey, &tr.FailureReason, &tr.CreatedAt, &tr.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading transfer: %w", err)
	}
	tr.Amount = money.FromCents(amountCents)
	return &tr, nil
}

func (t *tx) FindIdempotencyRecord(ctx context.Context, key string, userID uuid.UUID) (*ledger.IdempotencyRecord, error) {
	var rec ledger.IdempotencyRecord
	err := t.pgx.QueryRow(ctx, `
		SELECT operation_key, user_id, path, completed, response_body, created_at, updated_at
		FROM idempotency_records WHERE operation_key = $1 AND user_id = $2`, key, userID,
	).Scan(&rec.OperationKey, &rec.UserID, &rec.Path, &rec.Completed, &rec.ResponseBody, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading idempotency record: %w", err)
	}
	return &rec, nil
}

func (t *tx) InsertIdempotencyPlaceholder(ctx context.Context, key string, userID uuid.UUID, path string, now time.Time) error {
	_, err := t.pgx.Exec(ctx, `
		INSERT INTO idempotency_records (operation_key, user_id, path, completed, response_body, created_at, updated_at)
		VALUES ($1, $2, $3, false, NULL, $4, $4)`,
		key, userID, path, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrIdempotencyConflict
		}
		return fmt.Errorf("inserting idempotency placeholder: %w", err)
	}
	return nil
}

func (t *tx) UpsertIdempotencyRecord(ctx context.Context, rec *ledger.IdempotencyRecord) error {
	_, err := t.pgx.Exec(ctx, `
		INSERT INTO idempotency_records (operation_key, user_id, path, completed, response_body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (operation_key, user_id) DO UPDATE
		SET completed = EXCLUDED.completed, response_body = EXCLUDED.response_body, updated_at = EXCLUDED.updated_at`,
		rec.OperationKey, rec.UserID, rec.Path, rec.Completed, rec.ResponseBody, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting idempotency record: %w", err)
	}
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.pgx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	err := t.pgx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && pgxPgErrorCode(err) == "23505"
}

// isSerializationFailure reports whether err is a Postgres abort caused by a
// concurrent transaction racing the same row: 40001 under RepeatableRead/
// Serializable, or 40P01 when the two transactions deadlock against each
// other instead.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	code := pgxPgErrorCode(err)
	return code == "40001" || code == "40P01"
}
