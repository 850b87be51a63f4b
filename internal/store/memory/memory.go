// Package memory is an in-process Store implementation used by unit and
// property tests (spec §9 "Polymorphism": the store interface exists
// specifically so the engine can be exercised without a database). It
// gives the same compare-and-swap and transactional-rollback guarantees as
// the Postgres store, just backed by maps and a mutex instead of SQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/ledger"
	"corebank/internal/store"
)

// Store is a goroutine-safe in-memory implementation of store.Store.
type Store struct {
	mu sync.Mutex

	accounts     map[uuid.UUID]*ledger.Account
	byNumber     map[string]uuid.UUID
	journal      []*ledger.JournalEntry
	transfers    map[uuid.UUID]*ledger.TransferRecord
	byOpKey      map[string]uuid.UUID
	idempotency  map[string]*ledger.IdempotencyRecord // key: operationKey+"|"+userID
}

func New() *Store {
	return &Store{
		accounts:    make(map[uuid.UUID]*ledger.Account),
		byNumber:    make(map[string]uuid.UUID),
		transfers:   make(map[uuid.UUID]*ledger.TransferRecord),
		byOpKey:     make(map[string]uuid.UUID),
		idempotency: make(map[string]*ledger.IdempotencyRecord),
	}
}

// SeedAccount installs an account directly, bypassing any transaction. It
// exists only for test setup.
func (s *Store) SeedAccount(acc ledger.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := acc
	s.accounts[acc.ID] = &cp
	s.byNumber[acc.AccountNumber] = acc.ID
}

func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	return &tx{s: s}, nil
}

func idemKey(key string, userID uuid.UUID) string {
	return key + "|" + userID.String()
}

// tx is a snapshot-isolated view over the Store: reads inside the
// transaction see a consistent snapshot of the accounts taken on the
// transaction's first account access, and writes are
// buffered until Commit. This mirrors "repeatable read" semantics without
// needing real MVCC (spec §5).
type tx struct {
	s *Store

	accountsSnapshot map[uuid.UUID]ledger.Account
	pendingAccounts  map[uuid.UUID]ledger.Account
	pendingVersions  map[uuid.UUID]int64 // version each pending account was read at, re-checked at Commit
	pendingJournal   []*ledger.JournalEntry
	pendingTransfers []*ledger.TransferRecord
	pendingIdemp     []*ledger.IdempotencyRecord
	done             bool
}

func (t *tx) snapshot() {
	if t.accountsSnapshot != nil {
		return
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.accountsSnapshot = make(map[uuid.UUID]ledger.Account, len(t.s.accounts))
	for id, acc := range t.s.accounts {
		t.accountsSnapshot[id] = *acc
	}
	t.pendingAccounts = make(map[uuid.UUID]ledger.Account)
	t.pendingVersions = make(map[uuid.UUID]int64)
}

func (t *tx) FindAccountByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	t.snapshot()
	if acc, ok := t.pendingAccounts[id]; ok {
		cp := acc
		return &cp, nil
	}
	acc, ok := t.accountsSnapshot[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := acc
	return &cp, nil
}

func (t *tx) FindAccountByNumber(ctx context.Context, number string) (*ledger.Account, error) {
	t.snapshot()
	t.s.mu.Lock()
	id, ok := t.s.byNumber[number]
	t.s.mu.Unlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return t.FindAccountByID(ctx, id)
}

// UpdateAccount stages the update and records the version it was based on.
// This check is only a fast, optimistic rejection within this transaction's
// own view: since the write is buffered until Commit, a genuine compare-
// and-swap against the committed store happens again there, under the lock
// that performs the write, so two transactions racing on the same account
// cannot both stage a write against the same base version and both commit.
func (t *tx) UpdateAccount(ctx context.Context, acc *ledger.Account, expectedVersion int64) error {
	t.snapshot()
	t.s.mu.Lock()
	current, ok := t.s.accounts[acc.ID]
	t.s.mu.Unlock()
	if !ok {
		return store.ErrNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	updated := *acc
	updated.Version = expectedVersion + 1
	t.pendingAccounts[acc.ID] = updated
	t.pendingVersions[acc.ID] = expectedVersion
	return nil
}

func (t *tx) InsertJournalEntry(ctx context.Context, entry *ledger.JournalEntry) error {
	t.snapshot()
	cp := *entry
	t.pendingJournal = append(t.pendingJournal, &cp)
	return nil
}

func (t *tx) SumCompletedJournalEntries(ctx context.Context, accountID uuid.UUID) (int64, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var sum int64
	var count int
	for _, e := range t.s.journal {
		if e.AccountID == accountID && e.Status == ledger.EntryStatusCompleted {
			sum += e.Amount.Cents()
			count++
		}
	}
	for _, e := range t.pendingJournal {
		if e.AccountID == accountID && e.Status == ledger.EntryStatusCompleted {
			sum += e.Amount.Cents()
			count++
		}
	}
	return sum, count, nil
}

func (t *tx) InsertTransfer(ctx context.Context, tr *ledger.TransferRecord) error {
	t.s.mu.Lock()
	_, exists := t.s.byOpKey[tr.OperationKey]
	t.s.mu.Unlock()
	if exists {
		return store.ErrDuplicateTransferKey
	}
	for _, pending := range t.pendingTransfers {
		if pending.OperationKey == tr.OperationKey {
			return store.ErrDuplicateTransferKey
		}
	}
	cp := *tr
	t.pendingTransfers = append(t.pendingTransfers, &cp)
	return nil
}

func (t *tx) FindTransferByOperationKey(ctx context.Context, operationKey string) (*ledger.TransferRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if id, ok := t.s.byOpKey[operationKey]; ok {
		cp := *t.s.transfers[id]
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (t *tx) FindIdempotencyRecord(ctx context.Context, key string, userID uuid.UUID) (*ledger.IdempotencyRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	rec, ok := t.s.idempotency[idemKey(key, userID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (t *tx) UpsertIdempotencyRecord(ctx context.Context, rec *ledger.IdempotencyRecord) error {
	cp := *rec
	t.pendingIdemp = append(t.pendingIdemp, &cp)
	return nil
}

func (t *tx) InsertIdempotencyPlaceholder(ctx context.Context, key string, userID uuid.UUID, path string, now time.Time) error {
	t.s.mu.Lock()
	_, exists := t.s.idempotency[idemKey(key, userID)]
	t.s.mu.Unlock()
	if exists {
		return store.ErrIdempotencyConflict
	}
	for _, rec := range t.pendingIdemp {
		if rec.OperationKey == key && rec.UserID == userID {
			return store.ErrIdempotencyConflict
		}
	}
	t.pendingIdemp = append(t.pendingIdemp, &ledger.IdempotencyRecord{
		OperationKey: key,
		UserID:       userID,
		Path:         path,
		Completed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	// Re-verify every account this tx touched against the committed store,
	// under the same lock that is about to apply the write. Without this,
	// a second transaction that read the same pre-update version between
	// this tx's UpdateAccount call and its Commit would stage its own
	// update on top of the same base version and clobber this one (the
	// lost update the version check exists to prevent).
	for id, baseVersion := range t.pendingVersions {
		current, ok := t.s.accounts[id]
		if !ok {
			t.done = true
			return store.ErrNotFound
		}
		if current.Version != baseVersion {
			t.done = true
			return store.ErrVersionConflict
		}
	}
	// Staged transfer keys and idempotency placeholders are re-checked for
	// the same reason: another transaction may have committed the same key
	// after this one staged it.
	for _, tr := range t.pendingTransfers {
		if _, exists := t.s.byOpKey[tr.OperationKey]; exists {
			t.done = true
			return store.ErrDuplicateTransferKey
		}
	}
	for _, rec := range t.pendingIdemp {
		if _, exists := t.s.idempotency[idemKey(rec.OperationKey, rec.UserID)]; exists && !rec.Completed {
			t.done = true
			return store.ErrIdempotencyConflict
		}
	}

	for id, acc := range t.pendingAccounts {
		cp := acc
		t.s.accounts[id] = &cp
	}
	t.s.journal = append(t.s.journal, t.pendingJournal...)
	for _, tr := range t.pendingTransfers {
		t.s.transfers[tr.ID] = tr
		t.s.byOpKey[tr.OperationKey] = tr.ID
	}
	for _, rec := range t.pendingIdemp {
		t.s.idempotency[idemKey(rec.OperationKey, rec.UserID)] = rec
	}

	t.done = true
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}
