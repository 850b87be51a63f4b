package engine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransfer_Atomicity exercises spec §8 scenario 3.
func TestTransfer_Atomicity(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	a := seedAccount(s, userID, mustAmount(t, "500.00"))
	b := seedAccount(s, uuid.New(), mustAmount(t, "200.00"))

	result, engErr := eng.Transfer(context.Background(), userID, a.ID, b.ID, mustAmount(t, "150.00"), "k1", "rent")

	require.Nil(t, engErr)
	assert.Equal(t, "350.00", result.SourceBalance.String())
	assert.Equal(t, "350.00", result.DestBalance.String())

	storedA, err := eng.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	storedB, err := eng.AccountByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "350.00", storedA.CachedBalance.String())
	assert.Equal(t, "350.00", storedB.CachedBalance.String())
}

// TestTransfer_Idempotency exercises spec §8 scenario 4: a repeated call
// with the same operation key returns the byte-equal first result and
// debits the source exactly once.
func TestTransfer_Idempotency(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	a := seedAccount(s, userID, mustAmount(t, "500.00"))
	b := seedAccount(s, uuid.New(), mustAmount(t, "0.00"))

	first, engErr := eng.Transfer(context.Background(), userID, a.ID, b.ID, mustAmount(t, "200.00"), "k2", "")
	require.Nil(t, engErr)

	second, engErr := eng.Transfer(context.Background(), userID, a.ID, b.ID, mustAmount(t, "200.00"), "k2", "")
	require.Nil(t, engErr)

	assert.Equal(t, first.TransferID, second.TransferID)
	assert.Equal(t, first.SourceBalance.String(), second.SourceBalance.String())

	storedA, err := eng.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", storedA.CachedBalance.String())
}

func TestTransfer_SelfTransfer(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	a := seedAccount(s, userID, mustAmount(t, "100.00"))

	_, engErr := eng.Transfer(context.Background(), userID, a.ID, a.ID, mustAmount(t, "10.00"), "k3", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "SELF_TRANSFER", string(engErr.Code))
}

func TestTransfer_UnauthorizedSource(t *testing.T) {
	eng, s := newTestEngine()
	owner := uuid.New()
	caller := uuid.New()
	a := seedAccount(s, owner, mustAmount(t, "100.00"))
	b := seedAccount(s, uuid.New(), mustAmount(t, "0.00"))

	_, engErr := eng.Transfer(context.Background(), caller, a.ID, b.ID, mustAmount(t, "10.00"), "k4", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "UNAUTHORIZED_ACCESS", string(engErr.Code))
}

// TestTransfer_ConcurrentFromSameSource exercises spec §8 scenario 6: two
// concurrent transfers from one source to two different destinations both
// succeed, possibly after OCC retries, and conservation holds.
func TestTransfer_ConcurrentFromSameSource(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	a := seedAccount(s, userID, mustAmount(t, "1000.00"))
	b := seedAccount(s, uuid.New(), mustAmount(t, "0.00"))
	c := seedAccount(s, uuid.New(), mustAmount(t, "0.00"))

	done := make(chan *string, 2)
	run := func(destID uuid.UUID, key string) {
		_, engErr := eng.Transfer(context.Background(), userID, a.ID, destID, mustAmount(t, "400.00"), key, "")
		if engErr != nil {
			msg := string(engErr.Code)
			done <- &msg
			return
		}
		done <- nil
	}
	go run(b.ID, "kx")
	go run(c.ID, "ky")

	for i := 0; i < 2; i++ {
		if errCode := <-done; errCode != nil {
			t.Fatalf("unexpected transfer failure: %s", *errCode)
		}
	}

	storedA, err := eng.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	storedB, err := eng.AccountByID(context.Background(), b.ID)
	require.NoError(t, err)
	storedC, err := eng.AccountByID(context.Background(), c.ID)
	require.NoError(t, err)

	assert.Equal(t, "200.00", storedA.CachedBalance.String())
	assert.Equal(t, "400.00", storedB.CachedBalance.String())
	assert.Equal(t, "400.00", storedC.CachedBalance.String())
}

func TestTransfer_DestinationNotFound(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	a := seedAccount(s, userID, mustAmount(t, "100.00"))

	_, engErr := eng.Transfer(context.Background(), userID, a.ID, uuid.New(), mustAmount(t, "10.00"), "k5", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", string(engErr.Code))
}
