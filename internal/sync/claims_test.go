package sync

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRedisClaimStore_AcquireAndRelease(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisClaimStore(rdb, 30*time.Second)
	ctx := context.Background()

	recordID := uuid.New()
	key := "sync:claim:" + recordID.String()

	mock.ExpectSetNX(key, "claimed", 30*time.Second).SetVal(true)
	ok, err := store.Acquire(ctx, recordID)
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectDel(key).SetVal(1)
	assert.NoError(t, store.Release(ctx, recordID))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClaimStore_AcquireHeld(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisClaimStore(rdb, 30*time.Second)

	recordID := uuid.New()
	key := "sync:claim:" + recordID.String()

	mock.ExpectSetNX(key, "claimed", 30*time.Second).SetVal(false)
	ok, err := store.Acquire(context.Background(), recordID)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
