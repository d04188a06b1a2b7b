package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/warden/model/session"
	dao "github.com/viant/warden/service/dao/session"
)

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	service := New()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	state := session.New("sess-1", now)
	assert.NoError(t, service.Put(ctx, state))

	loaded, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", loaded.SessionID)
}

func TestGetMissing(t *testing.T) {
	service := New()
	loaded, err := service.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	service := New()

	_, err := service.Get(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	assert.ErrorIs(t, service.Put(ctx, nil), dao.ErrNilState)
	assert.ErrorIs(t, service.Put(ctx, &session.State{}), dao.ErrInvalidID)
	assert.ErrorIs(t, service.Delete(ctx, ""), dao.ErrInvalidID)
}

func TestNoAliasing(t *testing.T) {
	ctx := context.Background()
	service := New()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	state := session.New("sess-1", now)
	assert.NoError(t, service.Put(ctx, state))

	// Mutating the caller's copy must not leak into the store.
	state.RecordBlock(now)

	loaded, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Zero(t, loaded.Review.BlockCount)

	// Mutating a returned copy must not leak either.
	loaded.RecordBlock(now)
	again, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Zero(t, again.Review.BlockCount)
}

func TestListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	service := New()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		state := session.New(string(rune('a'+i))+"-session", now.Add(time.Duration(i)*time.Minute))
		assert.NoError(t, service.Put(ctx, state))
	}

	summaries, err := service.List(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, summaries, 3)
	assert.Equal(t, "e-session", summaries[0].SessionID)
	assert.Equal(t, "d-session", summaries[1].SessionID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	service := New()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, service.Put(ctx, session.New("sess-1", now)))
	assert.NoError(t, service.Delete(ctx, "sess-1"))

	loaded, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, service.Delete(ctx, "sess-1"))
}
