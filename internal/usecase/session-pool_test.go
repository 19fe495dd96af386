package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/iamvkosarev/learning-assistant/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPoolCreateAndGet(t *testing.T) {
	f := newFixture()
	pool := usecase.NewSessionPool(f.chat, 10)

	session := pool.Create(context.Background())
	assert.True(t, strings.HasPrefix(session.ID(), "user_"))

	got, err := pool.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, pool.Delete(session.ID()))
	_, err = pool.Get(session.ID())
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	assert.ErrorIs(t, pool.Delete(session.ID()), usecase.ErrSessionNotFound)
}

func TestSessionPoolGetOrCreate(t *testing.T) {
	f := newFixture()
	pool := usecase.NewSessionPool(f.chat, 10)

	first := pool.GetOrCreate(context.Background(), "telegram_1")
	second := pool.GetOrCreate(context.Background(), "telegram_1")
	assert.Same(t, first, second)
	assert.Equal(t, 1, pool.Len())
}

func TestSessionPoolEvictsLeastRecentlyUsed(t *testing.T) {
	f := newFixture()
	pool := usecase.NewSessionPool(f.chat, 2)

	pool.GetOrCreate(context.Background(), "a")
	pool.GetOrCreate(context.Background(), "b")
	_, err := pool.Get("a")
	require.NoError(t, err)

	pool.GetOrCreate(context.Background(), "c")
	assert.Equal(t, 2, pool.Len())

	_, err = pool.Get("b")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	_, err = pool.Get("a")
	assert.NoError(t, err)
	_, err = pool.Get("c")
	assert.NoError(t, err)
}
