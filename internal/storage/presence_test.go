package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPresence(t *testing.T) {
	s, _ := setupStorage(t, t.TempDir())
	presence := s.Presence()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, ok := presence.Name(alice)
	assert.False(t, ok)
	assert.False(t, presence.IsOnline(alice))

	require.NoError(t, presence.SetName(ctx, alice, "Alice"))
	require.NoError(t, presence.SetOnline(ctx, alice, true))
	require.NoError(t, presence.SetOnline(ctx, bob, true))

	name, ok := presence.Name(alice)
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
	assert.True(t, presence.IsOnline(alice))

	team := player.NewTeam("Red", []uuid.UUID{alice, bob}, "", presence)
	assert.Equal(t, []uuid.UUID{alice, bob}, team.ConnectedIdentities())

	require.NoError(t, presence.SetOnline(ctx, bob, false))
	assert.Equal(t, []uuid.UUID{alice}, team.ConnectedIdentities())
}

func TestRedisPresence_ConnectionLost(t *testing.T) {
	s, mr := setupStorage(t, t.TempDir())
	presence := s.Presence()
	alice := uuid.New()
	require.NoError(t, presence.SetOnline(context.Background(), alice, true))

	mr.Close()
	assert.False(t, presence.IsOnline(alice))
	_, ok := presence.Name(alice)
	assert.False(t, ok)
}
