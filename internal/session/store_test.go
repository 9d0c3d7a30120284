package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/types"
)

func turn(role, text string) types.Turn {
	return types.Turn{Role: role, Text: text}
}

func TestMemoryStore_UnknownSessionIsNotFound(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_, err := s.History(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_AppendCreatesSession(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	err := s.Append(ctx, "abc",
		turn(types.RoleUser, "hello"),
		turn(types.RoleModel, "hi there"))
	require.NoError(t, err)

	history, err := s.History(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, "hi there", history[1].Text)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "hello")))

	history, err := s.History(ctx, "abc")
	require.NoError(t, err)
	history[0].Text = "mutated"

	again, err := s.History(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hello", again[0].Text)
}

func TestMemoryStore_ResetDropsTranscript(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "hello")))
	require.NoError(t, s.Reset(ctx, "abc"))

	_, err := s.History(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	// resetting again stays a no-op
	assert.NoError(t, s.Reset(ctx, "abc"))
}

func TestMemoryStore_SessionsExpire(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "hello")))

	current = current.Add(30 * time.Second)
	_, err := s.History(ctx, "abc")
	assert.NoError(t, err, "still live inside the ttl")

	current = current.Add(2 * time.Minute)
	_, err = s.History(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_AppendRefreshesExpiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "one")))
	current = current.Add(45 * time.Second)
	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "two")))
	current = current.Add(45 * time.Second)

	// 90s after creation but only 45s after last activity
	history, err := s.History(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	current := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Append(ctx, "abc", turn(types.RoleUser, "hello")))
	current = current.Add(365 * 24 * time.Hour)

	_, err := s.History(ctx, "abc")
	assert.NoError(t, err)
	assert.Empty(t, s.Sweep())
}

func TestMemoryStore_SweepEvictsOnlyExpired(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Append(ctx, "old", turn(types.RoleUser, "hello")))
	current = current.Add(2 * time.Minute)
	require.NoError(t, s.Append(ctx, "fresh", turn(types.RoleUser, "hello")))

	assert.Equal(t, []string{"old"}, s.Sweep())

	_, err := s.History(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.History(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStore_SessionsAreIndependent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", turn(types.RoleUser, "for a")))
	require.NoError(t, s.Append(ctx, "b", turn(types.RoleUser, "for b")))
	require.NoError(t, s.Reset(ctx, "a"))

	history, err := s.History(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "for b", history[0].Text)
}
