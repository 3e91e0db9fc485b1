package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := SignSessionToken("abc-123", "secret", time.Hour)
	require.NoError(t, err)

	sid, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", sid)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignSessionToken("abc-123", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	token, err := SignSessionToken("abc-123", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	type payload struct {
		UserID uint `json:"user_id"`
	}

	found, err := GetJSON(ctx, rdb, "missing", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, "k", payload{UserID: 7}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint(7), got.UserID)

	found, err = TakeJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, mr.Exists("k"))

	require.NoError(t, SetJSON(ctx, rdb, "k", payload{UserID: 8}, time.Minute))
	require.NoError(t, Delete(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
}
