package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting_system/internal/domain"
	"voting_system/internal/testutil"
)

func TestTopAndBottomCandidate(t *testing.T) {
	conn := testutil.NewDB(t)
	stats := NewStatistics(conn)
	ctx := context.Background()

	_, err := stats.TopCandidate(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = stats.BottomCandidate(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	category := testutil.CreateCategory(t, conn, "Best Movie")
	a := testutil.CreateCandidate(t, conn, category.ID, "A")
	testutil.CreateCandidate(t, conn, category.ID, "B")
	alice := testutil.CreateUser(t, conn, "alice")
	_, err = NewLedger(conn).SubmitVote(ctx, AsUser(alice), category.ID, a.ID)
	require.NoError(t, err)

	top, err := stats.TopCandidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", top.Name)
	assert.Equal(t, int64(1), top.Votes)
	assert.Equal(t, "Best Movie", top.CategoryName)

	bottom, err := stats.BottomCandidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", bottom.Name)
	assert.Equal(t, int64(0), bottom.Votes)
}

func TestStats(t *testing.T) {
	conn := testutil.NewDB(t)
	stats := NewStatistics(conn)
	ctx := context.Background()

	empty, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalCategories)
	assert.Equal(t, int64(0), empty.TotalVotes)
	assert.Equal(t, NoVotesCategory, empty.TopCategory)

	movies := testutil.CreateCategory(t, conn, "Best Movie")
	songs := testutil.CreateCategory(t, conn, "Best Song")
	testutil.CreateCategory(t, conn, "Best Book")
	m := testutil.CreateCandidate(t, conn, movies.ID, "M")
	s := testutil.CreateCandidate(t, conn, songs.ID, "S")

	noVotes, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), noVotes.TotalCategories)
	assert.Equal(t, NoVotesCategory, noVotes.TopCategory)

	ledger := NewLedger(conn)
	for _, name := range []string{"alice", "bob"} {
		_, err := ledger.SubmitVote(ctx, AsUser(testutil.CreateUser(t, conn, name)), songs.ID, s.ID)
		require.NoError(t, err)
	}
	_, err = ledger.SubmitVote(ctx, AsUser(testutil.CreateUser(t, conn, "carol")), movies.ID, m.ID)
	require.NoError(t, err)

	got, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalCategories)
	assert.Equal(t, int64(3), got.TotalVotes)
	assert.Equal(t, domain.CategoryTally{Name: "Best Song", VoteCount: 2}, got.TopCategory)
}
