package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting_system/internal/domain"
	"voting_system/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	catalog := NewCatalog(testutil.NewDB(t))
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, "  Best Movie ")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Best Movie", category.Name)
	assert.False(t, category.CreatedAt.IsZero())

	_, err = catalog.CreateCategory(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Category name is required", domain.Message(err))
}

func TestListCategoriesNewestFirst(t *testing.T) {
	catalog := NewCatalog(testutil.NewDB(t))
	ctx := context.Background()

	empty, err := catalog.ListCategories(ctx, Page{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"first", "second", "third"} {
		_, err := catalog.CreateCategory(ctx, name)
		require.NoError(t, err)
	}

	all, err := catalog.ListCategories(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Name)

	page, err := catalog.ListCategories(ctx, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Name)

	total, err := catalog.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestUpdateCategory(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ctx := context.Background()
	category := testutil.CreateCategory(t, conn, "Old")

	updated, err := catalog.UpdateCategory(ctx, category.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	// Same name again must still succeed
	_, err = catalog.UpdateCategory(ctx, category.ID, "New")
	require.NoError(t, err)

	_, err = catalog.UpdateCategory(ctx, category.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = catalog.UpdateCategory(ctx, 9999, "Whatever")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ledger := NewLedger(conn)
	ctx := context.Background()

	doomed := testutil.CreateCategory(t, conn, "Doomed")
	kept := testutil.CreateCategory(t, conn, "Kept")
	a := testutil.CreateCandidate(t, conn, doomed.ID, "A")
	k := testutil.CreateCandidate(t, conn, kept.ID, "K")
	alice := testutil.CreateUser(t, conn, "alice")
	_, err := ledger.SubmitVote(ctx, AsUser(alice), doomed.ID, a.ID)
	require.NoError(t, err)
	_, err = ledger.SubmitVote(ctx, AsUser(alice), kept.ID, k.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteCategory(ctx, doomed.ID))

	var n int64
	require.NoError(t, conn.Model(&domain.Vote{}).Where("category_id = ?", doomed.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, conn.Model(&domain.Candidate{}).Where("category_id = ?", doomed.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, conn.Model(&domain.Category{}).Where("id = ?", doomed.ID).Count(&n).Error)
	assert.Zero(t, n)

	require.NoError(t, conn.Model(&domain.Vote{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	// Missing category is a no-op
	require.NoError(t, catalog.DeleteCategory(ctx, doomed.ID))
}

func TestDeleteCategoryIsAtomic(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ctx := context.Background()

	category := testutil.CreateCategory(t, conn, "Interrupted")
	a := testutil.CreateCandidate(t, conn, category.ID, "A")
	alice := testutil.CreateUser(t, conn, "alice")
	_, err := NewLedger(conn).SubmitVote(ctx, AsUser(alice), category.ID, a.ID)
	require.NoError(t, err)

	// Make the final statement fail after votes and candidates are gone
	require.NoError(t, conn.Exec(`
		CREATE TRIGGER block_category_delete BEFORE DELETE ON categories
		BEGIN SELECT RAISE(ABORT, 'blocked'); END`).Error)

	err = catalog.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, domain.ErrStore)

	var votes, candidates int64
	require.NoError(t, conn.Model(&domain.Vote{}).Count(&votes).Error)
	require.NoError(t, conn.Model(&domain.Candidate{}).Count(&candidates).Error)
	assert.Equal(t, int64(1), votes)
	assert.Equal(t, int64(1), candidates)
	testutil.AssertCountersConsistent(t, conn)
}

func TestGetRandomCategory(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ctx := context.Background()

	_, err := catalog.GetRandomCategory(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ids := map[uint]bool{}
	for _, name := range []string{"a", "b", "c"} {
		ids[testutil.CreateCategory(t, conn, name).ID] = true
	}
	for i := 0; i < 10; i++ {
		category, err := catalog.GetRandomCategory(ctx)
		require.NoError(t, err)
		assert.True(t, ids[category.ID])
	}
}

func TestCandidateCRUD(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ctx := context.Background()
	category := testutil.CreateCategory(t, conn, "Best Movie")
	other := testutil.CreateCategory(t, conn, "Best Song")

	_, err := catalog.CreateCandidate(ctx, category.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = catalog.CreateCandidate(ctx, 9999, "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a, err := catalog.CreateCandidate(ctx, category.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Votes)
	_, err = catalog.CreateCandidate(ctx, category.ID, "B")
	require.NoError(t, err)

	list, err := catalog.ListCandidates(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)

	none, err := catalog.ListCandidates(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)

	renamed, err := catalog.UpdateCandidate(ctx, category.ID, a.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A2", renamed.Name)

	_, err = catalog.UpdateCandidate(ctx, other.ID, a.ID, "A3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = catalog.UpdateCandidate(ctx, category.ID, a.ID, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteCandidateRemovesVotes(t *testing.T) {
	conn := testutil.NewDB(t)
	catalog := NewCatalog(conn)
	ctx := context.Background()
	category := testutil.CreateCategory(t, conn, "Best Movie")
	other := testutil.CreateCategory(t, conn, "Best Song")
	a := testutil.CreateCandidate(t, conn, category.ID, "A")
	alice := testutil.CreateUser(t, conn, "alice")
	_, err := NewLedger(conn).SubmitVote(ctx, AsUser(alice), category.ID, a.ID)
	require.NoError(t, err)

	// Wrong category leaves everything in place
	require.NoError(t, catalog.DeleteCandidate(ctx, other.ID, a.ID))
	var n int64
	require.NoError(t, conn.Model(&domain.Vote{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, catalog.DeleteCandidate(ctx, category.ID, a.ID))
	require.NoError(t, conn.Model(&domain.Vote{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, conn.Model(&domain.Candidate{}).Count(&n).Error)
	assert.Zero(t, n)
}
