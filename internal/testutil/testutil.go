// Package testutil provides store fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"voting_system/internal/db"
	"voting_system/internal/domain"
)

// NewDB opens a migrated sqlite database in a temp dir. Foreign keys are
// enforced and the pool holds a single connection so writers queue instead of
// failing with SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// NewRedis starts an in-process redis and returns a client bound to it
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

// CreateUser inserts a user with one github identity
func CreateUser(t *testing.T, conn *gorm.DB, name string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:       name,
		Identities: []domain.UserIdentity{{Provider: domain.ProviderGitHub, ExternalID: "gh-" + name}},
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

// CreateCategory inserts a category
func CreateCategory(t *testing.T, conn *gorm.DB, name string) *domain.Category {
	t.Helper()

	category := &domain.Category{Name: name}
	require.NoError(t, conn.Create(category).Error)
	return category
}

// CreateCandidate inserts a candidate with a zero counter
func CreateCandidate(t *testing.T, conn *gorm.DB, categoryID uint, name string) *domain.Candidate {
	t.Helper()

	candidate := &domain.Candidate{CategoryID: categoryID, Name: name}
	require.NoError(t, conn.Omit("Category").Create(candidate).Error)
	return candidate
}

// AssertCountersConsistent checks that every candidate counter equals the
// number of vote rows referencing it
func AssertCountersConsistent(t *testing.T, conn *gorm.DB) {
	t.Helper()

	var drift []struct {
		ID     uint
		Votes  int64
		Actual int64
	}
	err := conn.Raw(`
		SELECT c.id, c.votes, COUNT(v.id) AS actual
		FROM candidates c
		LEFT JOIN votes v ON v.candidate_id = c.id
		GROUP BY c.id, c.votes
		HAVING c.votes <> COUNT(v.id)
	`).Scan(&drift).Error
	require.NoError(t, err)
	require.Empty(t, drift, "candidate counters drifted from vote rows")
}
