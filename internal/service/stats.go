package service

import (
	"context"

	"gorm.io/gorm"

	"voting_system/internal/domain"
)

// NoVotesCategory is reported as the top category while nothing has been voted
var NoVotesCategory = domain.CategoryTally{Name: "No votes", VoteCount: 0}

// Statistics computes live, read-only aggregates. Ties between candidates
// with equal counters resolve in whatever order the store returns them.
type Statistics struct {
	db *gorm.DB
}

func NewStatistics(db *gorm.DB) *Statistics {
	return &Statistics{db: db}
}

// TopCandidate returns the candidate with the most votes
func (s *Statistics) TopCandidate(ctx context.Context) (*domain.CandidateStanding, error) {
	return s.standing(ctx, "candidates.votes DESC")
}

// BottomCandidate returns the candidate with the fewest votes
func (s *Statistics) BottomCandidate(ctx context.Context) (*domain.CandidateStanding, error) {
	return s.standing(ctx, "candidates.votes ASC")
}

func (s *Statistics) standing(ctx context.Context, order string) (*domain.CandidateStanding, error) {
	var rows []domain.CandidateStanding
	err := retryRead(ctx, newReadBackoff(), func() error {
		rows = nil
		return s.db.WithContext(ctx).
			Table("candidates").
			Select("candidates.id, candidates.category_id, candidates.name, candidates.votes, categories.name AS category_name").
			Joins("JOIN categories ON categories.id = candidates.category_id").
			Order(order).
			Limit(1).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, domain.NotFound("No candidates found")
	}
	return &rows[0], nil
}

// Stats returns category and vote totals with the most voted category
func (s *Statistics) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := retryRead(ctx, newReadBackoff(), func() error {
		db := s.db.WithContext(ctx)
		if err := db.Model(&domain.Category{}).Count(&stats.TotalCategories).Error; err != nil {
			return err
		}
		if err := db.Model(&domain.Vote{}).Count(&stats.TotalVotes).Error; err != nil {
			return err
		}
		var top []domain.CategoryTally
		err := db.Table("categories").
			Select("categories.name AS name, COUNT(votes.id) AS vote_count").
			Joins("LEFT JOIN votes ON votes.category_id = categories.id").
			Group("categories.id, categories.name").
			Order("vote_count DESC").
			Limit(1).
			Scan(&top).Error
		if err != nil {
			return err
		}
		stats.TopCategory = NoVotesCategory
		if len(top) > 0 && stats.TotalVotes > 0 {
			stats.TopCategory = top[0]
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &stats, nil
}
