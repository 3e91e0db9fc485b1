package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voting_system/internal/domain"
)

// Ledger records votes. A user holds at most one vote per category, and a
// candidate's counter always equals the number of votes referencing it.
//
// The unique index on votes(category_id, user_id) is what serialises racing
// submissions: the loser's insert fails and is reported as ErrDuplicateVote.
// The existence check before the insert only saves a round trip.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// SubmitVote casts the caller's vote for candidateID in categoryID. The vote
// row and the counter increment commit together or not at all.
func (l *Ledger) SubmitVote(ctx context.Context, caller Caller, categoryID, candidateID uint) (*domain.Vote, error) {
	userID, err := caller.UserID()
	if err != nil {
		return nil, err
	}
	if categoryID == 0 || candidateID == 0 {
		return nil, domain.Invalid("Missing required fields")
	}

	vote := &domain.Vote{CategoryID: categoryID, CandidateID: candidateID, UserID: userID}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&domain.Candidate{}).
			Where("id = ? AND category_id = ?", candidateID, categoryID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.Invalid("Candidate does not belong to this category")
		}

		voted, err := hasVoted(tx, categoryID, userID)
		if err != nil {
			return err
		}
		if voted {
			return domain.ErrDuplicateVote
		}

		if err := insertVote(tx, vote); err != nil {
			return err
		}
		return incrementCounter(tx, categoryID, candidateID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateVote) && !errors.Is(err, domain.ErrValidation) {
			logrus.WithFields(logrus.Fields{
				"category_id":  categoryID,
				"candidate_id": candidateID,
				"user_id":      userID,
				"error":        err.Error(),
			}).Error("Vote failed")
		}
		return nil, storeError(err)
	}

	logrus.WithFields(logrus.Fields{
		"vote_id":      vote.ID,
		"category_id":  categoryID,
		"candidate_id": candidateID,
		"user_id":      userID,
	}).Info("Vote submitted")
	return vote, nil
}

// CheckIfVoted reports whether the caller has voted in categoryID
func (l *Ledger) CheckIfVoted(ctx context.Context, caller Caller, categoryID uint) (bool, error) {
	userID, err := caller.UserID()
	if err != nil {
		return false, err
	}
	voted, err := hasVoted(l.db.WithContext(ctx), categoryID, userID)
	if err != nil {
		return false, storeError(err)
	}
	return voted, nil
}

func hasVoted(q *gorm.DB, categoryID, userID uint) (bool, error) {
	var n int64
	err := q.Model(&domain.Vote{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&n).Error
	return n > 0, err
}

// insertVote inserts the vote row, mapping a unique violation to ErrDuplicateVote
func insertVote(tx *gorm.DB, vote *domain.Vote) error {
	err := tx.Omit(clause.Associations).Create(vote).Error
	if isDuplicateKey(err) {
		return domain.ErrDuplicateVote
	}
	return err
}

func incrementCounter(tx *gorm.DB, categoryID, candidateID uint) error {
	res := tx.Model(&domain.Candidate{}).
		Where("id = ? AND category_id = ?", candidateID, categoryID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("increment candidate %d: %d rows affected", candidateID, res.RowsAffected)
	}
	return nil
}
