package domain

import "time"

// Category Model
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // Primary key
	Name      string    `gorm:"not null" json:"name"` // Category name
	CreatedAt time.Time `json:"created_at"`           // Timestamp of creation
}

// Candidate Model
type Candidate struct {
	ID         uint     `gorm:"primaryKey" json:"id"`                                     // Primary key
	CategoryID uint     `gorm:"index;not null" json:"category_id"`                        // Owning category
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"` // Foreign key to Category
	Name       string   `gorm:"not null" json:"name"`                                     // Candidate name
	Votes      int64    `gorm:"not null;default:0;check:votes >= 0" json:"votes"`         // Materialised count of Vote rows
}

// Vote Model, at most one per (category, user)
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                           // Primary key
	CategoryID  uint      `gorm:"not null;uniqueIndex:idx_vote_category_user" json:"category_id"` // Foreign key to Category
	UserID      uint      `gorm:"not null;uniqueIndex:idx_vote_category_user" json:"user_id"`     // Foreign key to User
	CandidateID uint      `gorm:"not null;index" json:"candidate_id"`                             // Foreign key to Candidate
	Category    Category  `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	Candidate   Candidate `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	User        User      `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	CreatedAt   time.Time `json:"created_at"` // Timestamp of creation
}

// CandidateStanding is a candidate joined with its category name
type CandidateStanding struct {
	ID           uint   `json:"id"`
	CategoryID   uint   `json:"category_id"`
	Name         string `json:"name"`
	Votes        int64  `json:"votes"`
	CategoryName string `json:"category_name"`
}

// CategoryTally is the vote count of one category
type CategoryTally struct {
	Name      string `json:"name"`
	VoteCount int64  `json:"vote_count"`
}

// Stats aggregates the whole poll
type Stats struct {
	TotalCategories int64         `json:"totalCategories"`
	TotalVotes      int64         `json:"totalVotes"`
	TopCategory     CategoryTally `json:"topCategory"`
}
