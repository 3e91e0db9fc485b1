package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"voting_system/internal/domain"
)

// Page selects a window of a list. The zero Page selects everything.
type Page struct {
	Number int
	Size   int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Number <= 0 || p.Size <= 0 {
		return q
	}
	return q.Offset((p.Number - 1) * p.Size).Limit(p.Size)
}

// Catalog manages categories and their candidates
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ListCategories returns categories newest first
func (c *Catalog) ListCategories(ctx context.Context, page Page) ([]domain.Category, error) {
	categories := []domain.Category{}
	q := c.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if err := page.apply(q).Find(&categories).Error; err != nil {
		return nil, storeError(err)
	}
	return categories, nil
}

// CountCategories returns the number of categories
func (c *Catalog) CountCategories(ctx context.Context) (int64, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(&domain.Category{}).Count(&total).Error; err != nil {
		return 0, storeError(err)
	}
	return total, nil
}

func (c *Catalog) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := requireName(name, "Category")
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name}
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, storeError(err)
	}
	logrus.WithField("category_id", category.ID).Info("Category created")
	return category, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	name, err := requireName(name, "Category")
	if err != nil {
		return nil, err
	}
	var category domain.Category
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("Category not found")
			}
			return err
		}
		category.Name = name
		return tx.Model(&category).Update("name", name).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &category, nil
}

// DeleteCategory removes the category with its votes and candidates in one
// transaction, children first. Deleting a missing category is a no-op.
func (c *Catalog) DeleteCategory(ctx context.Context, id uint) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&domain.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, id).Error
	})
	if err != nil {
		return storeError(err)
	}
	logrus.WithField("category_id", id).Info("Category deleted")
	return nil
}

// GetRandomCategory picks one category uniformly at random
func (c *Catalog) GetRandomCategory(ctx context.Context) (*domain.Category, error) {
	q := c.db.WithContext(ctx)
	random := "RANDOM()"
	if q.Dialector.Name() == "mysql" {
		random = "RAND()"
	}
	var category domain.Category
	err := q.Order(random).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("No categories found")
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &category, nil
}

// ListCandidates returns a category's candidates; an unknown category has none
func (c *Catalog) ListCandidates(ctx context.Context, categoryID uint) ([]domain.Candidate, error) {
	candidates := []domain.Candidate{}
	err := c.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id").Find(&candidates).Error
	if err != nil {
		return nil, storeError(err)
	}
	return candidates, nil
}

func (c *Catalog) CreateCandidate(ctx context.Context, categoryID uint, name string) (*domain.Candidate, error) {
	name, err := requireName(name, "Candidate")
	if err != nil {
		return nil, err
	}
	candidate := &domain.Candidate{CategoryID: categoryID, Name: name}
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Category{}).Where("id = ?", categoryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.NotFound("Category not found")
		}
		return tx.Omit("Category").Create(candidate).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	logrus.WithFields(logrus.Fields{
		"category_id":  categoryID,
		"candidate_id": candidate.ID,
	}).Info("Candidate created")
	return candidate, nil
}

func (c *Catalog) UpdateCandidate(ctx context.Context, categoryID, candidateID uint, name string) (*domain.Candidate, error) {
	name, err := requireName(name, "Candidate")
	if err != nil {
		return nil, err
	}
	var candidate domain.Candidate
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND category_id = ?", candidateID, categoryID).Take(&candidate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("Candidate not found")
		}
		if err != nil {
			return err
		}
		candidate.Name = name
		return tx.Model(&candidate).Update("name", name).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &candidate, nil
}

// DeleteCandidate removes a candidate and the votes cast for it. A candidate
// outside the category is left alone.
func (c *Catalog) DeleteCandidate(ctx context.Context, categoryID, candidateID uint) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&domain.Candidate{}).
			Where("id = ? AND category_id = ?", candidateID, categoryID).
			Count(&n).Error
		if err != nil || n == 0 {
			return err
		}
		if err := tx.Where("candidate_id = ?", candidateID).Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Candidate{}, candidateID).Error
	})
	if err != nil {
		return storeError(err)
	}
	logrus.WithFields(logrus.Fields{
		"category_id":  categoryID,
		"candidate_id": candidateID,
	}).Info("Candidate deleted")
	return nil
}
