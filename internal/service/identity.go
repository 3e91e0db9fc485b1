package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"voting_system/internal/domain"
)

// IdentityStore resolves federated profiles to users. Each (provider, external
// id) maps to at most one user; a person signing in through two providers gets
// two users, accounts are not linked.
type IdentityStore struct {
	db *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// ResolveOrCreateUser returns the user owning the profile's identity, creating
// it on first sign-in. An existing user is returned as stored, the profile does
// not refresh it.
func (s *IdentityStore) ResolveOrCreateUser(ctx context.Context, profile domain.Profile) (*domain.User, error) {
	if _, ok := domain.ParseProvider(string(profile.Provider)); !ok {
		return nil, domain.Invalid(fmt.Sprintf("unknown provider %q", profile.Provider))
	}
	if profile.ExternalID == "" {
		return nil, domain.Invalid("external id is required")
	}

	user, err := s.findByIdentity(ctx, profile.Provider, profile.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identityError(err)
	}

	user, err = s.create(ctx, profile)
	if isDuplicateKey(err) {
		// A concurrent first sign-in won the insert, return its row
		user, err = s.findByIdentity(ctx, profile.Provider, profile.ExternalID)
	}
	if err != nil {
		return nil, identityError(err)
	}
	return user, nil
}

// FindUser loads a user with its identities
func (s *IdentityStore) FindUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Preload("Identities").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

func (s *IdentityStore) findByIdentity(ctx context.Context, provider domain.Provider, externalID string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Joins("JOIN user_identities ON user_identities.user_id = users.id").
		Where("user_identities.provider = ? AND user_identities.external_id = ?", provider, externalID).
		Preload("Identities").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *IdentityStore) create(ctx context.Context, profile domain.Profile) (*domain.User, error) {
	name := profile.DisplayName
	if name == "" {
		name = profile.Provider.Title() + " User"
	}
	user := &domain.User{Name: name}
	if profile.Email != "" {
		email := profile.Email
		user.Email = &email
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Identities").Create(user).Error; err != nil {
			return err
		}
		identity := domain.UserIdentity{
			UserID:     user.ID,
			Provider:   profile.Provider,
			ExternalID: profile.ExternalID,
		}
		if err := tx.Create(&identity).Error; err != nil {
			return err
		}
		user.Identities = []domain.UserIdentity{identity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"provider": profile.Provider,
	}).Info("User created")
	return user, nil
}

func identityError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrIdentityStore, err)
}
