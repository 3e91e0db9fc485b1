// Package service holds the poll's core components: the identity store and
// session resolver used by the OAuth flow, the category/candidate catalog, the
// voting ledger and the statistics engine. Every operation takes a
// context.Context and returns errors that match one of the domain error kinds.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"voting_system/internal/domain"
)

// Caller is the resolved identity of a request, or anonymous
type Caller struct {
	User *domain.User
}

// Anonymous is the caller of an unauthenticated request
func Anonymous() Caller { return Caller{} }

// AsUser wraps an authenticated user
func AsUser(u *domain.User) Caller { return Caller{User: u} }

// Authenticated reports whether the caller resolved to a user
func (c Caller) Authenticated() bool { return c.User != nil }

// UserID returns the caller's user id or ErrUnauthorized
func (c Caller) UserID() (uint, error) {
	if c.User == nil {
		return 0, &domain.Error{Kind: domain.ErrUnauthorized, Message: "Unauthorized"}
	}
	return c.User.ID, nil
}

var kinds = []error{
	domain.ErrValidation,
	domain.ErrNotFound,
	domain.ErrUnauthorized,
	domain.ErrDuplicateVote,
	domain.ErrStore,
	domain.ErrStoreTimeout,
	domain.ErrIdentityStore,
}

func hasKind(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// storeError classifies a raw store failure. Errors that already carry a
// domain kind pass through unchanged.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case hasKind(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrStoreTimeout, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
}

// isDuplicateKey reports a unique constraint violation. TranslateError covers
// the drivers that implement it; the message checks cover the rest.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}

// requireName trims name and rejects it when empty
func requireName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid(what + " name is required")
	}
	return name, nil
}
