package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voting_system/internal/domain"
	"voting_system/internal/utils"
)

// SessionPayload is the durable part of a session: only the user id
type SessionPayload struct {
	UserID uint `json:"user_id"`
}

// SessionResolver maps session payloads to users
type SessionResolver struct {
	identities *IdentityStore
}

func NewSessionResolver(identities *IdentityStore) *SessionResolver {
	return &SessionResolver{identities: identities}
}

// Serialize reduces a user to its session payload
func (r *SessionResolver) Serialize(u *domain.User) SessionPayload {
	return SessionPayload{UserID: u.ID}
}

// Deserialize loads the payload's user. A user that no longer exists yields
// (nil, nil): the request is anonymous, not failed.
func (r *SessionResolver) Deserialize(ctx context.Context, p SessionPayload) (*domain.User, error) {
	user, err := r.identities.FindUser(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// OAuthState is kept between the redirect to a provider and its callback
type OAuthState struct {
	Provider domain.Provider `json:"provider"`
	Verifier string          `json:"verifier,omitempty"` // PKCE verifier, twitter only
}

const (
	sessionKeyPrefix = "session:"
	stateKeyPrefix   = "oauth_state:"
	stateTTL         = 10 * time.Minute
)

// SessionManager stores sessions in redis and hands out signed tokens naming them
type SessionManager struct {
	rdb      redis.Cmdable
	resolver *SessionResolver
	secret   string
	ttl      time.Duration
}

func NewSessionManager(rdb redis.Cmdable, resolver *SessionResolver, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{rdb: rdb, resolver: resolver, secret: secret, ttl: ttl}
}

// TTL is the lifetime of new sessions
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create starts a session for user and returns the cookie token
func (m *SessionManager) Create(ctx context.Context, user *domain.User) (string, error) {
	sid := uuid.NewString()
	if err := utils.SetJSON(ctx, m.rdb, sessionKeyPrefix+sid, m.resolver.Serialize(user), m.ttl); err != nil {
		return "", storeError(fmt.Errorf("save session: %w", err))
	}
	return utils.SignSessionToken(sid, m.secret, m.ttl)
}

// Resolve turns a cookie token into a caller. Missing, forged, expired or
// destroyed sessions resolve to Anonymous without error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Anonymous(), nil
	}
	sid, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return Anonymous(), nil
	}
	var payload SessionPayload
	found, err := utils.GetJSON(ctx, m.rdb, sessionKeyPrefix+sid, &payload)
	if err != nil {
		return Anonymous(), storeError(fmt.Errorf("load session: %w", err))
	}
	if !found {
		return Anonymous(), nil
	}
	user, err := m.resolver.Deserialize(ctx, payload)
	if err != nil {
		return Anonymous(), err
	}
	if user == nil {
		return Anonymous(), nil
	}
	return AsUser(user), nil
}

// Destroy removes the session named by token. Unparseable tokens are ignored.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	sid, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return nil
	}
	if err := utils.Delete(ctx, m.rdb, sessionKeyPrefix+sid); err != nil {
		return storeError(fmt.Errorf("destroy session: %w", err))
	}
	return nil
}

// SaveState records an OAuth handshake and returns its state parameter
func (m *SessionManager) SaveState(ctx context.Context, st OAuthState) (string, error) {
	state := uuid.NewString()
	if err := utils.SetJSON(ctx, m.rdb, stateKeyPrefix+state, st, stateTTL); err != nil {
		return "", storeError(fmt.Errorf("save oauth state: %w", err))
	}
	return state, nil
}

// TakeState consumes a state parameter. A state is valid once.
func (m *SessionManager) TakeState(ctx context.Context, state string) (OAuthState, bool, error) {
	var st OAuthState
	if state == "" {
		return st, false, nil
	}
	found, err := utils.TakeJSON(ctx, m.rdb, stateKeyPrefix+state, &st)
	if err != nil {
		return st, false, storeError(fmt.Errorf("take oauth state: %w", err))
	}
	return st, found, nil
}
