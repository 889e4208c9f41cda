// Package session resolves the current actor from an opaque token. Sessions
// are explicit values created on login or signup and destroyed on logout;
// nothing is read from ambient global state. The customer and admin sessions
// remain independent mechanisms: a customer session carries an identity key
// (email), an admin session carries only the admin marker.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/pkg/util"
)

const keyPrefix = "session:"

// Session identifies the current actor.
type Session struct {
	Token string
	Kind  domain.SubjectType
	Email string
}

// Manager stores sessions in Redis with a TTL.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewManager constructs a session manager.
func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	return &Manager{client: client, ttl: ttl}
}

// CreateCustomer issues a session bound to the customer's identity key.
func (m *Manager) CreateCustomer(ctx context.Context, email string) (*Session, error) {
	return m.create(ctx, domain.SubjectTypeCustomer, email)
}

// CreateAdmin issues an admin session. Admin sessions carry no per-admin
// identity.
func (m *Manager) CreateAdmin(ctx context.Context) (*Session, error) {
	return m.create(ctx, domain.SubjectTypeAdmin, "")
}

func (m *Manager) create(ctx context.Context, kind domain.SubjectType, email string) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	value := string(kind) + "|" + email
	if err := m.client.Set(ctx, keyPrefix+token, value, m.ttl).Err(); err != nil {
		return nil, util.NewStoreError("failed to persist session", err)
	}
	return &Session{Token: token, Kind: kind, Email: email}, nil
}

// Resolve looks up the session for a token. An unknown or expired token yields
// an unauthorized error.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, util.NewUnauthorized("missing session token")
	}
	value, err := m.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, util.NewUnauthorized("invalid or expired session")
	}
	if err != nil {
		return nil, util.NewStoreError("failed to resolve session", err)
	}
	kind, email, _ := strings.Cut(value, "|")
	return &Session{Token: token, Kind: domain.SubjectType(kind), Email: email}, nil
}

// Destroy removes the session. Destroying an already absent token is a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return util.NewStoreError("failed to destroy session", err)
	}
	return nil
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
