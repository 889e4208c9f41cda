package service

import (
	"context"
	"crypto/subtle"
	"strconv"
	"time"

	"github.com/technoghar/repair-service/internal/auth"
	"github.com/technoghar/repair-service/internal/config"
	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/internal/session"
	"github.com/technoghar/repair-service/pkg/util"
)

// SessionStore abstracts session issuance and destruction. *session.Manager
// is the production implementation.
type SessionStore interface {
	CreateCustomer(ctx context.Context, email string) (*session.Session, error)
	CreateAdmin(ctx context.Context) (*session.Session, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService coordinates signup, login and logout flows for customers and
// the single shared admin credential.
type AuthService struct {
	users      repository.UserRepository
	sessions   SessionStore
	bcryptCost int
	adminEmail string
	adminHash  string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Sessions SessionStore
}

// NewAuthService builds the service. The configured admin password is hashed
// once here so logins never compare plaintext.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	adminHash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		bcryptCost: cfg.BcryptCost,
		adminEmail: cfg.AdminEmail,
		adminHash:  adminHash,
	}, nil
}

// RegisterCustomer creates a new customer record and issues a session. When
// the email is already taken the record stays untouched and no session is
// created.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.UserRecord, *session.Session, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	record := &domain.UserRecord{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		MemberSince:  strconv.Itoa(now.Year()),
		ActiveRepair: domain.ActiveRepair{HasActiveRepair: false},
		History: []domain.HistoryEntry{
			{
				ID:     "TG-DEMO-001",
				Date:   now.Format(domain.DateLayout),
				Device: "Welcome Device",
				Issue:  "Account Created",
				Status: "Completed",
				Cost:   "₹0",
			},
		},
	}

	if err := s.users.Create(ctx, record); err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.CreateCustomer(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return record, sess, nil
}

// LoginCustomer authenticates a customer against the record store. A missing
// record is a normal miss, reported the same way as a wrong password.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*domain.UserRecord, *session.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, nil, util.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, util.NewUnauthorized("invalid credentials")
	}

	sess, err := s.sessions.CreateCustomer(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// LoginAdmin authenticates the shared admin credential. There is no per-admin
// identity and no record-store lookup.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*session.Session, error) {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	if err := auth.ComparePassword(s.adminHash, password); err != nil || !emailMatch {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	return s.sessions.CreateAdmin(ctx)
}

// Logout destroys the session for the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
