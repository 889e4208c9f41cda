package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/technoghar/repair-service/internal/config"
	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/internal/session"
	"github.com/technoghar/repair-service/internal/store"
	"github.com/technoghar/repair-service/pkg/util"
)

// fakeSessions records issued and destroyed sessions.
type fakeSessions struct {
	created   []*session.Session
	destroyed []string
}

func (f *fakeSessions) CreateCustomer(_ context.Context, email string) (*session.Session, error) {
	sess := &session.Session{Token: "tok-" + email, Kind: domain.SubjectTypeCustomer, Email: email}
	f.created = append(f.created, sess)
	return sess, nil
}

func (f *fakeSessions) CreateAdmin(_ context.Context) (*session.Session, error) {
	sess := &session.Session{Token: "tok-admin", Kind: domain.SubjectTypeAdmin}
	f.created = append(f.created, sess)
	return sess, nil
}

func (f *fakeSessions) Destroy(_ context.Context, token string) error {
	f.destroyed = append(f.destroyed, token)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, repository.UserRepository, *fakeSessions) {
	t.Helper()
	repo := repository.NewUserRepository(store.NewMemStore())
	sessions := &fakeSessions{}
	svc, err := NewAuthService(config.AuthConfig{
		AdminEmail:    "admin@technoghar.com",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.MinCost,
	}, AuthDependencies{UserRepo: repo, Sessions: sessions})
	require.NoError(t, err)
	return svc, repo, sessions
}

func TestRegisterCustomer(t *testing.T) {
	svc, repo, sessions := newTestAuthService(t)
	ctx := context.Background()

	record, sess, err := svc.RegisterCustomer(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, domain.SubjectTypeCustomer, sess.Kind)
	assert.Equal(t, "asha@example.com", sess.Email)

	assert.Equal(t, strconv.Itoa(time.Now().Year()), record.MemberSince)
	assert.False(t, record.ActiveRepair.HasActiveRepair)
	require.Len(t, record.History, 1)
	assert.Equal(t, "TG-DEMO-001", record.History[0].ID)
	assert.Equal(t, "Completed", record.History[0].Status)

	stored, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
	assert.Len(t, sessions.created, 1)
}

func TestRegisterCustomerConflict(t *testing.T) {
	svc, repo, sessions := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterCustomer(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)

	_, sess, err := svc.RegisterCustomer(ctx, "Impostor", "asha@example.com", "other456")
	assert.True(t, util.IsAlreadyExists(err))
	assert.Nil(t, sess)
	// no second session and the original record is unmodified
	assert.Len(t, sessions.created, 1)
	stored, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", stored.Name)
}

func TestLoginCustomer(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterCustomer(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)

	user, sess, err := svc.LoginCustomer(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", user.Name)
	assert.Equal(t, "asha@example.com", sess.Email)
}

func TestLoginCustomerInvalidCredentials(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterCustomer(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)
	issued := len(sessions.created)

	// a missing record reads the same as a wrong password
	_, _, err = svc.LoginCustomer(ctx, "nobody@example.com", "secret123")
	assert.Error(t, err)

	_, _, err = svc.LoginCustomer(ctx, "asha@example.com", "wrong")
	assert.Error(t, err)

	assert.Len(t, sessions.created, issued)
}

func TestLoginAdmin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	sess, err := svc.LoginAdmin(ctx, "admin@technoghar.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, sess.Kind)
	assert.Empty(t, sess.Email)

	_, err = svc.LoginAdmin(ctx, "admin@technoghar.com", "nope")
	assert.Error(t, err)

	_, err = svc.LoginAdmin(ctx, "someone@else.com", "admin123")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)

	require.NoError(t, svc.Logout(context.Background(), "tok-asha@example.com"))
	assert.Equal(t, []string{"tok-asha@example.com"}, sessions.destroyed)
}
