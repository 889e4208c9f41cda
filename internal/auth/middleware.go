package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/internal/session"
	apperrors "github.com/technoghar/repair-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. A customer principal carries
// the loaded user record; an admin principal carries only the session.
type Principal struct {
	SubjectType domain.SubjectType
	Session     *session.Session
	User        *domain.UserRecord
}

// AuthMiddleware validates session tokens and loads principals. A customer is
// authenticated when the token resolves and a matching record exists in the
// repository.
type AuthMiddleware struct {
	sessions *session.Manager
	users    repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions *session.Manager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	sess, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		return err
	}

	principal := &Principal{SubjectType: sess.Kind, Session: sess}

	switch sess.Kind {
	case domain.SubjectTypeCustomer:
		user, err := m.users.FindByEmail(c.UserContext(), sess.Email)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return apperrors.NewUnauthorized("user record not found")
			}
			return apperrors.MapError(err)
		}
		principal.User = user
	case domain.SubjectTypeAdmin:
		// no record-store lookup for admins
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}
