package handlers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/technoghar/repair-service/internal/api/dto"
	"github.com/technoghar/repair-service/internal/auth"
	"github.com/technoghar/repair-service/internal/service"
	apperrors "github.com/technoghar/repair-service/pkg/util"
)

// AuthHandler exposes customer auth endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, validate: newValidator()}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	user, sess, err := h.auth.RegisterCustomer(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"name":        user.Name,
				"email":       user.Email,
				"memberSince": user.MemberSince,
			},
			"session": dto.SessionResponse{Token: sess.Token},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	user, sess, err := h.auth.LoginCustomer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"name":        user.Name,
				"email":       user.Email,
				"memberSince": user.MemberSince,
			},
			"session": dto.SessionResponse{Token: sess.Token},
		},
	})
}

// Logout handles POST /auth/logout for any authenticated session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Session.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"loggedOut": true}})
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	sess, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"session": dto.SessionResponse{Token: sess.Token}},
	})
}
