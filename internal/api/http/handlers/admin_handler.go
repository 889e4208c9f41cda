package handlers

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/technoghar/repair-service/internal/api/dto"
	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/service"
	apperrors "github.com/technoghar/repair-service/pkg/util"
)

// AdminHandler exposes the admin dashboard endpoints.
type AdminHandler struct {
	service  *service.AdminService
	validate *validator.Validate
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService, validate: newValidator()}
}

// ListRepairs GET /admin/repairs.
func (h *AdminHandler) ListRepairs(c *fiber.Ctx) error {
	repairs, err := h.service.ListRepairs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": repairs})
}

// UpdateStatus PATCH /admin/repairs/:email/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	ownerEmail := c.Params("email")
	if ownerEmail == "" {
		return apperrors.NewValidationError("owner email required", nil)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	if err := h.service.AdvanceStatus(c.UserContext(), ownerEmail, domain.StatusStep(req.StatusStep)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"email": ownerEmail, "statusStep": req.StatusStep},
	})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetStats GET /admin/stats.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
