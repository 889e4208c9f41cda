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

// RepairsHandler manages customer and guest repair endpoints.
type RepairsHandler struct {
	service  *service.RepairService
	validate *validator.Validate
}

// NewRepairsHandler constructs handler.
func NewRepairsHandler(repairService *service.RepairService) *RepairsHandler {
	return &RepairsHandler{service: repairService, validate: newValidator()}
}

// SubmitRequest POST /repairs.
func (h *RepairsHandler) SubmitRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.ServiceRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	repair, err := h.service.SubmitRequest(c.UserContext(), principal.User.Email, service.ServiceRequestInput{
		DeviceType: req.DeviceType,
		Brand:      req.Brand,
		Issue:      req.Issue,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewActiveRepairResponse(*repair, repair.StatusStep.ProgressSteps()),
	})
}

// Profile GET /profile.
func (h *RepairsHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}

	user, steps, err := h.service.Profile(c.UserContext(), principal.User.Email)
	if err != nil {
		return err
	}

	resp := dto.ProfileResponse{
		Name:        user.Name,
		Email:       user.Email,
		MemberSince: user.MemberSince,
		History:     user.History,
	}
	if user.ActiveRepair.HasActiveRepair {
		resp.ActiveRepair = dto.NewActiveRepairResponse(user.ActiveRepair, steps)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// TrackTicket GET /track/:ticketId. Open to guests; a miss is a 404, not a
// failure.
func (h *RepairsHandler) TrackTicket(c *fiber.Ctx) error {
	result, err := h.service.TrackTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewActiveRepairResponse(result.Repair, result.Steps),
	})
}

// SubmitBooking POST /bookings.
func (h *RepairsHandler) SubmitBooking(c *fiber.Ctx) error {
	var req dto.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	h.service.SubmitBooking(c.UserContext(), service.BookingInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Device: req.Device,
		Issue:  req.Issue,
	})
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"accepted": true},
	})
}
