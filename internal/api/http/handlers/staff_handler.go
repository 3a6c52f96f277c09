package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrisupport/complaint-service/internal/api/dto"
	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/service"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// StaffHandler manages staff authentication endpoints.
type StaffHandler struct {
	service *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{service: authService}
}

// Login POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	staff, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Staff:     staffSummary(staff),
	}})
}

// ChangePassword POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ChangePassword(c.UserContext(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

func staffSummary(staff *domain.StaffMember) dto.StaffSummary {
	return dto.StaffSummary{
		ID:       staff.ID,
		Name:     staff.Name,
		Email:    staff.Email,
		Role:     string(staff.Role),
		ZoneID:   staff.ZoneID,
		BranchID: staff.BranchID,
	}
}
