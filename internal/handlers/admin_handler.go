package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/services"
)

// AdminHandler exposes the email-keyed operations the tool gateway calls
// on behalf of an external agent. All lookups are by email (or, for the
// legacy variants, by explicit ids) passed as query params, the way the
// original gateway sends them.
type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// StatusByEmail handles GET /admin/status-by-email.
func (h *AdminHandler) StatusByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email is required",
		})
	}

	resp, err := h.adminService.StatusByEmail(email)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// UnblockAppByEmail handles POST /admin/unblock-app-by-email.
func (h *AdminHandler) UnblockAppByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	appBundleID := c.Query("app_bundle_id")
	if email == "" || appBundleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email and app_bundle_id are required",
		})
	}

	resp, err := h.adminService.UnblockAppByEmail(email, appBundleID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// EndBlockingByEmail handles POST /admin/end-blocking-by-email. Ends all
// of the user's active sessions.
func (h *AdminHandler) EndBlockingByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email is required",
		})
	}

	resp, err := h.adminService.EndBlockingByEmail(email)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// StartBlockingByEmail handles POST /admin/start-blocking-by-email.
func (h *AdminHandler) StartBlockingByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email is required",
		})
	}

	var profileID *uuid.UUID
	if raw := c.Query("profile_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid profile ID",
			})
		}
		profileID = &id
	}

	resp, err := h.adminService.StartBlockingByEmail(email, profileID, c.Query("profile_name"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// UnblockApp handles POST /admin/unblock-app, the id-keyed variant.
func (h *AdminHandler) UnblockApp(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid profile ID",
		})
	}
	appBundleID := c.Query("app_bundle_id")
	if appBundleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "app_bundle_id is required",
		})
	}

	resp, err := h.adminService.UnblockApp(userID, profileID, appBundleID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// EndBlocking handles POST /admin/end-blocking, the id-keyed variant
// that ends the single (user, profile) session.
func (h *AdminHandler) EndBlocking(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid profile ID",
		})
	}

	resp, err := h.adminService.EndBlocking(userID, profileID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	case errors.Is(err, services.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	case errors.Is(err, services.ErrNoProfiles):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User has no profiles",
		})
	case errors.Is(err, services.ErrNoActiveSession):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No active blocking session",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
