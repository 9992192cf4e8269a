package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/middleware"
	"github.com/unlatch-ai/poke-daddy/internal/services"
)

type BlockingHandler struct {
	blockingService *services.BlockingService
	profileService  *services.ProfileService
}

func NewBlockingHandler(blockingService *services.BlockingService, profileService *services.ProfileService) *BlockingHandler {
	return &BlockingHandler{blockingService: blockingService, profileService: profileService}
}

// Toggle handles POST /blocking/toggle. Only action="start" is accepted:
// users can restrict themselves but cannot lift the restriction, that
// transition belongs to the admin surface alone.
func (h *BlockingHandler) Toggle(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.BlockingToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Action != "start" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid action, only 'start' is allowed",
		})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid profile ID",
		})
	}

	// Profile must exist and belong to the caller.
	if _, err := h.profileService.Get(userID, profileID); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load profile",
		})
	}

	session, err := h.blockingService.Start(userID, profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to start blocking session",
		})
	}

	sessionID := session.ID.String()
	profileIDStr := session.ProfileID.String()
	startedAt := session.StartedAt
	return c.JSON(dto.BlockingStatusResponse{
		IsBlocking: true,
		ProfileID:  &profileIDStr,
		SessionID:  &sessionID,
		StartedAt:  &startedAt,
	})
}

// Status handles GET /blocking/status.
func (h *BlockingHandler) Status(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	status, err := h.blockingService.Status(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load blocking status",
		})
	}

	return c.JSON(status)
}
