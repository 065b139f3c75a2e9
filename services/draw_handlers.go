package services

import (
	"errors"
	"log"
	"time"

	"debate-tab-system/draw"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GenerateDraw handles POST /rounds/:round_id/draw
func (s *DrawService) GenerateDraw(c *fiber.Ctx) error {
	var req DrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	res, err := s.Generate(c.UserContext(), c.Params("round_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// RegenerateDraw handles POST /rounds/:round_id/draw/regenerate. An empty
// body reuses the room labels of the current draft.
func (s *DrawService) RegenerateDraw(c *fiber.Ctx) error {
	var req DrawRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
	}
	res, err := s.Regenerate(c.UserContext(), c.Params("round_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *DrawService) GetDraw(c *fiber.Ctx) error {
	res, err := s.Draw(c.UserContext(), c.Params("round_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *DrawService) GetPublicDraw(c *fiber.Ctx) error {
	res, err := s.PublicDraw(c.UserContext(), c.Params("round_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *DrawService) ConfirmDraw(c *fiber.Ctx) error {
	res, err := s.Confirm(c.UserContext(), c.Params("round_id"))
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("[DrawService] Round %s confirmed by %v", res.RoundID, c.Locals("user_id"))
	return c.JSON(res)
}

// ReleaseDraw handles POST /rounds/:round_id/draw/release with an optional
// RFC3339 release_at.
func (s *DrawService) ReleaseDraw(c *fiber.Ctx) error {
	var req struct {
		ReleaseAt string `json:"release_at"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
	}

	var releaseAt *time.Time
	if req.ReleaseAt != "" {
		at, err := time.Parse(time.RFC3339, req.ReleaseAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release_at (use RFC3339)"})
		}
		releaseAt = &at
	}

	res, err := s.Release(c.UserContext(), c.Params("round_id"), releaseAt, "manual")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, draw.ErrInsufficientInput), errors.Is(err, ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotReleased):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownTeam):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
