package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/femmepacker/server/internal/models"
	"github.com/femmepacker/server/internal/quota"
)

// writeError maps domain errors onto HTTP responses. subject names the
// resource in not-found and already-exists messages.
func (s *Server) writeError(c *fiber.Ctx, err error, subject string) error {
	var verr *models.ValidationError
	var qerr *quota.ExceededError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
	case errors.As(err, &qerr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   qerr.Error(),
			"tier":    qerr.Tier,
			"limit":   qerr.Limit,
			"current": qerr.Current,
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": subject + " not found"})
	case errors.Is(err, models.ErrAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": subject + " already exists"})
	case errors.Is(err, models.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to modify this " + strings.ToLower(subject)})
	case errors.Is(err, models.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	s.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "user_id", currentUser(c), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func isQuotaExceeded(err error) bool {
	return errors.Is(err, quota.ErrQuotaExceeded)
}
