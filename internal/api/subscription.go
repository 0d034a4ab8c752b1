package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/femmepacker/server/internal/models"
)

func (s *Server) handleGetSubscription(c *fiber.Ctx) error {
	sub, err := s.subscriptions.EnsureSubscription(c.Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Subscription")
	}
	return c.JSON(sub)
}

// BillingSecretHeader carries the billing provider's shared secret.
const BillingSecretHeader = "X-Billing-Secret"

// requireBillingSecret rejects tier changes that do not present the
// configured billing secret. With no secret configured it lets every
// request through.
func (s *Server) requireBillingSecret(c *fiber.Ctx) error {
	secret := s.cfg.Billing.WebhookSecret
	if secret == "" {
		return c.Next()
	}
	if subtle.ConstantTimeCompare([]byte(c.Get(BillingSecretHeader)), []byte(secret)) != 1 {
		s.logger.Warn("Rejected subscription change without billing secret", "user_id", currentUser(c))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid billing credentials",
		})
	}
	return c.Next()
}

// handleUpdateSubscription records a tier change confirmed by the billing
// provider.
func (s *Server) handleUpdateSubscription(c *fiber.Ctx) error {
	var req models.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	tier, ok := models.ParseTier(req.Tier)
	if !ok {
		return s.writeError(c, models.NewValidationError("tier", "must be free or premium"), "")
	}
	if tier == models.TierPremium && req.BillingReference == "" {
		return s.writeError(c, models.NewValidationError("billingReference", "required for premium"), "")
	}

	userID := currentUser(c)
	if req.UserID != "" {
		userID = req.UserID
	}
	sub, err := s.subscriptions.SetTier(c.Context(), userID, tier, req.BillingReference, req.NextBillingDate)
	if err != nil {
		return s.writeError(c, err, "Subscription")
	}

	s.logger.Info("Subscription updated", "user_id", userID, "tier", tier)
	return c.JSON(sub)
}
