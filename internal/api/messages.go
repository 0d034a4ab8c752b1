package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/models"
)

func (s *Server) handleGetQuota(c *fiber.Ctx) error {
	summary, err := s.tracker.Summary(c.Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Quota")
	}
	return c.JSON(summary)
}

func (s *Server) handleSendToHost(c *fiber.Ctx) error {
	var req models.SendToHostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.HostID == "" {
		return s.writeError(c, models.NewValidationError("hostId", "is required"), "")
	}

	host, err := s.profiles.GetByID(c.Context(), req.HostID)
	if err != nil {
		return s.writeError(c, err, "Host")
	}
	return s.send(c, models.ClassHost, host.UserID, req.Content)
}

func (s *Server) handleSendToAI(c *fiber.Ctx) error {
	var req models.SendToAIRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return s.send(c, models.ClassAI, models.AssistantRecipient, req.Content)
}

// send reserves quota for one message of class and then records it. A
// reservation is not returned if storing the message fails.
func (s *Server) send(c *fiber.Ctx, class models.MessageClass, recipientID, content string) error {
	if strings.TrimSpace(content) == "" {
		return s.writeError(c, models.NewValidationError("content", "is required"), "")
	}

	ctx := c.Context()
	userID := currentUser(c)

	if err := s.tracker.TryReserve(ctx, userID, class); err != nil {
		if isQuotaExceeded(err) {
			s.metrics.quotaDenied.WithLabelValues(string(class)).Inc()
			s.logger.Info("Message refused by quota", "user_id", userID, "class", class)
		}
		return s.writeError(c, err, "Quota")
	}

	msg := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    userID,
		RecipientID: recipientID,
		Class:       class,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return s.writeError(c, err, "Message")
	}
	s.metrics.messagesSent.WithLabelValues(string(class)).Inc()

	s.publishMessageSent(ctx, msg)

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) publishMessageSent(ctx context.Context, msg *models.Message) {
	evt, err := events.New(models.EventMessageSent, msg.SenderID, msg.RecipientID, msg)
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Error("Failed to publish message event", "message_id", msg.ID, "error", err)
	}
}
