package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/femmepacker/server/internal/models"
)

func (s *Server) handleCreateHostingRequest(c *fiber.Ctx) error {
	var req models.NewHostingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	created, err := s.ledger.CreateHostingRequest(c.Context(), currentUser(c), req)
	if err != nil {
		return s.writeError(c, err, "Host")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) handleListHostingRequests(c *fiber.Ctx) error {
	requests, err := s.ledger.ListRequests(c.Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Hosting requests")
	}
	return c.JSON(requests)
}

func (s *Server) handleUpdateHostingRequestStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	updated, err := s.ledger.UpdateRequestStatus(c.Context(), currentUser(c), c.Params("id"), req.Status)
	if err != nil {
		return s.writeError(c, err, "Hosting request")
	}
	return c.JSON(updated)
}

func (s *Server) handleCreateReview(c *fiber.Ctx) error {
	var req models.NewReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	review, err := s.ledger.CreateReview(c.Context(), currentUser(c), req)
	if err != nil {
		return s.writeError(c, err, "Host")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (s *Server) handleListReviews(c *fiber.Ctx) error {
	reviews, err := s.ledger.ListReviews(c.Context(), c.Params("hostId"))
	if err != nil {
		return s.writeError(c, err, "Reviews")
	}
	return c.JSON(reviews)
}
