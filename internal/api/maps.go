package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/femmepacker/server/internal/models"
)

var emptyMapData = types.JSONText(`{"markers":[]}`)

func (s *Server) handleCreateMap(c *fiber.Ctx) error {
	var req models.NewUserMapRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := req.Validate(); err != nil {
		return s.writeError(c, err, "")
	}

	m := &models.UserMap{
		ID:          uuid.NewString(),
		UserID:      currentUser(c),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsPublic:    true,
		MapData:     emptyMapData,
		CreatedAt:   time.Now().UTC(),
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}
	if len(req.MapData) > 0 && string(req.MapData) != "null" {
		m.MapData = req.MapData
	}

	if err := s.maps.Create(c.Context(), m); err != nil {
		return s.writeError(c, err, "Map")
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (s *Server) handleListPublicMaps(c *fiber.Ctx) error {
	maps, err := s.maps.ListPublic(c.Context())
	if err != nil {
		return s.writeError(c, err, "Maps")
	}
	return c.JSON(maps)
}

func (s *Server) handleListMyMaps(c *fiber.Ctx) error {
	maps, err := s.maps.ListByUser(c.Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Maps")
	}
	return c.JSON(maps)
}
