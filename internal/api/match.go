package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/femmepacker/server/internal/matching"
	"github.com/femmepacker/server/internal/models"
)

// hostMatchResponse is a host profile annotated with its match score.
type hostMatchResponse struct {
	models.Profile
	MatchScore   int      `json:"matchScore"`
	MatchReasons []string `json:"matchReasons"`
}

func (s *Server) handleMatchHosts(c *fiber.Ctx) error {
	ctx := c.Context()

	requester, err := s.profiles.GetByUserID(ctx, currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Profile")
	}

	candidates, err := s.profiles.List(ctx)
	if err != nil {
		return s.writeError(c, err, "Profiles")
	}

	results := matching.FindHosts(*requester, candidates)
	s.metrics.matchRequests.Inc()

	resp := make([]hostMatchResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, hostMatchResponse{
			Profile:      r.Host,
			MatchScore:   r.Score,
			MatchReasons: r.Reasons,
		})
	}
	return c.JSON(resp)
}
