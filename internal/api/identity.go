package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

type SessionRequest struct {
	UserID string `json:"userId"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"type"`
	UserID    string `json:"userId"`
}

// defaultIdentity makes anonymous callers act as the demo user.
func (s *Server) defaultIdentity(c *fiber.Ctx) error {
	c.Locals(userIDKey, s.cfg.Identity.DemoUserID)
	return c.Next()
}

// tokenIdentity replaces the demo identity with the subject of a bearer
// token when one is presented.
func (s *Server) tokenIdentity() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(s.cfg.JWT.Secret),
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwtv4.Token)
			if !ok {
				return unauthorized(c)
			}
			claims, ok := token.Claims.(jwtv4.MapClaims)
			if !ok {
				return unauthorized(c)
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return unauthorized(c)
			}
			c.Locals(userIDKey, sub)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid or expired token",
	})
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

// handleCreateSession issues a development token for any user id.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.UserID == "" {
		req.UserID = s.cfg.Identity.DemoUserID
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.UserID,
		"exp": now.Add(s.cfg.JWT.Expiration).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		s.logger.Error("Failed to sign session token", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	s.logger.Info("Session issued", "user_id", req.UserID)

	return c.JSON(SessionResponse{
		Token:     tokenString,
		TokenType: "Bearer",
		UserID:    req.UserID,
	})
}
