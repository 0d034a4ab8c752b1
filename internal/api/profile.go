package api

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/femmepacker/server/internal/models"
)

// parseProfileUpdate reads the editable profile fields from a JSON object.
// Identity and derived fields (id, userId, rating, reviewCount) are ignored.
// Absent and null fields are left unset.
func parseProfileUpdate(body []byte) (models.ProfileUpdate, error) {
	var u models.ProfileUpdate
	if !gjson.ValidBytes(body) {
		return u, models.NewValidationError("body", "invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return u, models.NewValidationError("body", "must be a JSON object")
	}

	for name, dst := range map[string]**string{
		"name":                &u.Name,
		"aboutMe":             &u.AboutMe,
		"bio":                 &u.Bio,
		"country":             &u.Country,
		"bornIn":              &u.BornIn,
		"usualStayLength":     &u.UsualStayLength,
		"travelStyle":         &u.TravelStyle,
		"maxDuration":         &u.MaxDuration,
		"availabilityFrom":    &u.AvailabilityFrom,
		"availabilityTo":      &u.AvailabilityTo,
		"customPreferredDays": &u.CustomPreferredDays,
		"redFlags":            &u.RedFlags,
		"greenFlags":          &u.GreenFlags,
		"instagramHandle":     &u.InstagramHandle,
		"socialMediaLink":     &u.SocialMediaLink,
		"spotifyUserId":       &u.SpotifyUserID,
	} {
		v, err := stringField(root, name)
		if err != nil {
			return u, err
		}
		*dst = v
	}

	for name, dst := range map[string]**[]string{
		"previousLocations":   &u.PreviousLocations,
		"languages":           &u.Languages,
		"interests":           &u.Interests,
		"preferredDays":       &u.PreferredDays,
		"preferredTransport":  &u.PreferredTransport,
		"customTransport":     &u.CustomTransport,
		"preferredStay":       &u.PreferredStay,
		"customStay":          &u.CustomStay,
		"preferredActivities": &u.PreferredActivities,
		"customActivities":    &u.CustomActivities,
	} {
		v, err := stringListField(root, name)
		if err != nil {
			return u, err
		}
		*dst = v
	}

	for name, dst := range map[string]**bool{
		"canHost":              &u.CanHost,
		"availabilityFlexible": &u.AvailabilityFlexible,
		"spotifyConnected":     &u.SpotifyConnected,
	} {
		v, err := boolField(root, name)
		if err != nil {
			return u, err
		}
		*dst = v
	}

	for name, dst := range map[string]**int{
		"maxCapacity":      &u.MaxCapacity,
		"availabilityDays": &u.AvailabilityDays,
	} {
		v, err := countField(root, name)
		if err != nil {
			return u, err
		}
		*dst = v
	}

	return u, nil
}

func stringField(root gjson.Result, name string) (*string, error) {
	r := root.Get(name)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if r.Type != gjson.String {
		return nil, models.NewValidationError(name, "must be a string")
	}
	s := r.String()
	return &s, nil
}

func boolField(root gjson.Result, name string) (*bool, error) {
	r := root.Get(name)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if r.Type != gjson.True && r.Type != gjson.False {
		return nil, models.NewValidationError(name, "must be a boolean")
	}
	b := r.Bool()
	return &b, nil
}

// countField accepts only non-negative whole numbers.
func countField(root gjson.Result, name string) (*int, error) {
	r := root.Get(name)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if r.Type != gjson.Number || r.Num < 0 || r.Num != math.Trunc(r.Num) {
		return nil, models.NewValidationError(name, "must be a non-negative integer")
	}
	n := int(r.Int())
	return &n, nil
}

func stringListField(root gjson.Result, name string) (*[]string, error) {
	r := root.Get(name)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if !r.IsArray() {
		return nil, models.NewValidationError(name, "must be an array of strings")
	}
	list := []string{}
	for _, item := range r.Array() {
		if item.Type != gjson.String {
			return nil, models.NewValidationError(name, "must be an array of strings")
		}
		list = append(list, item.String())
	}
	return &list, nil
}

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	profile, err := s.profiles.GetByUserID(c.Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err, "Profile")
	}
	return c.JSON(profile)
}

func (s *Server) handleGetProfileByID(c *fiber.Ctx) error {
	profile, err := s.profiles.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err, "Profile")
	}
	return c.JSON(profile)
}

// handleCreateProfile creates the caller's profile. A user has at most one.
func (s *Server) handleCreateProfile(c *fiber.Ctx) error {
	upd, err := parseProfileUpdate(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile data",
		})
	}

	userID := currentUser(c)
	s.logger.Info("Creating profile for user", "user_id", userID)

	profile := models.NewProfile(uuid.NewString(), userID, upd, time.Now().UTC())
	if err := s.profiles.Create(c.Context(), &profile); err != nil {
		return s.writeError(c, err, "Profile")
	}

	s.logger.Info("Profile created successfully", "user_id", userID, "profile_id", profile.ID)
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	upd, err := parseProfileUpdate(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	profile, err := s.profiles.Update(c.Context(), currentUser(c), upd)
	if err != nil {
		return s.writeError(c, err, "Profile")
	}
	return c.JSON(profile)
}
