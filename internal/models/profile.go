package models

import (
	"time"

	"github.com/lib/pq"
)

// Profile is a member's travel profile. There is exactly one per user.
// Rating and ReviewCount are derived from the host's reviews and are only
// written by the review aggregator.
type Profile struct {
	ID                string         `json:"id" db:"id"`
	UserID            string         `json:"userId" db:"user_id"`
	Name              string         `json:"name" db:"name"`
	AboutMe           string         `json:"aboutMe" db:"about_me"`
	Bio               string         `json:"bio" db:"bio"`
	CanHost           bool           `json:"canHost" db:"can_host"`
	Country           string         `json:"country" db:"country"`
	BornIn            string         `json:"bornIn" db:"born_in"`
	PreviousLocations pq.StringArray `json:"previousLocations" db:"previous_locations"`
	Languages         pq.StringArray `json:"languages" db:"languages"`
	Interests         pq.StringArray `json:"interests" db:"interests"`
	UsualStayLength   string         `json:"usualStayLength" db:"usual_stay_length"`
	TravelStyle       string         `json:"travelStyle" db:"travel_style"`
	MaxCapacity       int            `json:"maxCapacity" db:"max_capacity"`
	MaxDuration       string         `json:"maxDuration" db:"max_duration"`

	AvailabilityFlexible bool   `json:"availabilityFlexible" db:"availability_flexible"`
	AvailabilityFrom     string `json:"availabilityFrom" db:"availability_from"`
	AvailabilityTo       string `json:"availabilityTo" db:"availability_to"`
	AvailabilityDays     int    `json:"availabilityDays" db:"availability_days"`

	PreferredDays       pq.StringArray `json:"preferredDays" db:"preferred_days"`
	CustomPreferredDays string         `json:"customPreferredDays" db:"custom_preferred_days"`
	PreferredTransport  pq.StringArray `json:"preferredTransport" db:"preferred_transport"`
	CustomTransport     pq.StringArray `json:"customTransport" db:"custom_transport"`
	PreferredStay       pq.StringArray `json:"preferredStay" db:"preferred_stay"`
	CustomStay          pq.StringArray `json:"customStay" db:"custom_stay"`
	PreferredActivities pq.StringArray `json:"preferredActivities" db:"preferred_activities"`
	CustomActivities    pq.StringArray `json:"customActivities" db:"custom_activities"`
	RedFlags            string         `json:"redFlags" db:"red_flags"`
	GreenFlags          string         `json:"greenFlags" db:"green_flags"`

	InstagramHandle  string `json:"instagramHandle" db:"instagram_handle"`
	SocialMediaLink  string `json:"socialMediaLink" db:"social_media_link"`
	SpotifyConnected bool   `json:"spotifyConnected" db:"spotify_connected"`
	SpotifyUserID    string `json:"spotifyUserId" db:"spotify_user_id"`

	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"reviewCount" db:"review_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate carries a partial profile. Nil fields keep their prior value.
type ProfileUpdate struct {
	Name              *string
	AboutMe           *string
	Bio               *string
	CanHost           *bool
	Country           *string
	BornIn            *string
	PreviousLocations *[]string
	Languages         *[]string
	Interests         *[]string
	UsualStayLength   *string
	TravelStyle       *string
	MaxCapacity       *int
	MaxDuration       *string

	AvailabilityFlexible *bool
	AvailabilityFrom     *string
	AvailabilityTo       *string
	AvailabilityDays     *int

	PreferredDays       *[]string
	CustomPreferredDays *string
	PreferredTransport  *[]string
	CustomTransport     *[]string
	PreferredStay       *[]string
	CustomStay          *[]string
	PreferredActivities *[]string
	CustomActivities    *[]string
	RedFlags            *string
	GreenFlags          *string

	InstagramHandle  *string
	SocialMediaLink  *string
	SpotifyConnected *bool
	SpotifyUserID    *string
}

// Apply copies every set field of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	setString(&p.Name, u.Name)
	setString(&p.AboutMe, u.AboutMe)
	setString(&p.Bio, u.Bio)
	setBool(&p.CanHost, u.CanHost)
	setString(&p.Country, u.Country)
	setString(&p.BornIn, u.BornIn)
	setList(&p.PreviousLocations, u.PreviousLocations)
	setList(&p.Languages, u.Languages)
	setList(&p.Interests, u.Interests)
	setString(&p.UsualStayLength, u.UsualStayLength)
	setString(&p.TravelStyle, u.TravelStyle)
	setInt(&p.MaxCapacity, u.MaxCapacity)
	setString(&p.MaxDuration, u.MaxDuration)

	setBool(&p.AvailabilityFlexible, u.AvailabilityFlexible)
	setString(&p.AvailabilityFrom, u.AvailabilityFrom)
	setString(&p.AvailabilityTo, u.AvailabilityTo)
	setInt(&p.AvailabilityDays, u.AvailabilityDays)

	setList(&p.PreferredDays, u.PreferredDays)
	setString(&p.CustomPreferredDays, u.CustomPreferredDays)
	setList(&p.PreferredTransport, u.PreferredTransport)
	setList(&p.CustomTransport, u.CustomTransport)
	setList(&p.PreferredStay, u.PreferredStay)
	setList(&p.CustomStay, u.CustomStay)
	setList(&p.PreferredActivities, u.PreferredActivities)
	setList(&p.CustomActivities, u.CustomActivities)
	setString(&p.RedFlags, u.RedFlags)
	setString(&p.GreenFlags, u.GreenFlags)

	setString(&p.InstagramHandle, u.InstagramHandle)
	setString(&p.SocialMediaLink, u.SocialMediaLink)
	setBool(&p.SpotifyConnected, u.SpotifyConnected)
	setString(&p.SpotifyUserID, u.SpotifyUserID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *pq.StringArray, v *[]string) {
	if v != nil {
		*dst = pq.StringArray(*v)
	}
}

// NewProfile builds a fresh profile for userID with defaults and then applies u.
// List fields start empty and availability starts flexible.
func NewProfile(id, userID string, u ProfileUpdate, now time.Time) Profile {
	p := Profile{
		ID:                   id,
		UserID:               userID,
		PreviousLocations:    pq.StringArray{},
		Languages:            pq.StringArray{},
		Interests:            pq.StringArray{},
		AvailabilityFlexible: true,
		PreferredDays:        pq.StringArray{},
		PreferredTransport:   pq.StringArray{},
		CustomTransport:      pq.StringArray{},
		PreferredStay:        pq.StringArray{},
		CustomStay:           pq.StringArray{},
		PreferredActivities:  pq.StringArray{},
		CustomActivities:     pq.StringArray{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	u.Apply(&p)
	return p
}
