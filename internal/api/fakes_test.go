package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/femmepacker/server/internal/models"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]models.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: map[string]models.Profile{}}
}

func (m *memProfiles) put(p models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
}

func (m *memProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) List(ctx context.Context) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Profile, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProfiles) Create(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.UserID == p.UserID {
			return models.ErrAlreadyExists
		}
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *memProfiles) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.byID {
		if p.UserID == userID {
			upd.Apply(&p)
			p.UpdatedAt = time.Now().UTC()
			m.byID[id] = p
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

type memSubscriptions struct {
	mu     sync.Mutex
	byUser map[string]models.UserSubscription
}

func newMemSubscriptions() *memSubscriptions {
	return &memSubscriptions{byUser: map[string]models.UserSubscription{}}
}

func (m *memSubscriptions) GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byUser[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &sub, nil
}

func (m *memSubscriptions) EnsureSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byUser[userID]
	if !ok {
		now := time.Now().UTC()
		sub = models.UserSubscription{ID: "sub-" + userID, UserID: userID, Tier: models.TierFree, CreatedAt: now, UpdatedAt: now}
		m.byUser[userID] = sub
	}
	return &sub, nil
}

func (m *memSubscriptions) SetTier(ctx context.Context, userID string, tier models.Tier, billingRef string, nextBilling *time.Time) (*models.UserSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := m.byUser[userID]
	sub.ID = "sub-" + userID
	sub.UserID = userID
	sub.Tier = tier
	sub.BillingReference = billingRef
	sub.NextBillingDate = nextBilling
	m.byUser[userID] = sub
	return &sub, nil
}

type memMessages struct {
	mu       sync.Mutex
	messages []models.Message
}

func (m *memMessages) Create(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type memMaps struct {
	mu   sync.Mutex
	maps []models.UserMap
}

func (m *memMaps) Create(ctx context.Context, um *models.UserMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps = append(m.maps, *um)
	return nil
}

func (m *memMaps) ListPublic(ctx context.Context) ([]models.UserMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserMap{}
	for _, um := range m.maps {
		if um.IsPublic {
			out = append(out, um)
		}
	}
	return out, nil
}

func (m *memMaps) ListByUser(ctx context.Context, userID string) ([]models.UserMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserMap{}
	for _, um := range m.maps {
		if um.UserID == userID {
			out = append(out, um)
		}
	}
	return out, nil
}

type memRequests struct {
	mu   sync.Mutex
	byID map[string]models.HostingRequest
}

func (m *memRequests) Create(ctx context.Context, req *models.HostingRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[req.ID] = *req
	return nil
}

func (m *memRequests) Get(ctx context.Context, id string) (*models.HostingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (m *memRequests) ListForUser(ctx context.Context, guestID, hostID string) ([]models.HostingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.HostingRequest{}
	for _, r := range m.byID {
		if r.GuestID == guestID || (hostID != "" && r.HostID == hostID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequests) UpdateStatus(ctx context.Context, id string, next models.RequestStatus) (*models.HostingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !r.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	m.byID[id] = r
	return &r, nil
}

// memReviews recomputes the host's aggregate on every insert.
type memReviews struct {
	mu       sync.Mutex
	profiles *memProfiles
	reviews  []models.Review
}

func (m *memReviews) Create(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	host, err := m.profiles.GetByID(ctx, review.HostID)
	if err != nil {
		return err
	}
	m.reviews = append(m.reviews, *review)
	sum, n := 0, 0
	for _, r := range m.reviews {
		if r.HostID == review.HostID {
			sum += r.Rating
			n++
		}
	}
	host.Rating = float64(sum) / float64(n)
	host.ReviewCount = n
	m.profiles.put(*host)
	return nil
}

func (m *memReviews) ListByHost(ctx context.Context, hostID string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.HostID == hostID {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
