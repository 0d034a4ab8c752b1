package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/femmepacker/server/internal/config"
	"github.com/femmepacker/server/internal/ledger"
	"github.com/femmepacker/server/internal/models"
	"github.com/femmepacker/server/internal/quota"
)

const demoUser = "demo-user-123"

type testEnv struct {
	server    *Server
	profiles  *memProfiles
	subs      *memSubscriptions
	messages  *memMessages
	publisher *recordingPublisher
	redis     *miniredis.Miniredis
}

// setupTestServer initializes a test instance of the API server backed by
// in-memory stores and a miniredis quota store.
func setupTestServer(t *testing.T) *testEnv {
	return setupTestServerWithConfig(t, testConfig())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            ":8080",
			Environment:     "development",
			CacheExpiration: time.Second,
		},
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			Expiration: time.Hour,
		},
		Identity: config.IdentityConfig{DemoUserID: demoUser},
	}
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	miniRedis := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: miniRedis.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profiles := newMemProfiles()
	subs := newMemSubscriptions()
	messages := &memMessages{}
	publisher := &recordingPublisher{}
	requests := &memRequests{byID: map[string]models.HostingRequest{}}
	reviews := &memReviews{profiles: profiles}

	server, err := NewServer(cfg, Deps{
		Profiles:      profiles,
		Subscriptions: subs,
		Messages:      messages,
		Maps:          &memMaps{},
		Quota:         quota.NewTracker(quota.NewRedisStore(redisClient), subs),
		Ledger:        ledger.New(profiles, requests, reviews, publisher, logger),
		Publisher:     publisher,
		Logger:        logger,
	})
	require.NoError(t, err)

	return &testEnv{
		server:    server,
		profiles:  profiles,
		subs:      subs,
		messages:  messages,
		publisher: publisher,
		redis:     miniRedis,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return e.doWithHeaders(t, method, path, body, headers)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.server.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func hostProfile(id, userID, country string, interests, languages []string) models.Profile {
	return models.Profile{
		ID:                id,
		UserID:            userID,
		Name:              id,
		CanHost:           true,
		Country:           country,
		Interests:         pq.StringArray(interests),
		Languages:         pq.StringArray(languages),
		PreviousLocations: pq.StringArray{},
	}
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "GET", "/health", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProfileLifecycle(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "GET", "/api/profile", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "Profile not found", errBody["error"])

	resp = env.do(t, "POST", "/api/profile", map[string]interface{}{
		"id":          "forged",
		"userId":      "someone-else",
		"rating":      5,
		"name":        "Ana",
		"country":     "Spain",
		"canHost":     true,
		"interests":   []string{"hiking", "food"},
		"languages":   []string{"Spanish"},
		"maxCapacity": 2,

		"bornIn":               "Lima",
		"usualStayLength":      "2 weeks",
		"availabilityFlexible": false,
		"availabilityFrom":     "2026-06-01",
		"availabilityTo":       "2026-09-01",
		"availabilityDays":     14,
		"preferredTransport":   []string{"train"},
		"customActivities":     []string{"salsa"},
		"greenFlags":           "early riser",
		"instagramHandle":      "@ana",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.Profile
	decode(t, resp, &created)
	assert.NotEqual(t, "forged", created.ID)
	assert.Equal(t, demoUser, created.UserID)
	assert.Equal(t, 0.0, created.Rating)
	assert.Equal(t, []string{"hiking", "food"}, []string(created.Interests))
	assert.Equal(t, 2, created.MaxCapacity)
	assert.Equal(t, "Lima", created.BornIn)
	assert.Equal(t, "2 weeks", created.UsualStayLength)
	assert.False(t, created.AvailabilityFlexible)
	assert.Equal(t, "2026-06-01", created.AvailabilityFrom)
	assert.Equal(t, 14, created.AvailabilityDays)
	assert.Equal(t, []string{"train"}, []string(created.PreferredTransport))
	assert.Equal(t, []string{"salsa"}, []string(created.CustomActivities))
	assert.Equal(t, []string{}, []string(created.PreferredStay))
	assert.Equal(t, "early riser", created.GreenFlags)
	assert.Equal(t, "@ana", created.InstagramHandle)

	resp = env.do(t, "POST", "/api/profile", map[string]string{"name": "Again"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "Profile already exists", errBody["error"])

	resp = env.do(t, "PATCH", "/api/profile", map[string]interface{}{
		"bio":              "Loves mountains",
		"userId":           "hijack",
		"reviewCount":      99,
		"spotifyConnected": true,
		"spotifyUserId":    "spotify-42",
		"preferredStay":    []string{"couch"},
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.Profile
	decode(t, resp, &updated)
	assert.Equal(t, "Loves mountains", updated.Bio)
	assert.Equal(t, "Ana", updated.Name)
	assert.True(t, updated.SpotifyConnected)
	assert.Equal(t, "spotify-42", updated.SpotifyUserID)
	assert.Equal(t, []string{"couch"}, []string(updated.PreferredStay))
	assert.Equal(t, "Lima", updated.BornIn)
	assert.Equal(t, 14, updated.AvailabilityDays)
	assert.Equal(t, demoUser, updated.UserID)
	assert.Equal(t, 0, updated.ReviewCount)

	resp = env.do(t, "GET", "/api/profiles/"+created.ID, nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateProfileRejectsBadTypes(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{name"},
		{name: "array body", body: `["x"]`},
		{name: "numeric name", body: `{"name": 3}`},
		{name: "interests not strings", body: `{"interests": [1, 2]}`},
		{name: "fractional capacity", body: `{"maxCapacity": 1.5}`},
		{name: "canHost as string", body: `{"canHost": "yes"}`},
		{name: "negative availability days", body: `{"availabilityDays": -1}`},
		{name: "transport not a list", body: `{"preferredTransport": "bus"}`},
		{name: "spotifyConnected as number", body: `{"spotifyConnected": 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, "POST", "/api/profile", tc.body, "")
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, "Invalid profile data", body["error"])
		})
	}
}

func TestUpdateProfileMissing(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "PATCH", "/api/profile", map[string]string{"bio": "x"}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMatchHosts(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "GET", "/api/hosts/match", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	requester := models.Profile{
		ID:                "me",
		UserID:            demoUser,
		Interests:         pq.StringArray{"hiking", "food", "art"},
		Languages:         pq.StringArray{"English", "Spanish"},
		PreviousLocations: pq.StringArray{"Portugal"},
	}
	env.profiles.put(requester)
	env.profiles.put(hostProfile("h1", "u1", "Portugal", []string{"hiking", "food"}, []string{"Spanish"}))
	env.profiles.put(hostProfile("h2", "u2", "France", nil, nil))
	notHost := hostProfile("h3", "u3", "Portugal", []string{"hiking"}, nil)
	notHost.CanHost = false
	env.profiles.put(notHost)

	resp = env.do(t, "GET", "/api/hosts/match", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var matches []map[string]interface{}
	decode(t, resp, &matches)
	require.Len(t, matches, 2)

	assert.Equal(t, "h1", matches[0]["id"])
	assert.Equal(t, float64(8), matches[0]["matchScore"])
	assert.Equal(t, []interface{}{"shares hiking, food", "speaks Spanish"}, matches[0]["matchReasons"])
	assert.Equal(t, "Portugal", matches[0]["country"])

	assert.Equal(t, "h2", matches[1]["id"])
	assert.Equal(t, float64(0), matches[1]["matchScore"])
	assert.Equal(t, []interface{}{"compatible travel style"}, matches[1]["matchReasons"])
}

func TestQuotaSummaryForNewUser(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "GET", "/api/quota", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary models.QuotaSummary
	decode(t, resp, &summary)
	assert.Equal(t, models.QuotaSummary{
		Tier:          models.TierFree,
		AILimit:       quota.FreeAILimit,
		HostLimit:     quota.FreeHostLimit,
		CanSendToAI:   true,
		CanSendToHost: true,
	}, summary)

	sub, err := env.subs.GetSubscription(context.Background(), demoUser)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, sub.Tier)
}

func TestSendToAIStopsAtFreeLimit(t *testing.T) {
	env := setupTestServer(t)

	for i := 0; i < quota.FreeAILimit; i++ {
		resp := env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "where should I go?"}, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "send %d", i+1)
		var ok map[string]bool
		decode(t, resp, &ok)
		assert.True(t, ok["success"])
	}

	resp := env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "one more"}, "")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	var denied map[string]interface{}
	decode(t, resp, &denied)
	assert.Equal(t, "free", denied["tier"])
	assert.Equal(t, float64(quota.FreeAILimit), denied["limit"])
	assert.Equal(t, float64(quota.FreeAILimit), denied["current"])
	assert.NotEmpty(t, denied["error"])

	assert.Equal(t, quota.FreeAILimit, env.messages.count())
	assert.Len(t, env.publisher.types(), quota.FreeAILimit)

	resp = env.do(t, "GET", "/api/quota", nil, "")
	var summary models.QuotaSummary
	decode(t, resp, &summary)
	assert.Equal(t, quota.FreeAILimit, summary.AIMessages)
	assert.False(t, summary.CanSendToAI)
	assert.True(t, summary.CanSendToHost)
}

func TestSendToHost(t *testing.T) {
	env := setupTestServer(t)
	env.profiles.put(hostProfile("h1", "host-user", "Peru", nil, nil))

	resp := env.do(t, "POST", "/api/messages/send-to-host", map[string]string{"hostId": "missing", "content": "hi"}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "POST", "/api/messages/send-to-host", map[string]string{"hostId": "h1", "content": "  "}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	for i := 0; i < quota.FreeHostLimit; i++ {
		resp = env.do(t, "POST", "/api/messages/send-to-host", map[string]string{"hostId": "h1", "content": "hi"}, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp = env.do(t, "POST", "/api/messages/send-to-host", map[string]string{"hostId": "h1", "content": "hi"}, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	env.messages.mu.Lock()
	defer env.messages.mu.Unlock()
	require.Len(t, env.messages.messages, quota.FreeHostLimit)
	assert.Equal(t, "host-user", env.messages.messages[0].RecipientID)
	assert.Equal(t, models.ClassHost, env.messages.messages[0].Class)
}

func TestPremiumSubscriptionIsUnlimited(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "PUT", "/api/subscription", map[string]string{"tier": "gold"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "PUT", "/api/subscription", map[string]string{"tier": "premium"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "premium needs a billing reference")

	resp = env.do(t, "PUT", "/api/subscription", map[string]string{"tier": "premium", "billingReference": "cus_123"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sub models.UserSubscription
	decode(t, resp, &sub)
	assert.Equal(t, models.TierPremium, sub.Tier)
	assert.Equal(t, "cus_123", sub.BillingReference)

	for i := 0; i < quota.FreeAILimit+3; i++ {
		resp = env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "hello"}, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp = env.do(t, "GET", "/api/quota", nil, "")
	var summary models.QuotaSummary
	decode(t, resp, &summary)
	assert.Equal(t, quota.Unlimited, summary.AILimit)
	assert.Equal(t, quota.FreeAILimit+3, summary.AIMessages)
	assert.True(t, summary.CanSendToAI)

	resp = env.do(t, "GET", "/api/subscription", nil, "")
	decode(t, resp, &sub)
	assert.Equal(t, models.TierPremium, sub.Tier)
}

func TestSubscriptionChangeDisabledInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Environment = "production"
	env := setupTestServerWithConfig(t, cfg)

	for i := 0; i < quota.FreeAILimit; i++ {
		resp := env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "hi"}, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := env.do(t, "PUT", "/api/subscription", map[string]string{"tier": "premium", "billingReference": "cus_123"}, "")
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)

	resp = env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "one more"}, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, "GET", "/api/subscription", nil, "")
	var sub models.UserSubscription
	decode(t, resp, &sub)
	assert.Equal(t, models.TierFree, sub.Tier)
}

func TestSubscriptionChangeRequiresBillingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Environment = "production"
	cfg.Billing.WebhookSecret = "whsec_test"
	env := setupTestServerWithConfig(t, cfg)

	body := map[string]string{"userId": "alice", "tier": "premium", "billingReference": "cus_123"}

	resp := env.do(t, "PUT", "/api/subscription", body, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.doWithHeaders(t, "PUT", "/api/subscription", body, map[string]string{BillingSecretHeader: "guess"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, err := env.subs.GetSubscription(context.Background(), "alice")
	assert.ErrorIs(t, err, models.ErrNotFound)

	resp = env.doWithHeaders(t, "PUT", "/api/subscription", body, map[string]string{BillingSecretHeader: "whsec_test"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sub models.UserSubscription
	decode(t, resp, &sub)
	assert.Equal(t, "alice", sub.UserID)
	assert.Equal(t, models.TierPremium, sub.Tier)

	resp = env.do(t, "GET", "/api/subscription", nil, "")
	decode(t, resp, &sub)
	assert.Equal(t, demoUser, sub.UserID)
	assert.Equal(t, models.TierFree, sub.Tier)
}

func TestSessionTokenIdentity(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "POST", "/api/session", map[string]string{"userId": "alice"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var session SessionResponse
	decode(t, resp, &session)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, "alice", session.UserID)
	require.NotEmpty(t, session.Token)

	resp = env.do(t, "POST", "/api/profile", map[string]string{"name": "Alice"}, session.Token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var profile models.Profile
	decode(t, resp, &profile)
	assert.Equal(t, "alice", profile.UserID)

	resp = env.do(t, "GET", "/api/profile", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "demo user has no profile")

	resp = env.do(t, "GET", "/api/profile", nil, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionDisabledInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Environment = "production"
	env := setupTestServerWithConfig(t, cfg)

	resp := env.do(t, "POST", "/api/session", map[string]string{"userId": "alice"}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHostingRequestFlow(t *testing.T) {
	env := setupTestServer(t)
	env.profiles.put(hostProfile("h1", "host-user", "Peru", nil, nil))

	resp := env.do(t, "POST", "/api/hosting-requests", map[string]string{"hostId": "h1", "checkInDate": "2025-07-01"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/hosting-requests", map[string]string{
		"hostId":       "h1",
		"checkInDate":  "2025-07-01",
		"checkOutDate": "2025-07-04",
		"message":      "Hola!",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.HostingRequest
	decode(t, resp, &created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, demoUser, created.GuestID)

	resp = env.do(t, "GET", "/api/hosting-requests", nil, "")
	var listed []models.HostingRequest
	decode(t, resp, &listed)
	assert.Len(t, listed, 1)

	statusPath := "/api/hosting-requests/" + created.ID + "/status"

	resp = env.do(t, "PATCH", statusPath, map[string]string{"status": "accepted"}, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "guest cannot accept their own request")
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "Not allowed to modify this hosting request", errBody["error"])

	resp = env.do(t, "POST", "/api/session", map[string]string{"userId": "host-user"}, "")
	var session SessionResponse
	decode(t, resp, &session)

	resp = env.do(t, "PATCH", statusPath, map[string]string{"status": "accepted"}, session.Token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, "PATCH", statusPath, map[string]string{"status": "pending"}, session.Token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.do(t, "PATCH", statusPath, map[string]string{"status": "cancelled"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "guest can cancel")

	resp = env.do(t, "PATCH", "/api/hosting-requests/unknown/status", map[string]string{"status": "accepted"}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Equal(t, []models.EventType{
		models.EventHostingRequestCreated,
		models.EventHostingRequestStatus,
		models.EventHostingRequestStatus,
	}, env.publisher.types())
}

func TestReviewsUpdateHostRating(t *testing.T) {
	env := setupTestServer(t)
	env.profiles.put(hostProfile("h1", "host-user", "Peru", nil, nil))

	resp := env.do(t, "POST", "/api/reviews", map[string]interface{}{"hostId": "h1"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	for _, rating := range []int{5, 3} {
		resp = env.do(t, "POST", "/api/reviews", map[string]interface{}{"hostId": "h1", "rating": rating, "comment": "ok"}, "")
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp = env.do(t, "GET", "/api/reviews/h1", nil, "")
	var reviews []models.Review
	decode(t, resp, &reviews)
	assert.Len(t, reviews, 2)

	resp = env.do(t, "GET", "/api/profiles/h1", nil, "")
	var host models.Profile
	decode(t, resp, &host)
	assert.InDelta(t, 4.0, host.Rating, 0.0001)
	assert.Equal(t, 2, host.ReviewCount)

	resp = env.do(t, "POST", "/api/reviews", map[string]interface{}{"hostId": "ghost", "rating": 4}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserMaps(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "POST", "/api/user-maps", map[string]interface{}{"title": "", "price": 1}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/user-maps", map[string]interface{}{"title": "Lima eats", "price": -1}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/user-maps", map[string]interface{}{"title": "Lima eats", "price": 2.5}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decode(t, resp, &created)
	assert.Equal(t, true, created["isPublic"])
	assert.Equal(t, map[string]interface{}{"markers": []interface{}{}}, created["mapData"])

	resp = env.do(t, "POST", "/api/user-maps", map[string]interface{}{
		"title":    "Secret spots",
		"isPublic": false,
		"mapData":  map[string]interface{}{"markers": []map[string]float64{{"lat": 1, "lng": 2}}},
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.do(t, "GET", "/api/user-maps", nil, "")
	var public []models.UserMap
	decode(t, resp, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "Lima eats", public[0].Title)

	resp = env.do(t, "GET", "/api/user-maps/mine", nil, "")
	var mine []models.UserMap
	decode(t, resp, &mine)
	assert.Len(t, mine, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, "POST", "/api/messages/send-to-ai", map[string]string{"content": "hi"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, "GET", "/metrics", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `femmepacker_messages_sent_total{class="ai"} 1`)
}
