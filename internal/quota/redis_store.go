package quota

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/femmepacker/server/internal/models"
)

const redisKeyTemplate = "quota:%s"

// ensureRow creates the month hash with zeroed counters if it is missing.
const ensureRow = `
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'id', ARGV[1], 'userId', ARGV[2], 'month', ARGV[3],
    'aiMessages', '0', 'hostMessages', '0', 'createdAt', ARGV[4])
end
`

var (
	createScript = redis.NewScript(ensureRow + `return 1`)

	// reserveScript returns {reserved, counter}. A negative limit never refuses.
	reserveScript = redis.NewScript(ensureRow + `
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[5]))
local limit = tonumber(ARGV[6])
if limit >= 0 and current >= limit then
  return {0, current}
end
return {1, redis.call('HINCRBY', KEYS[1], ARGV[5], 1)}
`)
)

// RedisStore keeps one hash per (user, month). Rows of past months are left
// in place; nothing reads them once the month key changes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func quotaKey(userID, month string) string {
	return fmt.Sprintf(redisKeyTemplate, models.QuotaKey(userID, month))
}

func counterField(class models.MessageClass) (string, error) {
	switch class {
	case models.ClassAI:
		return "aiMessages", nil
	case models.ClassHost:
		return "hostMessages", nil
	}
	return "", fmt.Errorf("unknown message class %q", class)
}

func rowArgs(userID, month string, now time.Time) []interface{} {
	return []interface{}{uuid.NewString(), userID, month, now.UTC().Format(time.RFC3339Nano)}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, userID, month string, now time.Time) (models.MessageQuota, error) {
	key := quotaKey(userID, month)
	if err := createScript.Run(ctx, s.client, []string{key}, rowArgs(userID, month, now)...).Err(); err != nil {
		return models.MessageQuota{}, fmt.Errorf("RedisStore.GetOrCreate: %w", err)
	}
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return models.MessageQuota{}, fmt.Errorf("RedisStore.GetOrCreate: %w", err)
	}
	return decodeQuota(fields)
}

func (s *RedisStore) Reserve(ctx context.Context, userID, month string, class models.MessageClass, limit int, now time.Time) (bool, int, error) {
	field, err := counterField(class)
	if err != nil {
		return false, 0, err
	}
	args := append(rowArgs(userID, month, now), field, limit)
	res, err := reserveScript.Run(ctx, s.client, []string{quotaKey(userID, month)}, args...).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("RedisStore.Reserve: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("RedisStore.Reserve: unexpected script reply %v", res)
	}
	return res[0] == 1, int(res[1]), nil
}

func decodeQuota(fields map[string]string) (models.MessageQuota, error) {
	ai, err := strconv.Atoi(fields["aiMessages"])
	if err != nil {
		return models.MessageQuota{}, fmt.Errorf("decode aiMessages: %w", err)
	}
	host, err := strconv.Atoi(fields["hostMessages"])
	if err != nil {
		return models.MessageQuota{}, fmt.Errorf("decode hostMessages: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["createdAt"])
	if err != nil {
		return models.MessageQuota{}, fmt.Errorf("decode createdAt: %w", err)
	}
	return models.MessageQuota{
		ID:           fields["id"],
		UserID:       fields["userId"],
		Month:        fields["month"],
		AIMessages:   ai,
		HostMessages: host,
		CreatedAt:    createdAt,
	}, nil
}
