package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/femmepacker/server/internal/config"
)

type Clients struct {
	DB    *sqlx.DB
	Redis *redis.Client
}

func NewClients(dbURL string, rc config.RedisConfig) (*Clients, error) {
	// Connect to PostgreSQL
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := NewRedis(rc)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Clients{
		DB:    db,
		Redis: redisClient,
	}, nil
}

// NewRedis connects to Redis and verifies the connection with a PING.
func NewRedis(rc config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *Clients) Close() {
	if err := c.DB.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
	if err := c.Redis.Close(); err != nil {
		slog.Error("Failed to close Redis", "error", err)
	}
}

// Schema is applied statement by statement; every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		about_me TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		can_host BOOLEAN NOT NULL DEFAULT FALSE,
		country TEXT NOT NULL DEFAULT '',
		born_in TEXT NOT NULL DEFAULT '',
		previous_locations TEXT[] NOT NULL DEFAULT '{}',
		languages TEXT[] NOT NULL DEFAULT '{}',
		interests TEXT[] NOT NULL DEFAULT '{}',
		usual_stay_length TEXT NOT NULL DEFAULT '',
		travel_style TEXT NOT NULL DEFAULT '',
		max_capacity INTEGER NOT NULL DEFAULT 0,
		max_duration TEXT NOT NULL DEFAULT '',
		availability_flexible BOOLEAN NOT NULL DEFAULT TRUE,
		availability_from TEXT NOT NULL DEFAULT '',
		availability_to TEXT NOT NULL DEFAULT '',
		availability_days INTEGER NOT NULL DEFAULT 0,
		preferred_days TEXT[] NOT NULL DEFAULT '{}',
		custom_preferred_days TEXT NOT NULL DEFAULT '',
		preferred_transport TEXT[] NOT NULL DEFAULT '{}',
		custom_transport TEXT[] NOT NULL DEFAULT '{}',
		preferred_stay TEXT[] NOT NULL DEFAULT '{}',
		custom_stay TEXT[] NOT NULL DEFAULT '{}',
		preferred_activities TEXT[] NOT NULL DEFAULT '{}',
		custom_activities TEXT[] NOT NULL DEFAULT '{}',
		red_flags TEXT NOT NULL DEFAULT '',
		green_flags TEXT NOT NULL DEFAULT '',
		instagram_handle TEXT NOT NULL DEFAULT '',
		social_media_link TEXT NOT NULL DEFAULT '',
		spotify_connected BOOLEAN NOT NULL DEFAULT FALSE,
		spotify_user_id TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		host_id TEXT NOT NULL REFERENCES profiles(id),
		guest_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_host_id_idx ON reviews (host_id)`,
	`CREATE TABLE IF NOT EXISTS hosting_requests (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		host_id TEXT NOT NULL REFERENCES profiles(id),
		check_in_date TEXT NOT NULL,
		check_out_date TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		tier TEXT NOT NULL DEFAULT 'free',
		billing_reference TEXT NOT NULL DEFAULT '',
		next_billing_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		class TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_maps (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		map_data JSONB NOT NULL DEFAULT '{"markers":[]}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func (c *Clients) CreateTables() error {
	for _, stmt := range Schema {
		if _, err := c.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.Info("✅ Tables are ready!")
	return nil
}
