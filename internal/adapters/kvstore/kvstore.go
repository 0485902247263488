// Package kvstore implements the persistence contract on top of a
// key-value server, the way the browser deployment keeps each collection
// as one serialized value under a fixed key.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// Fixed collection keys.
const (
	tasksKey        = "tasks"
	notesKey        = "notes"
	specialDatesKey = "special-dates-storage"
	settingsKey     = "daybook-settings"
)

// Store owns the key-value client shared by the collection adapters.
type Store struct {
	client *redis.Client
	logger *logger.Logger
}

// New connects to the key-value server and verifies the connection.
func New(cfg config.RedisConfig, log *logger.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to key-value store: %w", err)
	}

	return &Store{
		client: client,
		logger: log.WithComponent("kvstore"),
	}, nil
}

// NewWithClient wraps an existing client. Used in tests.
func NewWithClient(client *redis.Client, log *logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log.WithComponent("kvstore"),
	}
}

func (s *Store) Kind() ports.BackendKind { return ports.BackendKV }

func (s *Store) Tasks() ports.TaskStorage               { return &taskStore{s} }
func (s *Store) Notes() ports.NoteStorage               { return &noteStore{s} }
func (s *Store) SpecialDates() ports.SpecialDateStorage { return &specialDateStore{s} }
func (s *Store) Settings() ports.SettingsStorage        { return &settingsStore{s} }

// Close releases the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// getJSON loads and decodes the value under key into dest. A missing key
// is not an error; dest is left untouched.
func (s *Store) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// setJSON encodes value and stores it under key.
func (s *Store) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// drop removes the value under key.
func (s *Store) drop(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
