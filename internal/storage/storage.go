// Package storage is the key/value layer behind sessions, navigation state
// and the demo proposal list.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores val; ttl <= 0 keeps the key until it is deleted.
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type scoped struct {
	base   Storage
	prefix string
}

// Scoped namespaces every key under one browser session.
func Scoped(s Storage, sessionID string) Storage {
	return &scoped{base: s, prefix: "sess:" + sessionID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.base.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return s.base.Set(ctx, s.prefix+key, val, ttl)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.base.Delete(ctx, full...)
}

// GetJSON decodes the value at key into v. A missing key returns ErrNotFound
// and leaves v untouched.
func GetJSON(ctx context.Context, s Storage, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Storage, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b), ttl)
}
