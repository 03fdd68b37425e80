package memcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
)

const keyPrefix = "tally:"

// Store keeps values in memcached. Values are stored without expiry but may
// still be evicted by the server.
type Store struct {
	client *memcache.Client
}

func New(hosts ...string) (*Store, error) {
	client := memcache.New(hosts...)
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("pinging memcached: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	item, err := s.client.Get(keyPrefix + key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}

	return string(item.Value), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.client.Set(&memcache.Item{
		Key:   keyPrefix + key,
		Value: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}
