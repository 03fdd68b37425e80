package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DestinationKey is the key the sync destination URL is stored under.
const DestinationKey = "sync-destination-url"

var ErrSave = errors.New("saving settings")

//go:generate mockgen -source=settings.go -destination=repository_mock.go -package=settings
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Service holds the sync destination URL. The last loaded or saved value is
// cached so readers never touch the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu          sync.RWMutex
	destination string
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Load reads the destination from the repository. A missing value leaves the
// destination unset; a read failure also leaves it unset and is returned.
func (s *Service) Load(ctx context.Context) error {
	value, ok, err := s.repo.Get(ctx, DestinationKey)
	if err != nil {
		s.logger.Warn("sync destination unreadable", "error", err)
		return fmt.Errorf("loading sync destination: %w", err)
	}

	if !ok {
		return nil
	}

	s.mu.Lock()
	s.destination = strings.TrimSpace(value)
	s.mu.Unlock()

	return nil
}

// Save persists url as the destination. The cached value only changes once the
// repository accepted it. An empty url clears the destination.
func (s *Service) Save(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)

	if err := s.repo.Set(ctx, DestinationKey, url); err != nil {
		s.logger.Error("saving sync destination", "error", err)
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	s.mu.Lock()
	s.destination = url
	s.mu.Unlock()

	s.logger.Info("sync destination saved", "configured", url != "")

	return nil
}

// Destination returns the configured URL, or "" when none is set.
func (s *Service) Destination() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.destination
}
