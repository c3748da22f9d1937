package config

import (
	"sync"

	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
)

// Store holds the live configuration and notifies subscribers when it changes.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	path    string
	changes *pubsub.Hub[Config]
}

// NewStore creates a store holding cfg, normalized. path is where toggles are
// persisted; empty disables persistence.
func NewStore(cfg Config, path string) *Store {
	return &Store{
		cfg:     cfg.Normalize(),
		path:    path,
		changes: pubsub.NewHub[Config](),
	}
}

// Get returns the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Path returns the config file path, if any.
func (s *Store) Path() string { return s.path }

// Subscribe registers fn for configuration changes.
func (s *Store) Subscribe(fn func(Config)) pubsub.Subscription {
	return s.changes.Subscribe(fn)
}

// Set replaces the configuration. Subscribers run only when the normalized
// configuration differs; Set reports whether it did.
func (s *Store) Set(cfg Config) bool {
	cfg = cfg.Normalize()

	s.mu.Lock()
	if cfg == s.cfg {
		s.mu.Unlock()
		return false
	}
	s.cfg = cfg
	s.mu.Unlock()

	log.Debug(log.CatConfig, "configuration changed")
	s.changes.Publish(cfg)
	return true
}

// SetVisible changes minimap visibility and persists it to the config file.
func (s *Store) SetVisible(visible bool) error {
	cfg := s.Get()
	cfg.Minimap.Visible = visible
	if !s.Set(cfg) {
		return nil
	}
	if s.path == "" {
		return nil
	}
	if err := SaveVisibility(s.path, visible); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save visibility", err, "path", s.path)
		return err
	}
	return nil
}
