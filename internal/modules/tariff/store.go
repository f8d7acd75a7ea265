// README: Tariff store persisted as one JSON blob in the shared KV.
package tariff

import (
	"context"
	"encoding/json"
	"log/slog"

	"movequote/internal/infra"
	"movequote/internal/pkg/clock"
	"movequote/internal/pkg/errs"
)

// Store loads and saves the installation-wide tariff. It keeps no cache;
// every Load reads the KV so concurrent saves are visible immediately.
type Store struct {
	kv     infra.KV
	clock  clock.Clock
	logger *slog.Logger
}

func NewStore(kv infra.KV, clk clock.Clock, logger *slog.Logger) *Store {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, clock: clk, logger: logger}
}

// Load returns the persisted tariff merged over defaults. A missing or
// unreadable blob yields defaults; only KV transport errors are returned.
func (s *Store) Load(ctx context.Context) (Config, error) {
	raw, found, err := s.kv.Get(ctx, infra.KeyTariffs)
	if err != nil {
		return Config{}, errs.Wrap(err, "load tariffs")
	}
	if !found {
		return Defaults(), nil
	}

	cfg, err := Migrate(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		s.logger.Warn("persisted tariff is corrupt, using defaults", "error", err)
		return Defaults(), nil
	}
	return cfg, nil
}

// Save validates cfg, stamps LastUpdated and replaces the stored tariff.
// Concurrent saves are last-write-wins.
func (s *Store) Save(ctx context.Context, cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	now := s.clock.Now()
	cfg.LastUpdated = &now
	cfg.Version = SchemaVersion

	raw, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, errs.Wrap(err, "encode tariffs")
	}
	if err := s.kv.Set(ctx, infra.KeyTariffs, raw); err != nil {
		return Config{}, errs.Wrap(err, "save tariffs")
	}
	return cfg, nil
}

// Reset deletes the stored override and returns the defaults.
func (s *Store) Reset(ctx context.Context) (Config, error) {
	if err := s.kv.Delete(ctx, infra.KeyTariffs); err != nil {
		return Config{}, errs.Wrap(err, "reset tariffs")
	}
	return Defaults(), nil
}
