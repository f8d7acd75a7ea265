// README: Reservation list persisted as one JSON array in the shared KV.
package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"movequote/internal/infra"
	"movequote/internal/pkg/errs"
)

var ErrCorruptLedger = errors.New("reservation ledger is corrupt")

// errUnchanged aborts a mutation without writing.
var errUnchanged = errors.New("reservation ledger unchanged")

type Store struct {
	kv     infra.KV
	logger *slog.Logger
}

func NewStore(kv infra.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// All returns every reservation. An undecodable blob reads as empty.
func (s *Store) All(ctx context.Context) ([]Reservation, error) {
	raw, found, err := s.kv.Get(ctx, infra.KeyReservations)
	if err != nil {
		return nil, errs.Wrap(err, "load reservations")
	}
	list, err := decodeList(raw, found)
	if err != nil {
		s.logger.Warn("persisted reservation list is corrupt, reading as empty", "error", err)
		return nil, nil
	}
	return list, nil
}

// Mutate applies fn to the current list atomically. fn returning
// errUnchanged skips the write; any other error aborts it. A corrupt blob is
// never overwritten.
func (s *Store) Mutate(ctx context.Context, fn func([]Reservation) ([]Reservation, error)) error {
	err := s.kv.Update(ctx, infra.KeyReservations, func(cur []byte, found bool) ([]byte, error) {
		list, err := decodeList(cur, found)
		if err != nil {
			return nil, errs.Mark(err, ErrCorruptLedger)
		}
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func decodeList(raw []byte, found bool) ([]Reservation, error) {
	if !found || len(raw) == 0 {
		return nil, nil
	}
	var list []Reservation
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
