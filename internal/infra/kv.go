// README: Key-value persistence collaborator shared by the tariff store and reservation ledger.
package infra

import (
	"context"
	"errors"
)

// Keys used by the estimator. Both hold JSON blobs.
const (
	KeyTariffs      = "tariffs"
	KeyReservations = "reservations"
)

var ErrUpdateContention = errors.New("kv: too many concurrent updates")

// UpdateFunc receives the current value (found=false when the key is absent)
// and returns the value to store. Returning an error aborts the update and the
// error is handed back to the caller unchanged.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// KV is a string-keyed blob store. Update must be atomic per key: no other
// writer may change the key between the read handed to fn and the write.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
