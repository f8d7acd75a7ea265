// README: Reservation ledger: submission, capacity checks, approve/refuse.
package reservation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"movequote/internal/modules/pricing"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/clock"
	"movequote/internal/pkg/errs"
	"movequote/internal/types"
)

var (
	ErrNotFound     = errors.New("reservation not found")
	ErrNoCapacity   = errors.New("no capacity left for this date")
	ErrInvalidState = errors.New("invalid state transition")
	ErrBadRequest   = errors.New("bad request")
)

// TariffLoader supplies the truck count that bounds daily capacity.
type TariffLoader interface {
	Load(ctx context.Context) (tariff.Config, error)
}

type Service struct {
	store   *Store
	tariffs TariffLoader
	clock   clock.Clock
	logger  *slog.Logger
}

func NewService(store *Store, tariffs TariffLoader, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, tariffs: tariffs, clock: clk, logger: logger}
}

type SubmitCommand struct {
	Quote  pricing.Quote
	Client Client
}

func (s *Service) capacity(ctx context.Context) (int, error) {
	cfg, err := s.tariffs.Load(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "load capacity")
	}
	return cfg.Capacity(), nil
}

// CheckAvailability counts approved reservations for date against the
// configured truck count.
func (s *Service) CheckAvailability(ctx context.Context, date types.Date) (Availability, error) {
	if date.IsZero() {
		return Availability{}, ErrBadRequest
	}
	capacity, err := s.capacity(ctx)
	if err != nil {
		return Availability{}, err
	}
	list, err := s.store.All(ctx)
	if err != nil {
		return Availability{}, err
	}
	return availability(list, date, capacity), nil
}

// Submit records a pending reservation. Capacity is not checked here; it is
// enforced when an approver accepts the booking.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (Reservation, error) {
	if cmd.Quote.ServiceDate.IsZero() {
		return Reservation{}, ErrBadRequest
	}
	id, err := newID()
	if err != nil {
		return Reservation{}, err
	}

	r := Reservation{
		ID:          id,
		Status:      StatusPending,
		ServiceDate: cmd.Quote.ServiceDate,
		Client:      cmd.Client,
		Quote:       snapshotOf(cmd.Quote),
		CreatedAt:   s.clock.Now(),
	}
	err = s.store.Mutate(ctx, func(list []Reservation) ([]Reservation, error) {
		return append(list, r), nil
	})
	if err != nil {
		return Reservation{}, errs.Wrap(err, "submit reservation")
	}

	s.logger.Info("reservation submitted", "id", r.ID, "date", r.ServiceDate.String())
	return r, nil
}

// Approve re-checks capacity for the reservation's date and approves it in
// the same atomic update. Approving an approved reservation is a no-op.
func (s *Service) Approve(ctx context.Context, id types.ID) (Reservation, error) {
	capacity, err := s.capacity(ctx)
	if err != nil {
		return Reservation{}, err
	}

	var out Reservation
	err = s.store.Mutate(ctx, func(list []Reservation) ([]Reservation, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		r := list[i]
		if r.Status == StatusApproved {
			out = r
			return nil, errUnchanged
		}
		if !CanTransition(r.Status, StatusApproved) {
			return nil, ErrInvalidState
		}
		if countApproved(list, r.ServiceDate) >= capacity {
			return nil, ErrNoCapacity
		}

		now := s.clock.Now()
		r.Status = StatusApproved
		r.StatusVersion++
		r.ApprovedAt = &now
		list[i] = r
		out = r
		return list, nil
	})
	if err != nil {
		return Reservation{}, err
	}

	s.logger.Info("reservation approved", "id", out.ID, "date", out.ServiceDate.String())
	return out, nil
}

// Refuse moves a pending reservation to refused. Refusing a refused
// reservation is a no-op.
func (s *Service) Refuse(ctx context.Context, id types.ID) (Reservation, error) {
	var out Reservation
	err := s.store.Mutate(ctx, func(list []Reservation) ([]Reservation, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		r := list[i]
		if r.Status == StatusRefused {
			out = r
			return nil, errUnchanged
		}
		if !CanTransition(r.Status, StatusRefused) {
			return nil, ErrInvalidState
		}

		now := s.clock.Now()
		r.Status = StatusRefused
		r.StatusVersion++
		r.RefusedAt = &now
		list[i] = r
		out = r
		return list, nil
	})
	if err != nil {
		return Reservation{}, err
	}

	s.logger.Info("reservation refused", "id", out.ID, "date", out.ServiceDate.String())
	return out, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (Reservation, error) {
	list, err := s.store.All(ctx)
	if err != nil {
		return Reservation{}, err
	}
	if i := indexOf(list, id); i >= 0 {
		return list[i], nil
	}
	return Reservation{}, ErrNotFound
}

// List returns reservations matching f in submission order.
func (s *Service) List(ctx context.Context, f Filter) ([]Reservation, error) {
	list, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func indexOf(list []Reservation, id types.ID) int {
	for i, r := range list {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// newID returns a time-ordered identifier such as RES-0190f6c1-....
func newID() (types.ID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", errs.Wrap(err, "generate reservation id")
	}
	return types.ID("RES-" + u.String()), nil
}
