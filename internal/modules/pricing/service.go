// README: Pricing service; loads the live tariff for every quote.
package pricing

import (
	"context"
	"log/slog"

	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/errs"
)

type TariffLoader interface {
	Load(ctx context.Context) (tariff.Config, error)
}

type Service struct {
	tariffs TariffLoader
	calc    *Calculator
	logger  *slog.Logger
}

func NewService(tariffs TariffLoader, calc *Calculator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tariffs: tariffs, calc: calc, logger: logger}
}

// Quote reads the tariff fresh so an admin save applies to the next quote.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	cfg, err := s.tariffs.Load(ctx)
	if err != nil {
		return Quote{}, errs.Wrap(err, "load tariffs for quote")
	}

	q, err := s.calc.Compute(ctx, cfg, req)
	if err != nil {
		return Quote{}, err
	}

	if missing := q.UnresolvedAddresses(); len(missing) > 0 {
		s.logger.Info("quote computed with unresolved addresses",
			"date", q.ServiceDate.String(), "unresolved", missing)
	}
	return q, nil
}
