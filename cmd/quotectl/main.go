// README: Operator CLI; prices a move, manages tariffs and the reservation ledger from a shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"movequote/internal/bootstrap"
	"movequote/internal/config"
	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/clock"
	"movequote/internal/types"
)

const usage = `usage: quotectl <command> [flags]

commands:
  quote          price a move (-pickup/-dropoff may repeat)
  tariffs        show | reset | set -file tariffs.json
  availability   -date YYYY-MM-DD
  reservations   list [-date] [-status] | approve <id> | refuse <id>
  codes          list dwelling size and floor codes accepted by quote
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// app holds the services a command may need; built once per invocation.
type app struct {
	tariffs      *tariff.Store
	quotes       *pricing.Service
	reservations *reservation.Service
	out          io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := bootstrap.NewLogger(cfg.Log, stderr)

	storage, err := bootstrap.OpenStorage(ctx, cfg.Store)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer storage.Close()

	geocoder, err := bootstrap.NewGeocoder(cfg.Geocoder)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	resolver := bootstrap.NewResolver(cfg.Geocoder, geocoder, storage.Redis, logger)

	clk := clock.NewRealClock()
	tariffs := tariff.NewStore(storage.KV, clk, logger)
	calc := pricing.NewCalculator(resolver, types.Point{Lat: cfg.Depot.Lat, Lng: cfg.Depot.Lng})
	a := &app{
		tariffs:      tariffs,
		quotes:       pricing.NewService(tariffs, calc, logger),
		reservations: reservation.NewService(reservation.NewStore(storage.KV, logger), tariffs, clk, logger),
		out:          stdout,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "quote":
		err = a.quote(ctx, rest)
	case "tariffs":
		err = a.tariffCmd(ctx, rest)
	case "availability":
		err = a.availability(ctx, rest)
	case "reservations":
		err = a.reservationCmd(ctx, rest)
	case "codes":
		a.codes()
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, "; ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
