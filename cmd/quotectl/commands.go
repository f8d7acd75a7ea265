// README: Subcommand implementations for quotectl.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/modules/tariff"
	"movequote/internal/types"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) quote(ctx context.Context, args []string) error {
	var pickups, dropoffs stringList
	fs := newFlagSet("quote")
	fs.Var(&pickups, "pickup", "pickup address (repeatable)")
	fs.Var(&dropoffs, "dropoff", "drop-off address (repeatable)")
	size := fs.String("size", "3.5", "dwelling size designation")
	pickupFloor := fs.String("pickup-floor", "rdc", "pickup floor")
	dropoffFloor := fs.String("dropoff-floor", "rdc", "drop-off floor")
	dateStr := fs.String("date", "", "service date YYYY-MM-DD")
	asJSON := fs.Bool("json", false, "print the full quote as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var date types.Date
	if *dateStr != "" {
		d, err := types.ParseDate(*dateStr)
		if err != nil {
			return err
		}
		date = d
	}

	q, err := a.quotes.Quote(ctx, pricing.Request{
		Pickups:      pickups,
		Dropoffs:     dropoffs,
		DwellingSize: *size,
		PickupFloor:  *pickupFloor,
		DropoffFloor: *dropoffFloor,
		ServiceDate:  date,
	})
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(q)
	}
	a.printQuote(q)
	return nil
}

func (a *app) printQuote(q pricing.Quote) {
	w := a.out
	fmt.Fprintf(w, "Move on %s (%s)\n", q.ServiceDate, q.DwellingSizeLabel)
	for i, s := range q.Route.Stops {
		fmt.Fprintf(w, "  %d. %-8s %s\n", i+1, s.Role, s.Address)
	}
	for _, addr := range q.UnresolvedAddresses() {
		fmt.Fprintf(w, "  !  not found: %s\n", addr)
	}
	fmt.Fprintf(w, "Distance      %.1f km\n", q.Route.DistanceKm)
	fmt.Fprintf(w, "Hours         %.1f (+%.1f travel)\n", q.Durations.WorkingHours, q.Durations.DeadheadHours)
	fmt.Fprintf(w, "Schedule      %s - %s\n", q.StartTime, q.EstimatedFinish)
	fmt.Fprintf(w, "Rate          %.2f/h\n", q.EffectiveRate)
	for _, s := range q.Surcharges {
		fmt.Fprintf(w, "  + %-30s %.2f\n", s.Label, s.Amount)
	}
	fmt.Fprintf(w, "Subtotal      %.2f\n", q.Costs.Subtotal)
	fmt.Fprintf(w, "GST           %.2f\n", q.Costs.GST)
	fmt.Fprintf(w, "QST           %.2f\n", q.Costs.QST)
	fmt.Fprintf(w, "Total         %.2f %s\n", q.Costs.Total, q.Currency)
}

func (a *app) tariffCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("tariffs: expected show, reset or set")
	}
	switch args[0] {
	case "show":
		cfg, err := a.tariffs.Load(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(cfg)

	case "reset":
		cfg, err := a.tariffs.Reset(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(cfg)

	case "set":
		fs := newFlagSet("tariffs set")
		file := fs.String("file", "", "tariff JSON document (current or legacy layout)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			return errors.New("tariffs set: -file is required")
		}
		raw, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		cfg, err := tariff.Migrate(raw)
		if err != nil {
			return err
		}
		saved, err := a.tariffs.Save(ctx, cfg)
		if err != nil {
			return err
		}
		return a.printJSON(saved)
	}
	return fmt.Errorf("tariffs: unknown action %q", args[0])
}

func (a *app) availability(ctx context.Context, args []string) error {
	fs := newFlagSet("availability")
	dateStr := fs.String("date", "", "service date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	date, err := types.ParseDate(*dateStr)
	if err != nil {
		return err
	}
	av, err := a.reservations.CheckAvailability(ctx, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  used %d/%d  remaining %d  available=%t\n",
		av.Date, av.Used, av.Capacity, av.Remaining, av.IsAvailable)
	return nil
}

func (a *app) reservationCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("reservations: expected list, approve or refuse")
	}
	switch args[0] {
	case "list":
		fs := newFlagSet("reservations list")
		dateStr := fs.String("date", "", "only this service date")
		status := fs.String("status", "", "pending | approved | refused")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		f := reservation.Filter{Status: reservation.Status(*status)}
		if *dateStr != "" {
			d, err := types.ParseDate(*dateStr)
			if err != nil {
				return err
			}
			f.Date = d
		}
		list, err := a.reservations.List(ctx, f)
		if err != nil {
			return err
		}
		for _, r := range list {
			fmt.Fprintf(a.out, "%-40s %-9s %s  %-20s %.2f %s\n",
				r.ID, r.Status, r.ServiceDate, r.Client.Name, r.Quote.Total, r.Quote.Currency)
		}
		return nil

	case "approve", "refuse":
		if len(args) != 2 {
			return fmt.Errorf("reservations %s: expected exactly one id", args[0])
		}
		id := types.ID(args[1])
		var (
			r   reservation.Reservation
			err error
		)
		if args[0] == "approve" {
			r, err = a.reservations.Approve(ctx, id)
		} else {
			r, err = a.reservations.Refuse(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s\n", r.ID, r.Status)
		return nil
	}
	return fmt.Errorf("reservations: unknown action %q", args[0])
}

func (a *app) codes() {
	fmt.Fprintln(a.out, "Sizes (-size):")
	for _, code := range tariff.KnownSizes() {
		fmt.Fprintf(a.out, "  %-12s %s\n", code, tariff.SizeLabel(code))
	}
	fmt.Fprintln(a.out, "Floors (-pickup-floor, -dropoff-floor):")
	for _, code := range tariff.KnownFloors() {
		fmt.Fprintf(a.out, "  %-12s %s\n", code, tariff.FloorLabel(code))
	}
}
