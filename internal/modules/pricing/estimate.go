// README: Pure quote arithmetic: travel, handling, breaks, deadhead, surcharges, taxes.
package pricing

import (
	"fmt"
	"math"
	"time"

	"movequote/internal/modules/location"
	"movequote/internal/modules/tariff"
	"movequote/internal/types"
)

// floatSlack absorbs drift from multiplier products so an exact 60.0 or
// 90.0 minutes is not pushed across a rounding boundary.
const floatSlack = 1e-9

// Estimate prices an already-resolved job against cfg. It has no side
// effects and never fails.
func Estimate(cfg tariff.Config, depot types.Point, in Input) Quote {
	traffic := cfg.TrafficFactor

	travel := (in.Route.DistanceKm / cfg.AverageSpeedKmh) * 60 * traffic

	handling := tariff.SizeHandlingMinutes(in.DwellingSize, cfg)
	pickupMult := tariff.FloorMultiplier(in.PickupFloor, cfg)
	dropoffMult := tariff.FloorMultiplier(in.DropoffFloor, cfg)

	loading := handling.Load * pickupMult * float64(in.PickupCount)
	unloading := handling.Unload * dropoffMult * float64(in.DropoffCount)
	loadingBreaks := BreakMinutes(loading, cfg.BreakMinutesPerHour)
	unloadingBreaks := BreakMinutes(unloading, cfg.BreakMinutesPerHour)

	working := travel + loading + loadingBreaks + unloading + unloadingBreaks

	var depotKm, depotMin float64
	if in.FirstPickup != nil {
		depotKm = location.RoadKmBetween(depot, *in.FirstPickup)
		depotMin = depotKm / cfg.AverageSpeedKmh * 60
	}
	// The zone test uses whole minutes; the deadhead itself does not.
	outOfZone := math.Round(depotMin) > cfg.OutOfZoneThresholdMin
	deadhead := cfg.FixedTravelHours * 60
	if outOfZone {
		deadhead = depotMin * traffic * 2
	}

	workingHours := HalfHourCeil(working)
	deadheadHours := HalfHourCeil(deadhead)
	totalHours := workingHours + deadheadHours

	surcharges := Surcharges(in.ServiceDate, cfg)
	rate := cfg.BaseHourlyRate
	for _, s := range surcharges {
		rate += s.Amount
	}

	labor := workingHours * rate
	deadheadCost := deadheadHours * rate
	subtotal := labor + deadheadCost
	gst := subtotal * cfg.GSTPercent / 100
	qst := subtotal * cfg.QSTPercent / 100
	total := subtotal + gst + qst

	return Quote{
		Route:             in.Route,
		ServiceDate:       in.ServiceDate,
		DwellingSize:      in.DwellingSize,
		DwellingSizeLabel: tariff.SizeLabel(in.DwellingSize),
		PickupFloor:       in.PickupFloor,
		PickupFloorLabel:  tariff.FloorLabel(in.PickupFloor),
		DropoffFloor:      in.DropoffFloor,
		DropoffFloorLabel: tariff.FloorLabel(in.DropoffFloor),
		PickupCount:       in.PickupCount,
		DropoffCount:      in.DropoffCount,
		CrewSize:          cfg.CrewSize,
		Durations: Durations{
			TravelMinutes:          travel,
			LoadingMinutes:         loading,
			LoadingBreakMinutes:    loadingBreaks,
			UnloadingMinutes:       unloading,
			UnloadingBreakMinutes:  unloadingBreaks,
			BreakMinutes:           loadingBreaks + unloadingBreaks,
			WorkingMinutes:         working,
			DeadheadMinutes:        deadhead,
			DepotDistanceKm:        depotKm,
			DepotOneWayMinutes:     depotMin,
			OutOfZone:              outOfZone,
			WorkingHours:           workingHours,
			DeadheadHours:          deadheadHours,
			TotalHours:             totalHours,
			PickupFloorMultiplier:  pickupMult,
			DropoffFloorMultiplier: dropoffMult,
			TrafficFactor:          traffic,
		},
		StartTime:       ClockTime(WorkdayStart),
		EstimatedFinish: ClockTime(WorkdayStart + totalHours*60),
		BaseHourlyRate:  cfg.BaseHourlyRate,
		Surcharges:      surcharges,
		EffectiveRate:   rate,
		Costs: Costs{
			DeadheadCost: types.RoundCents(deadheadCost),
			LaborCost:    types.RoundCents(labor),
			Subtotal:     types.RoundCents(subtotal),
			GST:          types.RoundCents(gst),
			QST:          types.RoundCents(qst),
			Total:        types.RoundCents(total),
		},
		Currency: cfg.Currency,
	}
}

// BreakMinutes is one break block per completed hour of a single phase.
func BreakMinutes(phaseMinutes, perHour float64) float64 {
	return math.Floor(phaseMinutes/60+floatSlack) * perHour
}

// HalfHourCeil converts minutes to billable hours rounded up to the half hour.
func HalfHourCeil(minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	return math.Ceil(minutes/30-floatSlack) / 2
}

// Surcharges returns the calendar surcharges that apply on d, in order:
// weekend, the June 25 to July 7 moving window, and the last three days of
// the month. They stack additively.
func Surcharges(d types.Date, cfg tariff.Config) []Surcharge {
	out := []Surcharge{}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		out = append(out, Surcharge{Code: SurchargeWeekend, Label: "Weekend surcharge", Amount: cfg.WeekendSurcharge})
	}
	if (d.Month() == time.June && d.Day() >= 25) || (d.Month() == time.July && d.Day() <= 7) {
		out = append(out, Surcharge{Code: SurchargeJuly, Label: "July 1st moving period surcharge", Amount: cfg.JulySurcharge})
	}
	if d.Day() >= d.DaysInMonth()-2 {
		out = append(out, Surcharge{Code: SurchargeMonthEnd, Label: "Month-end surcharge", Amount: cfg.MonthEndSurcharge})
	}
	return out
}

// ClockTime formats minutes after midnight as HH:MM. Values past midnight
// keep counting hours (e.g. 25:30) since the estimate is advisory.
func ClockTime(minutes float64) string {
	m := int(math.Round(minutes))
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
