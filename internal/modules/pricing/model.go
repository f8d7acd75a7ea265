// README: Quote request and the itemized quote returned to callers.
package pricing

import (
	"errors"

	"movequote/internal/modules/route"
	"movequote/internal/types"
)

var (
	ErrNoPickup      = errors.New("quote needs at least one pickup address")
	ErrNoServiceDate = errors.New("quote needs a service date")
)

// WorkdayStart is the advisory crew start time, in minutes after midnight.
const WorkdayStart = 8 * 60

type Request struct {
	Pickups      []string   `json:"pickups"`
	Dropoffs     []string   `json:"dropoffs"`
	DwellingSize string     `json:"dwelling_size"`
	PickupFloor  string     `json:"pickup_floor"`
	DropoffFloor string     `json:"dropoff_floor"`
	ServiceDate  types.Date `json:"service_date"`
}

// Input is everything Estimate needs once addresses are resolved.
type Input struct {
	Route        route.Result
	FirstPickup  *types.Point // nil when the first pickup did not resolve
	PickupCount  int
	DropoffCount int
	DwellingSize string
	PickupFloor  string
	DropoffFloor string
	ServiceDate  types.Date
}

type Surcharge struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Surcharge codes, in evaluation order.
const (
	SurchargeWeekend  = "weekend"
	SurchargeJuly     = "july_first"
	SurchargeMonthEnd = "month_end"
)

// AddressResult records how one requested address resolved.
type AddressResult struct {
	Role        route.Role  `json:"role"`
	Query       string      `json:"query"`
	Found       bool        `json:"found"`
	Point       types.Point `json:"point"`
	DisplayName string      `json:"display_name"`
}

// Durations are in minutes and never pre-rounded.
type Durations struct {
	TravelMinutes          float64 `json:"travel_minutes"`
	LoadingMinutes         float64 `json:"loading_minutes"`
	LoadingBreakMinutes    float64 `json:"loading_break_minutes"`
	UnloadingMinutes       float64 `json:"unloading_minutes"`
	UnloadingBreakMinutes  float64 `json:"unloading_break_minutes"`
	BreakMinutes           float64 `json:"break_minutes"`
	WorkingMinutes         float64 `json:"working_minutes"`
	DeadheadMinutes        float64 `json:"deadhead_minutes"`
	DepotDistanceKm        float64 `json:"depot_distance_km"`
	DepotOneWayMinutes     float64 `json:"depot_one_way_minutes"`
	OutOfZone              bool    `json:"out_of_zone"`
	WorkingHours           float64 `json:"working_hours"`
	DeadheadHours          float64 `json:"deadhead_hours"`
	TotalHours             float64 `json:"total_hours"`
	PickupFloorMultiplier  float64 `json:"pickup_floor_multiplier"`
	DropoffFloorMultiplier float64 `json:"dropoff_floor_multiplier"`
	TrafficFactor          float64 `json:"traffic_factor"`
}

// Costs are rounded to cents; the hours behind them are not.
type Costs struct {
	DeadheadCost float64 `json:"deadhead_cost"`
	LaborCost    float64 `json:"labor_cost"`
	Subtotal     float64 `json:"subtotal"`
	GST          float64 `json:"gst"`
	QST          float64 `json:"qst"`
	Total        float64 `json:"total"`
}

type Quote struct {
	Route     route.Result    `json:"route"`
	Addresses []AddressResult `json:"addresses,omitempty"`

	ServiceDate       types.Date `json:"service_date"`
	DwellingSize      string     `json:"dwelling_size"`
	DwellingSizeLabel string     `json:"dwelling_size_label"`
	PickupFloor       string     `json:"pickup_floor"`
	PickupFloorLabel  string     `json:"pickup_floor_label"`
	DropoffFloor      string     `json:"dropoff_floor"`
	DropoffFloorLabel string     `json:"dropoff_floor_label"`
	PickupCount       int        `json:"pickup_count"`
	DropoffCount      int        `json:"dropoff_count"`
	CrewSize          int        `json:"crew_size"`

	Durations Durations `json:"durations"`

	StartTime       string `json:"start_time"`
	EstimatedFinish string `json:"estimated_finish"`

	BaseHourlyRate float64     `json:"base_hourly_rate"`
	Surcharges     []Surcharge `json:"surcharges"`
	EffectiveRate  float64     `json:"effective_rate"`
	Costs          Costs       `json:"costs"`
	Currency       string      `json:"currency"`
}

// UnresolvedAddresses lists the queries that contributed nothing to the route.
func (q Quote) UnresolvedAddresses() []string {
	var out []string
	for _, a := range q.Addresses {
		if !a.Found {
			out = append(out, a.Query)
		}
	}
	return out
}
