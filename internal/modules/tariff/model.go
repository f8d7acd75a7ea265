// README: Tariff configuration schema and built-in defaults.
package tariff

import (
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is stamped on every config written by Migrate or Save.
const SchemaVersion = 1

var ErrInvalidConfig = errors.New("invalid tariff config")

// Handling is the per-address crew time for one dwelling size, in minutes,
// before floor multipliers and breaks.
type Handling struct {
	Load   float64 `json:"load"`
	Unload float64 `json:"unload"`
}

// Config holds every pricing parameter. Percentages are expressed as
// numbers like 5 or 9.975, never as fractions.
type Config struct {
	Version int `json:"version"`

	BaseHourlyRate float64 `json:"base_hourly_rate"`
	CrewSize       int     `json:"crew_size"`
	TruckCount     int     `json:"truck_count"`

	WeekendSurcharge  float64 `json:"weekend_surcharge"`
	JulySurcharge     float64 `json:"july_surcharge"`
	MonthEndSurcharge float64 `json:"month_end_surcharge"`

	FixedTravelHours      float64 `json:"fixed_travel_hours"`
	OutOfZoneThresholdMin float64 `json:"out_of_zone_threshold_min"`
	AverageSpeedKmh       float64 `json:"average_speed_kmh"`
	BreakMinutesPerHour   float64 `json:"break_minutes_per_hour"`
	TrafficFactor         float64 `json:"traffic_factor"`

	SizeHandling     map[string]Handling `json:"size_handling"`
	FloorMultipliers map[string]float64  `json:"floor_multipliers"`

	GSTPercent float64 `json:"gst_percent"`
	QSTPercent float64 `json:"qst_percent"`
	Currency   string  `json:"currency"`

	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Dwelling size codes.
const (
	SizeOneAndHalf   = "1.5"
	SizeTwoAndHalf   = "2.5"
	SizeThreeAndHalf = "3.5"
	SizeFourAndHalf  = "4.5"
	SizeFiveAndHalf  = "5.5"
	SizeHouse        = "maison"
	SizeCommercial   = "commercial"
	SizeOther        = "autre"
)

// Floor codes.
const (
	FloorGround   = "rdc"
	FloorSecond   = "2e"
	FloorThird    = "3e"
	FloorFourth   = "4e"
	FloorElevator = "ascenseur"
)

// Fallbacks for a dwelling size nobody has configured.
const (
	FallbackLoadMinutes   = 120
	FallbackUnloadMinutes = 90
)

var builtinSizes = map[string]Handling{
	SizeOneAndHalf:   {Load: 45, Unload: 35},
	SizeTwoAndHalf:   {Load: 60, Unload: 50},
	SizeThreeAndHalf: {Load: 90, Unload: 70},
	SizeFourAndHalf:  {Load: 180, Unload: 140},
	SizeFiveAndHalf:  {Load: 240, Unload: 180},
	SizeHouse:        {Load: 270, Unload: 200},
	SizeCommercial:   {Load: 200, Unload: 160},
	SizeOther:        {Load: 120, Unload: 90},
}

var builtinFloors = map[string]float64{
	FloorGround:   1.0,
	FloorSecond:   1.30,
	FloorThird:    1.55,
	FloorFourth:   1.80,
	FloorElevator: 1.05,
}

var sizeLabels = map[string]string{
	SizeOneAndHalf:   "1 1/2",
	SizeTwoAndHalf:   "2 1/2",
	SizeThreeAndHalf: "3 1/2",
	SizeFourAndHalf:  "4 1/2",
	SizeFiveAndHalf:  "5 1/2",
	SizeHouse:        "Full house",
	SizeCommercial:   "Commercial",
	SizeOther:        "Other",
}

var floorLabels = map[string]string{
	FloorGround:   "Ground floor",
	FloorSecond:   "2nd floor (no elevator)",
	FloorThird:    "3rd floor (no elevator)",
	FloorFourth:   "4th floor or higher (no elevator)",
	FloorElevator: "Elevator",
}

// Defaults returns a fresh copy of the built-in tariff.
func Defaults() Config {
	sizes := make(map[string]Handling, len(builtinSizes))
	for k, v := range builtinSizes {
		sizes[k] = v
	}
	floors := make(map[string]float64, len(builtinFloors))
	for k, v := range builtinFloors {
		floors[k] = v
	}

	return Config{
		Version:               SchemaVersion,
		BaseHourlyRate:        125,
		CrewSize:              3,
		TruckCount:            3,
		WeekendSurcharge:      20,
		JulySurcharge:         30,
		MonthEndSurcharge:     10,
		FixedTravelHours:      1,
		OutOfZoneThresholdMin: 30,
		AverageSpeedKmh:       40,
		BreakMinutesPerHour:   15,
		TrafficFactor:         1.15,
		SizeHandling:          sizes,
		FloorMultipliers:      floors,
		GSTPercent:            5,
		QSTPercent:            9.975,
		Currency:              "CAD",
	}
}

// Validate enforces that every numeric field is non-negative. Average speed
// must be strictly positive since travel time divides by it.
func (c Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"base_hourly_rate", c.BaseHourlyRate},
		{"crew_size", float64(c.CrewSize)},
		{"truck_count", float64(c.TruckCount)},
		{"weekend_surcharge", c.WeekendSurcharge},
		{"july_surcharge", c.JulySurcharge},
		{"month_end_surcharge", c.MonthEndSurcharge},
		{"fixed_travel_hours", c.FixedTravelHours},
		{"out_of_zone_threshold_min", c.OutOfZoneThresholdMin},
		{"break_minutes_per_hour", c.BreakMinutesPerHour},
		{"traffic_factor", c.TrafficFactor},
		{"gst_percent", c.GSTPercent},
		{"qst_percent", c.QSTPercent},
	}
	for _, chk := range checks {
		if chk.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidConfig, chk.name)
		}
	}
	if c.AverageSpeedKmh <= 0 {
		return fmt.Errorf("%w: average_speed_kmh must be positive", ErrInvalidConfig)
	}
	for size, h := range c.SizeHandling {
		if h.Load < 0 || h.Unload < 0 {
			return fmt.Errorf("%w: size %q has negative handling minutes", ErrInvalidConfig, size)
		}
	}
	for floor, m := range c.FloorMultipliers {
		if m < 0 {
			return fmt.Errorf("%w: floor %q has a negative multiplier", ErrInvalidConfig, floor)
		}
	}
	return nil
}

// Capacity is the number of jobs that may be approved for one date.
func (c Config) Capacity() int {
	if c.TruckCount <= 0 {
		return Defaults().TruckCount
	}
	return c.TruckCount
}
