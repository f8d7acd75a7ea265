// README: Reservation aggregate, status flow and the quote snapshot it freezes.
package reservation

import (
	"time"

	"movequote/internal/modules/pricing"
	"movequote/internal/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRefused  Status = "refused"
)

// AllowedTransitions represents the reservation state flow as code.
// Approved and refused are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRefused},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Client struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Snapshot freezes the quote figures at submission time so later tariff
// edits never reprice a booking.
type Snapshot struct {
	StartTime         string  `json:"start_time"`
	EstimatedFinish   string  `json:"estimated_finish"`
	DwellingSize      string  `json:"dwelling_size"`
	DwellingSizeLabel string  `json:"dwelling_size_label"`
	PickupFloor       string  `json:"pickup_floor"`
	DropoffFloor      string  `json:"dropoff_floor"`
	PickupCount       int     `json:"pickup_count"`
	DropoffCount      int     `json:"dropoff_count"`
	DistanceKm        float64 `json:"distance_km"`
	TotalHours        float64 `json:"total_hours"`
	EffectiveRate     float64 `json:"effective_rate"`
	Subtotal          float64 `json:"subtotal"`
	GST               float64 `json:"gst"`
	QST               float64 `json:"qst"`
	Total             float64 `json:"total"`
	Currency          string  `json:"currency"`
}

type Reservation struct {
	ID            types.ID   `json:"id"`
	Status        Status     `json:"status"`
	StatusVersion int        `json:"status_version"`
	ServiceDate   types.Date `json:"service_date"`
	Client        Client     `json:"client"`
	Quote         Snapshot   `json:"quote"`
	CreatedAt     time.Time  `json:"created_at"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	RefusedAt     *time.Time `json:"refused_at,omitempty"`
}

type Availability struct {
	Date        types.Date `json:"date"`
	Capacity    int        `json:"capacity"`
	Used        int        `json:"used"`
	Remaining   int        `json:"remaining"`
	IsAvailable bool       `json:"is_available"`
}

// Filter narrows List; zero fields match everything.
type Filter struct {
	Date   types.Date
	Status Status
}

func (f Filter) match(r Reservation) bool {
	if !f.Date.IsZero() && !r.ServiceDate.Equal(f.Date) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

func snapshotOf(q pricing.Quote) Snapshot {
	return Snapshot{
		StartTime:         q.StartTime,
		EstimatedFinish:   q.EstimatedFinish,
		DwellingSize:      q.DwellingSize,
		DwellingSizeLabel: q.DwellingSizeLabel,
		PickupFloor:       q.PickupFloor,
		DropoffFloor:      q.DropoffFloor,
		PickupCount:       q.PickupCount,
		DropoffCount:      q.DropoffCount,
		DistanceKm:        q.Route.DistanceKm,
		TotalHours:        q.Durations.TotalHours,
		EffectiveRate:     q.EffectiveRate,
		Subtotal:          q.Costs.Subtotal,
		GST:               q.Costs.GST,
		QST:               q.Costs.QST,
		Total:             q.Costs.Total,
		Currency:          q.Currency,
	}
}

func countApproved(list []Reservation, date types.Date) int {
	n := 0
	for _, r := range list {
		if r.Status == StatusApproved && r.ServiceDate.Equal(date) {
			n++
		}
	}
	return n
}

func availability(list []Reservation, date types.Date, capacity int) Availability {
	used := countApproved(list, date)
	remaining := capacity - used
	if remaining < 0 {
		remaining = 0
	}
	return Availability{
		Date:        date,
		Capacity:    capacity,
		Used:        used,
		Remaining:   remaining,
		IsAvailable: used < capacity,
	}
}
