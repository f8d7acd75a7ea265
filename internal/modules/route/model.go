// README: Route stops and the optimized visitation order.
package route

import "movequote/internal/types"

type Role string

const (
	RolePickup  Role = "pickup"
	RoleDropoff Role = "dropoff"
)

// Stop is one resolved address inside a single quote computation.
type Stop struct {
	Point   types.Point `json:"point"`
	Role    Role        `json:"role"`
	Address string      `json:"address"`
}

// Result is the visitation order plus aggregate road distance.
type Result struct {
	Stops      []Stop  `json:"stops"`
	DistanceKm float64 `json:"distance_km"`
}
