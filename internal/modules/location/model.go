// README: Geocoding results; Resolution is a closed set of Resolved | Unresolved.
package location

import (
	"errors"

	"movequote/internal/types"
)

// ErrNoResults is returned by a Geocoder when the provider found nothing.
var ErrNoResults = errors.New("geocode: no results")

// Place is the best match a geocoding provider returned for a query.
type Place struct {
	Point       types.Point `json:"point"`
	DisplayName string      `json:"display_name"`
}

// Resolution is the outcome of resolving one free-text address.
// The only implementations are Resolved and Unresolved.
type Resolution interface {
	OriginalQuery() string
	isResolution()
}

type Resolved struct {
	Query       string      `json:"query"`
	Point       types.Point `json:"point"`
	DisplayName string      `json:"display_name"`
}

type Unresolved struct {
	Query  string `json:"query"`
	Reason string `json:"reason"`
}

func (r Resolved) OriginalQuery() string   { return r.Query }
func (r Unresolved) OriginalQuery() string { return r.Query }

func (Resolved) isResolution()   {}
func (Unresolved) isResolution() {}
