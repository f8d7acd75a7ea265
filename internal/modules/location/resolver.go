// README: Fail-soft address resolution; every lookup ends as Resolved or Unresolved.
package location

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Geocoder turns a free-text query into the provider's best match.
// Implementations return ErrNoResults when nothing matched.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}

// GeocodeCache stores successful lookups keyed by the biased query.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (Place, bool, error)
	Put(ctx context.Context, query string, place Place) error
}

type ResolverOptions struct {
	// RegionSuffix is appended to every query, e.g. ", Quebec, Canada".
	RegionSuffix string
	Timeout      time.Duration
	Parallelism  int
	Cache        GeocodeCache
	Logger       *slog.Logger
}

type Resolver struct {
	geocoder    Geocoder
	suffix      string
	timeout     time.Duration
	parallelism int
	cache       GeocodeCache
	logger      *slog.Logger
}

func NewResolver(geocoder Geocoder, opts ResolverOptions) *Resolver {
	r := &Resolver{
		geocoder:    geocoder,
		suffix:      opts.RegionSuffix,
		timeout:     opts.Timeout,
		parallelism: opts.Parallelism,
		cache:       opts.Cache,
		logger:      opts.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = 5 * time.Second
	}
	if r.parallelism < 1 {
		r.parallelism = 4
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve never fails; provider errors, timeouts and empty results all come
// back as Unresolved carrying the original text.
func (r *Resolver) Resolve(ctx context.Context, text string) Resolution {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Unresolved{Query: text, Reason: "empty address"}
	}
	query := trimmed + r.suffix

	if r.cache != nil {
		place, ok, err := r.cache.Get(ctx, query)
		if err != nil {
			r.logger.Warn("geocode cache read failed", "query", query, "error", err)
		} else if ok {
			return Resolved{Query: text, Point: place.Point, DisplayName: place.DisplayName}
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	place, err := r.geocoder.Geocode(lookupCtx, query)
	if err != nil {
		r.logger.Warn("geocode failed", "query", query, "error", err)
		return Unresolved{Query: text, Reason: err.Error()}
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, query, place); err != nil {
			r.logger.Warn("geocode cache write failed", "query", query, "error", err)
		}
	}
	return Resolved{Query: text, Point: place.Point, DisplayName: place.DisplayName}
}

// ResolveAll resolves every address concurrently and returns results in
// input order once all lookups have finished.
func (r *Resolver) ResolveAll(ctx context.Context, texts []string) []Resolution {
	out := make([]Resolution, len(texts))

	// Resolve never returns an error, so the group never cancels siblings.
	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			out[i] = r.Resolve(ctx, text)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
