package location

import (
	"context"
	"fmt"
)

// Provider interface defines the methods for location providers
type Provider interface {
	GetLocation(ctx context.Context) (Location, error)
	Close() error
}

type result struct {
	loc Location
	err error
}

// Fetch asks p for a single fix. It returns when the provider answers or ctx
// is done, whichever comes first, and rejects fixes outside valid coordinates.
func Fetch(ctx context.Context, p Provider) (Location, error) {
	ch := make(chan result, 1)
	go func() {
		loc, err := p.GetLocation(ctx)
		ch <- result{loc: loc, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return Location{}, r.err
		}
		if err := r.loc.Point().Validate(); err != nil {
			return Location{}, fmt.Errorf("provider returned unusable fix: %w", err)
		}
		return r.loc, nil
	case <-ctx.Done():
		return Location{}, ctx.Err()
	}
}
