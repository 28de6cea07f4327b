package maps

import "context"

// Resolution is the outcome of an asynchronous geocoding request.
// Err is ErrAddressNotFound when the address has no match.
type Resolution struct {
	Address string
	Place   Place
	Err     error
}

// Resolve geocodes address in the background. The returned channel yields
// exactly one Resolution and is then closed.
func Resolve(ctx context.Context, g Geocoder, address string) <-chan Resolution {
	ch := make(chan Resolution, 1)
	go func() {
		defer close(ch)
		place, err := g.Geocode(ctx, address)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		ch <- Resolution{Address: address, Place: place, Err: err}
	}()
	return ch
}

// Resolved returns a channel that already holds place.
func Resolved(address string, place Place) <-chan Resolution {
	ch := make(chan Resolution, 1)
	ch <- Resolution{Address: address, Place: place}
	close(ch)
	return ch
}

// Await waits for a Resolution or for ctx to end.
func Await(ctx context.Context, ch <-chan Resolution) Resolution {
	select {
	case r, ok := <-ch:
		if !ok {
			return Resolution{Err: context.Canceled}
		}
		return r
	case <-ctx.Done():
		return Resolution{Err: ctx.Err()}
	}
}
