package service

import "context"

// Pacer spaces out calls to a rate-limited upstream. *rate.Limiter satisfies
// it directly.
type Pacer interface {
	Wait(ctx context.Context) error
}
