package domain

import "errors"

var (
	// ErrRateLimited signals an explicit throttle or transient failure from
	// the inventory or pricing endpoint.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoPriceAvailable means the pricing endpoint answered but returned
	// no usable listing for the item.
	ErrNoPriceAvailable = errors.New("no price available")
)
