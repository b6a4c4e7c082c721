package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBelowMinimum    = errors.New("amount is below the venue minimum")
	ErrNoOffers        = errors.New("no offers found")
	ErrUpstream        = errors.New("upstream request failed")
	ErrUnknownVenue    = errors.New("unknown venue")
)
