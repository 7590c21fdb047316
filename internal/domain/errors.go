package domain

import "errors"

// Business rule rejections. Collaborator failures (database, cache, broker)
// are never wrapped in these and surface as internal errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrNoResults          = errors.New("no results")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidItinerary   = errors.New("invalid itinerary")
	ErrInvalidAge         = errors.New("invalid passenger age")
	ErrInvalidAssociation = errors.New("invalid passenger association")
	ErrInvalidTransition  = errors.New("invalid booking transition")
	ErrConflict           = errors.New("concurrent modification")
)

// IsBusinessError reports whether err is a client-visible rule rejection.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrNoResults, ErrValidation, ErrInvalidItinerary,
		ErrInvalidAge, ErrInvalidAssociation, ErrInvalidTransition, ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
