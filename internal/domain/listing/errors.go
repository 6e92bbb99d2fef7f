package listing

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrNotOwner           = errors.New("listing does not belong to user")
	ErrInvalidCategory    = errors.New("unknown category code")
	ErrNotAvailable       = errors.New("listing is not available")
	ErrAlreadySponsored   = errors.New("listing is already sponsored")
	ErrOwnListingUnlock   = errors.New("cannot unlock contact for own listing")
	ErrAlreadySold        = errors.New("listing is already sold")
)
