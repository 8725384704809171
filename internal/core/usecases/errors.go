package usecases

import "errors"

var (
	// ErrEmptyPlaceName is returned when a place lookup has no name.
	ErrEmptyPlaceName = errors.New("place name must not be empty")
	// ErrPlaceNotFound is returned when the gazetteer has no such place.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrTooFewVertices is returned for polygons with fewer than three vertices.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	// ErrEmptyAddress is returned when geocoding an empty address.
	ErrEmptyAddress = errors.New("address must not be empty")
	// ErrEmptyQuery is returned when searching with an empty query.
	ErrEmptyQuery = errors.New("search query must not be empty")
)
