package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead id has no row.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned when a patch carries an unknown
	// qualification status.
	ErrInvalidStatus = errors.New("invalid qualification status")
)
