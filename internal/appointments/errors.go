package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment matches the id.
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("appointments: invalid status")
)
