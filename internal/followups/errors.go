package followups

import "errors"

var (
	// ErrTemplateNotFound is returned when no template matches the id.
	ErrTemplateNotFound = errors.New("followups: template not found")

	// ErrJobNotFound is returned when no job matches the id.
	ErrJobNotFound = errors.New("followups: job not found")

	// ErrJobAlreadySent is returned when send_now targets a job that has
	// already left the pending set.
	ErrJobAlreadySent = errors.New("followups: job already sent")
)
