package booking

import "github.com/cockroachdb/errors"

const (
	MsgIncompleteDraft = "Please fill in all booking details"
	MsgInvalidRange    = "Check-out date must be after check-in date"
)

var (
	ErrIncompleteDraft  = errors.New("booking draft is incomplete")
	ErrInvalidDateRange = errors.New("booking date range is invalid")
	ErrSubmitInProgress = errors.New("booking submission already in progress")
)
