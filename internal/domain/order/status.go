package order

import (
	"errors"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid order status")

type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus normalizes a textual label into a known status.
// Unknown labels are rejected rather than stored as-is, so a typo
// cannot create a new state.
func ParseStatus(label string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(label))) {
	case StatusCreated:
		return StatusCreated, nil
	case StatusProcessing:
		return StatusProcessing, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}
