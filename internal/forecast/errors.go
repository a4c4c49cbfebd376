package forecast

import "fmt"

// InsufficientDataError signals that a protocol cannot produce even one
// valid training window or forecast origin from the given series.
type InsufficientDataError struct {
	Op   string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d observations, have %d", e.Op, e.Need, e.Have)
}

// IsTransient returns false: a short series stays short on retry.
func (e *InsufficientDataError) IsTransient() bool {
	return false
}
