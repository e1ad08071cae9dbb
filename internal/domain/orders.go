package domain

import "time"

// CancelWindow is how long after entering pending an order may be canceled.
const CancelWindow = 30 * time.Minute

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Cancelable is false when the order never entered pending.
func Cancelable(pendingAt *time.Time, now time.Time) bool {
	if pendingAt == nil {
		return false
	}
	return now.Sub(*pendingAt) <= CancelWindow
}
