package bookings

// Status is a booking's lifecycle state. Transitions are validated by
// CanTransitionTo and applied only under a row lock, so concurrent
// attempts on the same booking serialize.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the booking can never leave this state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle permits moving to target.
// Pending may confirm or cancel; confirmed may complete or cancel;
// completed and cancelled accept nothing.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// Occupies reports whether a booking in this state holds its time slot
// for availability purposes.
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}
