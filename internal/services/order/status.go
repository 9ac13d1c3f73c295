package order

// Order statuses. An order starts pending and advances one step at a time;
// delivered and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	ModeDineIn   = "dine_in"
	ModeTakeaway = "takeaway"
)

// transitions holds the admin-visible state machine. Cancelled is reachable
// from every non-terminal state; nothing leaves delivered or cancelled.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
}

// KnownStatus reports whether s is one of the five recognized transition
// targets. Pending is not a target: orders are only ever created pending.
func KnownStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func IsTerminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an administrator may move an order from one
// status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ClientMayCancel reports whether the owning client may still cancel: only
// while the order is exactly pending.
func ClientMayCancel(status string) bool {
	return status == StatusPending
}

func KnownMode(m string) bool {
	return m == ModeDineIn || m == ModeTakeaway
}
