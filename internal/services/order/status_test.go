package order

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusDelivered, true},

		// cancellation from every non-terminal state
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},

		// skipping a step
		{StatusPending, StatusPreparing, false},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusReady, false},

		// moving backwards
		{StatusConfirmed, StatusPending, false},
		{StatusReady, StatusPreparing, false},

		// nothing leaves a terminal state
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []string{StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		if !KnownStatus(s) {
			t.Errorf("expected %q to be a known status", s)
		}
	}

	// pending is the creation state, never a transition target
	if KnownStatus(StatusPending) {
		t.Error("pending must not be a valid transition target")
	}
	if KnownStatus("shipped") {
		t.Error("unknown status accepted")
	}
	if KnownStatus("") {
		t.Error("empty status accepted")
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusDelivered) || !IsTerminal(StatusCancelled) {
		t.Error("delivered and cancelled must be terminal")
	}
	for _, s := range []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady} {
		if IsTerminal(s) {
			t.Errorf("%q must not be terminal", s)
		}
	}
}

func TestClientMayCancel(t *testing.T) {
	if !ClientMayCancel(StatusPending) {
		t.Error("client must be able to cancel a pending order")
	}
	for _, s := range []string{StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		if ClientMayCancel(s) {
			t.Errorf("client must not cancel a %s order", s)
		}
	}
}

func TestKnownMode(t *testing.T) {
	if !KnownMode(ModeDineIn) || !KnownMode(ModeTakeaway) {
		t.Error("dine_in and takeaway are the two modes")
	}
	if KnownMode("delivery") || KnownMode("") {
		t.Error("unknown mode accepted")
	}
}
