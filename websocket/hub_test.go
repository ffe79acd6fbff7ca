package websocket

import "testing"

func drainBroadcast() {
	for {
		select {
		case <-Broadcast:
		default:
			return
		}
	}
}

func TestNotifyQueuesEventsWhileHubIsBusy(t *testing.T) {
	drainBroadcast()
	defer drainBroadcast()

	// No hub goroutine is reading; events must still be retained.
	events := []*WaitlistEvent{
		{Action: "entry_added", Date: "2024-06-01", Hour: "18:00"},
		{Action: "entry_removed", Date: "2024-06-01", Hour: "18:00"},
		{Action: "pairing_created", Date: "2024-06-01", Hour: "18:00"},
	}
	for _, event := range events {
		Notify(event)
	}

	if got := len(Broadcast); got != len(events) {
		t.Fatalf("expected %d queued events, got %d", len(events), got)
	}
	for i, want := range events {
		if got := <-Broadcast; got.Action != want.Action {
			t.Fatalf("event %d: expected action %s, got %s", i, want.Action, got.Action)
		}
	}
}

func TestNotifyNeverBlocksWhenBufferIsFull(t *testing.T) {
	drainBroadcast()
	defer drainBroadcast()

	overflow := cap(Broadcast) + 5
	for i := 0; i < overflow; i++ {
		Notify(&WaitlistEvent{Action: "entry_added"})
	}

	// Excess events are dropped, not deadlocked on.
	if got := len(Broadcast); got != cap(Broadcast) {
		t.Fatalf("expected a full buffer of %d events, got %d", cap(Broadcast), got)
	}
}
