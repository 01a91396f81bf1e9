package orchestration

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestRecordingSessionClosesOnceOnExplicitStop(t *testing.T) {
	var mu sync.Mutex
	reasons := []string{}

	session := newRecordingSession(time.Hour, func(_, reason string) {
		mu.Lock()
		reasons = append(reasons, reason)
		mu.Unlock()
	})

	session.Stop()
	session.Stop()
	session.Cancel()

	mu.Lock()
	defer mu.Unlock()
	if len(reasons) != 1 {
		t.Fatalf("expected exactly one close, got %v", reasons)
	}
	if reasons[0] != recordingCloseReasonStopped {
		t.Fatalf("expected reason %q, got %q", recordingCloseReasonStopped, reasons[0])
	}
}

func TestRecordingSessionClosesOnWindowExpiry(t *testing.T) {
	closed := make(chan string, 1)

	session := newRecordingSession(20*time.Millisecond, func(_, reason string) {
		closed <- reason
	})

	select {
	case reason := <-closed:
		if reason != recordingCloseReasonWindowElapsed {
			t.Fatalf("expected reason %q, got %q", recordingCloseReasonWindowElapsed, reason)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for window expiry")
	}

	// A late stop must not close the session a second time.
	session.Stop()

	select {
	case reason := <-closed:
		t.Fatalf("unexpected second close with reason %q", reason)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecordingSessionsGetDistinctIdentities(t *testing.T) {
	first := newRecordingSession(time.Hour, nil)
	second := newRecordingSession(time.Hour, nil)
	defer first.Cancel()
	defer second.Cancel()

	if first.id == "" || second.id == "" {
		t.Fatalf("expected sessions to carry identities")
	}
	if first.id == second.id {
		t.Fatalf("expected distinct session identities, both got %q", first.id)
	}

	closed := make(chan string, 1)
	identified := newRecordingSession(time.Hour, func(id, _ string) {
		closed <- id
	})
	identified.Stop()

	if id := <-closed; id != identified.id {
		t.Fatalf("expected close to report session %q, got %q", identified.id, id)
	}
}

func TestRecordingSessionDropsFramesAfterClose(t *testing.T) {
	session := newRecordingSession(time.Hour, nil)

	session.Offer([]byte{1, 2})
	session.Offer([]byte{3, 4})
	session.Stop()
	session.Offer([]byte{5, 6})

	if session.IsOpen() {
		t.Fatalf("expected session to be closed")
	}
	if captured := session.Audio(); !bytes.Equal(captured, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected frames captured before close only, got %v", captured)
	}
}
