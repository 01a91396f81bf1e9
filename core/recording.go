package orchestration

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	recordingCloseReasonWindowElapsed = "window_elapsed"
	recordingCloseReasonStopped       = "stopped"
	recordingCloseReasonCancelled     = "cancelled"
)

// recordingSession buffers captured audio for a bounded window after the wake
// phrase is heard. Whichever of window expiry, an explicit stop, or a
// cancellation happens first closes the session; the rest are no-ops.
type recordingSession struct {
	// id distinguishes this session from any earlier one whose close may
	// still be in flight.
	id       string
	openedAt time.Time
	window   time.Duration

	timer    *time.Timer
	stopOnce sync.Once
	onClosed func(id, reason string)

	mu     sync.Mutex
	audio  []byte
	closed bool
}

func newRecordingSession(window time.Duration, onClosed func(id, reason string)) *recordingSession {
	session := &recordingSession{
		id:       uuid.NewString(),
		openedAt: time.Now(),
		window:   window,
		onClosed: onClosed,
	}
	session.timer = time.AfterFunc(window, func() {
		session.stop(recordingCloseReasonWindowElapsed)
	})
	return session
}

// Offer appends one captured frame. Frames offered after the session closed
// are dropped.
func (s *recordingSession) Offer(frame []byte) {
	if s == nil || len(frame) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.audio = append(s.audio, frame...)
}

func (s *recordingSession) Stop() {
	s.stop(recordingCloseReasonStopped)
}

func (s *recordingSession) Cancel() {
	s.stop(recordingCloseReasonCancelled)
}

func (s *recordingSession) stop(reason string) {
	if s == nil {
		return
	}

	s.stopOnce.Do(func() {
		s.timer.Stop()

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if s.onClosed != nil {
			s.onClosed(s.id, reason)
		}
	})
}

func (s *recordingSession) IsOpen() bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Audio returns a copy of everything captured so far.
func (s *recordingSession) Audio() []byte {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	captured := make([]byte, len(s.audio))
	copy(captured, s.audio)
	return captured
}
