package events

// KindRecordingClosed identifies recording session closure.
const KindRecordingClosed Kind = "recording.closed"

// RecordingClosed marks the close of a recording session. SessionID names
// the session that closed so a stale close from an earlier session cannot be
// mistaken for the current one. Reason is one of the recording close reasons
// defined by the orchestration package ("window_elapsed", "stopped",
// "cancelled").
type RecordingClosed struct {
	Base
	SessionID string
	Reason    string
}

// NewRecordingClosed creates a recording closed event.
func NewRecordingClosed(sessionID, reason string) RecordingClosed {
	return RecordingClosed{Base: NewBase(KindRecordingClosed), SessionID: sessionID, Reason: reason}
}
