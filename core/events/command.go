package events

const (
	// KindResumeRequested identifies a resume command.
	KindResumeRequested Kind = "command.resume"
	// KindPauseRequested identifies a pause command.
	KindPauseRequested Kind = "command.pause"
	// KindStopRecordingRequested identifies an explicit recording stop.
	KindStopRecordingRequested Kind = "command.stop_recording"
)

// ResumeRequested asks the turn machine to (re-)enter Initializing.
type ResumeRequested struct{ Base }

// NewResumeRequested creates a resume command event.
func NewResumeRequested() ResumeRequested {
	return ResumeRequested{Base: NewBase(KindResumeRequested)}
}

// PauseRequested asks the turn machine to return to Idle.
type PauseRequested struct{ Base }

// NewPauseRequested creates a pause command event.
func NewPauseRequested() PauseRequested {
	return PauseRequested{Base: NewBase(KindPauseRequested)}
}

// StopRecordingRequested asks the turn machine to close the open recording
// session, if any.
type StopRecordingRequested struct{ Base }

// NewStopRecordingRequested creates a stop-recording command event.
func NewStopRecordingRequested() StopRecordingRequested {
	return StopRecordingRequested{Base: NewBase(KindStopRecordingRequested)}
}
