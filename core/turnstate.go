package orchestration

import "time"

// TurnState is the lifecycle state of the voice turn loop.
type TurnState string

const (
	// TurnStateIdle means the loop exists but no collaborators are running.
	TurnStateIdle TurnState = "idle"
	// TurnStateInitializing means collaborators are connecting but the loop
	// is not yet accepting speech.
	TurnStateInitializing TurnState = "initializing"
	// TurnStateListening means the recognizer is live and finals are being
	// scanned for the wake phrase.
	TurnStateListening TurnState = "listening"
	// TurnStateProcessing means a qualifying utterance is in flight to the
	// conversation backend.
	TurnStateProcessing TurnState = "processing"
	// TurnStateSpeaking means the reply is being synthesized and played.
	TurnStateSpeaking TurnState = "speaking"
	// TurnStateError means a collaborator failed; the loop stays parked here
	// until resumed.
	TurnStateError TurnState = "error"
)

// StatusV0 is a point-in-time snapshot of orchestrator state.
type StatusV0 struct {
	State        TurnState
	LastError    string
	Listening    bool
	Recording    bool
	LastActivity time.Time
}
