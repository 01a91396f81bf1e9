// Package events defines the typed event contract consumed by the
// interaction orchestrator's turn machine.
//
// Event kinds are grouped by producer-facing namespaces:
//
//   - command.*
//   - collaborator.*
//   - user_input.*
//   - recording.*
//   - turn_state.*
//   - assistant_playback.*
//
// command events
//
//   - ResumeRequested (command.resume): enter or re-enter the turn lifecycle.
//   - PauseRequested (command.pause): return to Idle, cancelling in-flight
//     recognition and recording.
//   - StopRecordingRequested (command.stop_recording): close the open
//     recording session, if any.
//
// collaborator events
//
//   - RecognizerReady (collaborator.recognizer_ready): the speech recognizer
//     reported readiness.
//   - RecognizerFailed (collaborator.recognizer_failed): the recognizer
//     failed to initialize; fatal for the current session.
//   - SynthesizerReady (collaborator.synthesizer_ready): the speech
//     synthesizer reported readiness.
//   - SynthesizerFailed (collaborator.synthesizer_failed): the synthesizer
//     failed to initialize; fatal for the current session.
//
// user_input events
//
//   - UserAudioFrame (user_input.audio_frame): raw captured audio frame.
//   - UserTranscriptInterim (user_input.transcript_interim): mutable interim
//     transcript snapshot, may be overwritten.
//   - UserTranscriptFinal (user_input.transcript_final): terminal transcript
//     for the utterance; the only transcript kind that can start a turn.
//
// recording events
//
//   - RecordingClosed (recording.closed): the recording session closed; the
//     reason distinguishes window expiry from an explicit stop.
//
// turn_state events
//
//   - TurnReplyReady (turn_state.reply_ready): the backend round trip for the
//     in-flight turn completed; carries the reply text (possibly a fallback
//     phrase) to be spoken.
//
// assistant_playback events
//
//   - PlaybackEnded (assistant_playback.ended): the synthesizer finished
//     playing the utterance for the in-flight turn.
//   - PlaybackFailed (assistant_playback.failed): playback failed; the turn
//     still completes and the machine returns to Listening.
package events
