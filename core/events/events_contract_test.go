package events

import (
	"errors"
	"testing"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "resume requested", event: NewResumeRequested(), expected: KindResumeRequested},
		{name: "pause requested", event: NewPauseRequested(), expected: KindPauseRequested},
		{name: "stop recording requested", event: NewStopRecordingRequested(), expected: KindStopRecordingRequested},
		{name: "recognizer ready", event: NewRecognizerReady(), expected: KindRecognizerReady},
		{name: "recognizer failed", event: NewRecognizerFailed(errors.New("boom")), expected: KindRecognizerFailed},
		{name: "synthesizer ready", event: NewSynthesizerReady(), expected: KindSynthesizerReady},
		{name: "synthesizer failed", event: NewSynthesizerFailed(errors.New("boom")), expected: KindSynthesizerFailed},
		{name: "user audio frame", event: NewUserAudioFrame([]byte{1}), expected: KindUserAudioFrame},
		{name: "user transcript interim", event: NewUserTranscriptInterim("hel"), expected: KindUserTranscriptInterim},
		{name: "user transcript final", event: NewUserTranscriptFinal("hello"), expected: KindUserTranscriptFinal},
		{name: "recording closed", event: NewRecordingClosed("session-1", "stopped"), expected: KindRecordingClosed},
		{name: "turn reply ready", event: NewTurnReplyReady("in", "out", false), expected: KindTurnReplyReady},
		{name: "playback ended", event: NewPlaybackEnded("out"), expected: KindPlaybackEnded},
		{name: "playback failed", event: NewPlaybackFailed(errors.New("boom")), expected: KindPlaybackFailed},
	}

	seen := map[Kind]string{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if previous, ok := seen[testCase.expected]; ok {
				t.Fatalf("kind %q already used by %q", testCase.expected, previous)
			}
			seen[testCase.expected] = testCase.name
		})
	}
}

func TestKindSources(t *testing.T) {
	for _, testCase := range []struct {
		kind     Kind
		expected string
	}{
		{KindUserTranscriptFinal, "user_input"},
		{KindRecordingClosed, "recording"},
		{KindTurnReplyReady, "turn_state"},
		{KindPlaybackEnded, "assistant_playback"},
		{KindRecognizerReady, "collaborator"},
		{KindPauseRequested, "command"},
	} {
		if got := testCase.kind.Source(); got != testCase.expected {
			t.Fatalf("expected source %q for kind %q, got %q", testCase.expected, testCase.kind, got)
		}
	}
}

func TestEventTimestampsAreSet(t *testing.T) {
	event := NewUserTranscriptFinal("hello")
	if event.Timestamp().IsZero() {
		t.Fatalf("expected event timestamp to be set")
	}
}
