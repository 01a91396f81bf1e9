package ui

import (
	"errors"
	"strings"
	"testing"

	orchestration "github.com/mkovacic/halo-core/core"
)

func TestStateChangeIsRendered(t *testing.T) {
	m := NewModel()

	updated, _ := m.Update(StateChangedMsg{From: orchestration.TurnStateIdle, To: orchestration.TurnStateListening})
	view := updated.View()

	if !strings.Contains(view, "listening") {
		t.Fatalf("expected view to show listening state, got:\n%s", view)
	}
}

func TestExchangeIsLogged(t *testing.T) {
	m := NewModel()

	updated, _ := m.Update(ExchangeMsg{Exchange: orchestration.ConversationExchange{
		InputText: "turn on the lights",
		ReplyText: "lights are on",
	}})
	view := updated.View()

	if !strings.Contains(view, "turn on the lights") {
		t.Fatalf("expected view to show the user input, got:\n%s", view)
	}
	if !strings.Contains(view, "lights are on") {
		t.Fatalf("expected view to show the reply, got:\n%s", view)
	}
}

func TestInterimTranscriptIsClearedByFinal(t *testing.T) {
	m := NewModel()

	model, _ := m.Update(TranscriptMsg{Text: "hey ja", Interim: true})
	model, _ = model.Update(TranscriptMsg{Text: "what lovely weather", Interim: false})
	view := model.View()

	if strings.Contains(view, "hey ja") {
		t.Fatalf("expected interim transcript to be cleared, got:\n%s", view)
	}
}

func TestUserLineAppearsOncePerTurn(t *testing.T) {
	m := NewModel()

	model, _ := m.Update(TranscriptMsg{Text: "what is the weather like", Interim: false})
	model, _ = model.Update(ExchangeMsg{Exchange: orchestration.ConversationExchange{
		InputText: "what is the weather like",
		ReplyText: "sunny all day",
	}})
	view := model.View()

	if got := strings.Count(view, "what is the weather like"); got != 1 {
		t.Fatalf("expected the user line exactly once, got %d occurrences in:\n%s", got, view)
	}
	if !strings.Contains(view, "sunny all day") {
		t.Fatalf("expected the reply in the log, got:\n%s", view)
	}
}

func TestRecordingIndicator(t *testing.T) {
	m := NewModel()

	model, _ := m.Update(RecordingMsg{Active: true})
	if !strings.Contains(model.View(), "rec") {
		t.Fatalf("expected recording indicator")
	}

	model, _ = model.Update(RecordingMsg{Active: false})
	if strings.Contains(model.View(), "rec") {
		t.Fatalf("expected recording indicator to clear")
	}
}

func TestErrorIsShownAndClearedOnRecovery(t *testing.T) {
	m := NewModel()

	model, _ := m.Update(ErrorMsg{Err: errors.New("recognizer failed")})
	if !strings.Contains(model.View(), "recognizer failed") {
		t.Fatalf("expected error in view")
	}

	model, _ = model.Update(StateChangedMsg{From: orchestration.TurnStateError, To: orchestration.TurnStateListening})
	if strings.Contains(model.View(), "recognizer failed") {
		t.Fatalf("expected error to clear on recovery")
	}
}
