package orchestration

import (
	"context"
	"fmt"

	"github.com/mkovacic/halo-core/core/audio"
	"github.com/mkovacic/halo-core/core/events"
	"github.com/mkovacic/halo-core/core/texttospeech"
)

type textToSpeech struct {
	// client stores the configured text-to-speech implementation.
	client TextToSpeech

	emitEvent eventEmitter
	onAudio   func(audio []byte)
}

func newTextToSpeech(client TextToSpeech) *textToSpeech {
	return &textToSpeech{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (t *textToSpeech) set(client TextToSpeech) {
	if t != nil {
		t.client = client
	}
}

// Start opens the synthesis stream. When no client is configured the
// synthesizer is reported ready immediately so text-only sessions still move
// through the full turn lifecycle.
func (t *textToSpeech) Start(ctx context.Context, encodingInfo *audio.EncodingInfo) error {
	if !t.isConfigured() {
		t.emitEvent(events.NewSynthesizerReady())
		return nil
	}

	ttsOptions := []texttospeech.TextToSpeechOption{
		texttospeech.WithReadyCallback(t.invokeReady),
		texttospeech.WithAudioCallback(t.invokeAudio),
		texttospeech.WithUtteranceEndedCallback(t.invokeUtteranceEnded),
		texttospeech.WithErrorCallback(t.invokeError),
		texttospeech.WithEncodingInfo(*encodingInfo),
	}

	if err := t.client.OpenStream(ctx, ttsOptions...); err != nil {
		return fmt.Errorf("failed to open text-to-speech stream: %w", err)
	}

	return nil
}

// Speak hands one utterance to the synthesizer. When no client is configured
// playback is reported ended immediately so the turn can complete.
func (t *textToSpeech) Speak(utterance string) error {
	if !t.isConfigured() {
		t.emitEvent(events.NewPlaybackEnded(utterance))
		return nil
	}

	if err := t.client.SendText(utterance); err != nil {
		return fmt.Errorf("failed to send utterance to text-to-speech client: %w", err)
	}
	if err := t.client.FlushBuffer(); err != nil {
		return fmt.Errorf("failed to flush text-to-speech buffer: %w", err)
	}

	return nil
}

func (t *textToSpeech) Close(ctx context.Context) error {
	if !t.isConfigured() {
		return nil
	}

	switch c := t.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close text-to-speech client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close text-to-speech client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}

func (t *textToSpeech) SetEventEmitter(emitEvent eventEmitter) {
	if t != nil {
		if emitEvent != nil {
			t.emitEvent = emitEvent
		} else {
			t.emitEvent = noopEventEmitter
		}
	}
}

func (t *textToSpeech) SetAudioSink(onAudio func(audio []byte)) {
	if t != nil {
		t.onAudio = onAudio
	}
}

func (t *textToSpeech) isConfigured() bool {
	return t != nil && t.client != nil
}

func (t *textToSpeech) invokeReady() {
	t.emitEvent(events.NewSynthesizerReady())
}

func (t *textToSpeech) invokeAudio(audio []byte) {
	if t.onAudio != nil {
		t.onAudio(audio)
	}
}

func (t *textToSpeech) invokeUtteranceEnded(utterance string) {
	t.emitEvent(events.NewPlaybackEnded(utterance))
}

func (t *textToSpeech) invokeError(err error) {
	t.emitEvent(events.NewPlaybackFailed(err))
}
