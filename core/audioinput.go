package orchestration

import (
	"context"
	"fmt"

	"github.com/mkovacic/halo-core/core/audio"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type audioInput struct {
	// client stores the configured audio input implementation.
	client AudioInput

	onAudio func(audio []byte)
}

func newAudioInput(client AudioInput, onAudio func(audio []byte)) *audioInput {
	return &audioInput{
		client:  client,
		onAudio: onAudio,
	}
}

func (a *audioInput) set(client AudioInput) {
	if a != nil {
		a.client = client
	}
}

func (a *audioInput) isConfigured() bool {
	return a != nil && a.client != nil
}

// Start begins streaming captured audio into the orchestrator. Blocking
// capture clients run on their own goroutine.
func (a *audioInput) Start(ctx context.Context) {
	if !a.isConfigured() {
		return
	}

	go func() {
		if err := a.client.Stream(ctx, a.onAudio); err != nil {
			recordedErr := fmt.Errorf("audio capture stream failed: %w", err)
			span := trace.SpanFromContext(ctx)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	}()
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}

	encodingInfo := a.client.EncodingInfo()
	if encodingInfo.IsZero() {
		return audio.GetDefaultEncodingInfo()
	}
	return encodingInfo
}

func (a *audioInput) Close() error {
	if !a.isConfigured() {
		return nil
	}

	a.client.Close()
	return nil
}
