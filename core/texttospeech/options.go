package texttospeech

import "github.com/mkovacic/halo-core/core/audio"

type TextToSpeechOptions struct {
	// ReadyCallback is called once the synthesizer is connected and able to
	// accept text.
	ReadyCallback func()
	// AudioCallback is called when the synthesizer produces audio.
	AudioCallback func(audio []byte)
	// UtteranceEndedCallback is called when the synthesizer has finished
	// producing audio for one flushed utterance, with the utterance text.
	UtteranceEndedCallback func(utterance string)
	// ErrorCallback is called when the synthesizer encounters an error; this
	// usually means the stream was cancelled or lost.
	ErrorCallback func(err error)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithReadyCallback(callback func()) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.ReadyCallback = callback
	}
}

func WithAudioCallback(callback func(audio []byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.AudioCallback = callback
	}
}

func WithUtteranceEndedCallback(callback func(utterance string)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.UtteranceEndedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
