// Package deepgram implements the speech synthesizer collaborator on top of
// Deepgram's streaming speak websocket.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mkovacic/halo-core/core/audio"
	"github.com/mkovacic/halo-core/core/texttospeech"
)

type deepgramVoice string

const (
	VoiceAsteria deepgramVoice = "aura-2-asteria-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceLuna    deepgramVoice = "aura-2-luna-en"
)

const defaultVoice = VoiceAsteria

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceAsteria, VoiceOrion, VoiceLuna}
}

// VoiceFromName resolves a voice by its model name, e.g. "aura-2-asteria-en".
func VoiceFromName(name string) (deepgramVoice, error) {
	for _, voice := range GetAvailableVoices() {
		if string(voice) == name {
			return voice, nil
		}
	}
	return defaultVoice, fmt.Errorf("unknown voice %q", name)
}

type SpeakClient struct {
	conn *websocket.Conn
	mu   sync.Mutex

	// utteranceBuffer queues utterances between flushes so the "Flushed"
	// confirmation can be matched back to the text it finished speaking.
	utteranceBuffer []string
	bufferMu        sync.Mutex

	voice   deepgramVoice
	options texttospeech.TextToSpeechOptions
}

func NewSpeakClient(voice deepgramVoice) (*SpeakClient, error) {
	client := &SpeakClient{voice: defaultVoice}

	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	client.voice = voice
	return client, nil
}

// OpenStream opens the streaming connection to the synthesizer.
func (c *SpeakClient) OpenStream(ctx context.Context, opts ...texttospeech.TextToSpeechOption) error {
	for _, opt := range opts {
		opt(&c.options)
	}

	conn, err := connectWebsocket(c.voice, c.options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readAndProcessMessages(ctx, conn)

	if c.options.ReadyCallback != nil {
		c.options.ReadyCallback()
	}

	return nil
}

func connectWebsocket(voice deepgramVoice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	if encodingInfo.IsZero() {
		encodingInfo = audio.GetDefaultEncodingInfo()
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// SendText appends text to the current utterance and forwards it to the
// synthesizer.
func (c *SpeakClient) SendText(text string) error {
	c.bufferMu.Lock()
	defer c.bufferMu.Unlock()

	if len(c.utteranceBuffer) == 0 {
		c.utteranceBuffer = append(c.utteranceBuffer, "")
	}

	if err := c.sendWebsocketMessage(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "Speak", Text: text}); err != nil {
		return fmt.Errorf("failed to send text to deepgram through websocket: %w", err)
	}

	c.utteranceBuffer[len(c.utteranceBuffer)-1] += text
	return nil
}

// FlushBuffer marks the end of the current utterance; the synthesizer
// confirms with a "Flushed" message once the audio for it has been produced.
func (c *SpeakClient) FlushBuffer() error {
	c.bufferMu.Lock()
	defer c.bufferMu.Unlock()

	if err := c.sendWebsocketMessage(struct {
		Type string `json:"type"`
	}{Type: "Flush"}); err != nil {
		return fmt.Errorf("failed to flush deepgram buffer through websocket: %w", err)
	}

	// Deepgram sometimes drops text sent right after a flush; queueing a
	// fresh utterance slot avoids mixing it into the flushed one.
	c.utteranceBuffer = append(c.utteranceBuffer, "")
	return nil
}

// ClearBuffer drops all queued utterances and any not-yet-played audio.
func (c *SpeakClient) ClearBuffer() error {
	if err := c.sendWebsocketMessage(struct {
		Type string `json:"type"`
	}{Type: "Clear"}); err != nil {
		return fmt.Errorf("failed to clear deepgram buffer through websocket: %w", err)
	}

	c.bufferMu.Lock()
	c.utteranceBuffer = nil
	c.bufferMu.Unlock()
	return nil
}

// Close closes the streaming connection. Safe to call when the stream was
// never opened.
func (c *SpeakClient) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "Close"}); err != nil {
		closeErr := c.conn.Close()
		c.conn = nil
		if closeErr != nil {
			return fmt.Errorf("failed to close websocket: %w", closeErr)
		}
	}
	c.conn = nil

	return nil
}

func (c *SpeakClient) sendWebsocketMessage(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("websocket connection closed")
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}

func (c *SpeakClient) readAndProcessMessages(_ context.Context, conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" && c.options.ErrorCallback != nil {
				c.options.ErrorCallback(fmt.Errorf("websocket read error: %w", err))
			}

			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			conn.Close()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if c.options.AudioCallback != nil && len(msg) > 0 {
				c.options.AudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}

			if parsedMsg.Type == "Flushed" {
				c.bufferMu.Lock()
				var utterance string
				if len(c.utteranceBuffer) > 0 {
					utterance = c.utteranceBuffer[0]
					c.utteranceBuffer = c.utteranceBuffer[1:]
				}
				c.bufferMu.Unlock()

				if c.options.UtteranceEndedCallback != nil {
					c.options.UtteranceEndedCallback(utterance)
				}
			}
		}
	}
}
