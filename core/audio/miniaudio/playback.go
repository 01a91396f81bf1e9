package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/mkovacic/halo-core/core/audio"
)

type playbackClient struct {
	deviceMu sync.Mutex
	device   *malgo.Device
	encoding audio.EncodingInfo

	// mu guards pendingAudio and marks together; the device data callback
	// consumes both under one lock so mark positions stay consistent with the
	// buffer they index into.
	mu           sync.Mutex
	pendingAudio []byte
	marks        []playbackMark
}

// playbackMark fires its callback once every byte queued before it has been
// handed to the device.
type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo) error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}
	if encoding.Format != audio.EncodingLinear16 {
		return fmt.Errorf("unsupported playback format %q", encoding.Format.Name())
	}
	c.encoding = encoding

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(encoding.SampleRate / 10) // ~100ms
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: c.fillOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	c.device = device
	return nil
}

func (c *playbackClient) Start() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return fmt.Errorf("playback device not initialized")
	}
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) Stop() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return fmt.Errorf("playback device not initialized")
	}
	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingAudio = append(c.pendingAudio, audio...)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingAudio = nil
	c.marks = nil
}

// AwaitMark blocks until all audio queued before the call has been handed to
// the playback device.
func (c *playbackClient) AwaitMark() error {
	done := make(chan struct{})
	if err := c.Mark("", func(string) { close(done) }); err != nil {
		return err
	}
	<-done
	return nil
}

func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: len(c.pendingAudio),
		callback: callback,
	})
	return nil
}

func (c *playbackClient) fillOutput(out, _ []byte, frameCount uint32) {
	need := int(frameCount) * c.encoding.Format.ByteSize()

	c.mu.Lock()
	played := min(need, len(c.pendingAudio))
	copy(out, c.pendingAudio[:played])
	c.pendingAudio = c.pendingAudio[played:]
	passed := c.advanceMarks(played)
	c.mu.Unlock()

	// Pad the unfilled tail with the format's silence value; malgo hands the
	// buffer over zeroed, which is only correct for linear16.
	if silence := c.encoding.SilenceValue(); silence != 0 {
		for i := played; i < need && i < len(out); i++ {
			out[i] = silence
		}
	}

	if len(passed) > 0 {
		// Callbacks run off the audio thread so a slow one cannot starve the
		// device.
		go func() {
			for _, mark := range passed {
				mark.callback(mark.name)
			}
		}()
	}
}

// advanceMarks shifts mark positions by the consumed byte count and returns
// the marks whose audio has now fully played. Caller holds mu.
func (c *playbackClient) advanceMarks(consumed int) []playbackMark {
	var passed []playbackMark
	kept := c.marks[:0]
	for _, mark := range c.marks {
		if mark.position <= consumed {
			passed = append(passed, mark)
			continue
		}
		mark.position -= consumed
		kept = append(kept, mark)
	}
	c.marks = kept
	return passed
}

func (c *playbackClient) Uninit() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return nil
	}
	c.device.Uninit()
	c.device = nil
	return nil
}
