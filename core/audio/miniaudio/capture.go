package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/mkovacic/halo-core/core/audio"
)

// captureFrameMs is the capture period handed downstream; short frames keep
// interim transcripts responsive without flooding the recognizer stream.
const captureFrameMs = 30

type captureClient struct {
	deviceMu sync.Mutex
	device   *malgo.Device
	encoding audio.EncodingInfo

	mu      sync.Mutex
	onAudio func(audio []byte)
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo) error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}
	if encoding.Format != audio.EncodingLinear16 {
		return fmt.Errorf("unsupported capture format %q", encoding.Format.Name())
	}
	c.encoding = encoding

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = 1
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = uint32(encoding.SampleRate * captureFrameMs / 1000)
	config.Periods = 3

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, captured []byte, frameCount uint32) {
			n := int(frameCount) * c.encoding.Format.ByteSize()
			if n == 0 || len(captured) < n {
				return
			}

			c.mu.Lock()
			onAudio := c.onAudio
			c.mu.Unlock()

			if onAudio != nil {
				onAudio(captured[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.device = device
	return nil
}

func (c *captureClient) Start(onAudio func(audio []byte)) error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}

	c.mu.Lock()
	c.onAudio = onAudio
	c.mu.Unlock()

	if c.device.IsStarted() {
		return nil
	}
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

func (c *captureClient) Stop() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}

	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()

	if !c.device.IsStarted() {
		return nil
	}
	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

func (c *captureClient) Uninit() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()
	return nil
}
