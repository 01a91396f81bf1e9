package deepgram

import (
	"fmt"

	"github.com/mkovacic/halo-core/core/audio"
)

var supportedEncodings = map[string]string{
	"linear16": "linear16",
	"mulaw":    "mulaw",
	"alaw":     "alaw",
}

func convertEncoding(encodingInfo audio.EncodingInfo) (audio.EncodingInfo, error) {
	if encodingInfo.IsZero() {
		return audio.GetDefaultEncodingInfo(), nil
	}

	if _, ok := supportedEncodings[encodingInfo.Format.Name()]; !ok {
		return audio.EncodingInfo{}, fmt.Errorf("unsupported encoding %q", encodingInfo.Format.Name())
	}

	return encodingInfo, nil
}
