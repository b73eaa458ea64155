package audio

import (
	"bytes"
	"errors"
	"fmt"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// bytesPerSample is fixed by the decoder: 16-bit little endian, two channels.
const bytesPerSample = 4

var ErrEmptyAudio = errors.New("audio payload is empty")

// Duration returns the playback length of an MP3 payload in seconds.
func Duration(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyAudio
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode mp3: %w", err)
	}
	if dec.SampleRate() == 0 || dec.Length() <= 0 {
		return 0, fmt.Errorf("failed to measure mp3: no frames")
	}

	samples := dec.Length() / bytesPerSample
	return float64(samples) / float64(dec.SampleRate()), nil
}
