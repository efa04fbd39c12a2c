package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/go-audio/wav"
)

type WAVProber struct{}

func NewWAVProber() *WAVProber {
	return &WAVProber{}
}

// Duration derives playback length from the data chunk size and the fmt chunk.
func (p *WAVProber) Duration(src audio.Source) (time.Duration, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind wav source: %w", err)
	}
	dec := wav.NewDecoder(src)
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%w: %v", audio.ErrUnsupportedFormat, err)
	}
	bytesPerSecond := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if bytesPerSecond <= 0 {
		return 0, fmt.Errorf("%w: invalid wav format chunk", audio.ErrUnsupportedFormat)
	}
	d := time.Duration(int64(dec.PCMSize) * int64(time.Second) / bytesPerSecond)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind wav source: %w", err)
	}
	return d, nil
}
