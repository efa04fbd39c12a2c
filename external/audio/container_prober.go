package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
)

var (
	riffMagic = []byte("RIFF")
	oggMagic  = []byte("OggS")
)

// ContainerProber dispatches to a format-specific prober based on the container magic bytes.
type ContainerProber struct {
	wav audio.Prober
	ogg audio.Prober
}

func NewContainerProber(wav, ogg audio.Prober) audio.Prober {
	return &ContainerProber{wav: wav, ogg: ogg}
}

func (p *ContainerProber) Duration(src audio.Source) (time.Duration, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind source: %w", err)
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(src, magic); err != nil {
		return 0, fmt.Errorf("%w: header too short", audio.ErrUnsupportedFormat)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind source: %w", err)
	}
	switch {
	case bytes.Equal(magic, riffMagic):
		return p.wav.Duration(src)
	case bytes.Equal(magic, oggMagic):
		return p.ogg.Duration(src)
	default:
		return 0, fmt.Errorf("%w: unknown container %q", audio.ErrUnsupportedFormat, magic)
	}
}
