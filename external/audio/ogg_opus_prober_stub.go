//go:build !opus

package audio

import (
	"fmt"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
)

type noopOggOpusProber struct{}

func NewOggOpusProber() audio.Prober {
	return &noopOggOpusProber{}
}

func (p *noopOggOpusProber) Duration(_ audio.Source) (time.Duration, error) {
	return 0, fmt.Errorf("%w: ogg/opus support requires the opus build tag", audio.ErrUnsupportedFormat)
}
