package audio

import (
	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Prober, error) {
		return NewContainerProber(NewWAVProber(), NewOggOpusProber()), nil
	})
}
