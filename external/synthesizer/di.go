package synthesizer

import (
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (synthesizer.Synthesizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewAzureSynthesizer(AzureTTSConfig{
			Key:          c.AzureSpeechKey,
			Region:       c.AzureSpeechRegion,
			OutputFormat: c.AzureTTSOutputFormat,
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (synthesizer.VoiceCatalog, error) {
		c := do.MustInvoke[*config.Config](i)
		return LoadVoiceCatalog(c.TTSVoiceCatalogFile, c.TTSDefaultVoice)
	})
}
