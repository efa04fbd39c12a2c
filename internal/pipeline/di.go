package pipeline

import (
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/session"
	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"github.com/foxseedlab/speechrelay/internal/translator"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return New(
			do.MustInvoke[*session.Manager](i),
			do.MustInvoke[summarizer.Summarizer](i),
			do.MustInvoke[translator.Translator](i),
			do.MustInvoke[synthesizer.Synthesizer](i),
			do.MustInvoke[synthesizer.VoiceCatalog](i),
			cfg.DefaultTranslateTarget,
		), nil
	})
}
