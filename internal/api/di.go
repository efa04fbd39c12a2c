package api

import (
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/pipeline"
	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/session"
	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"github.com/foxseedlab/speechrelay/internal/translator"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHandler(Deps{
			Transcriber:            do.MustInvoke[*session.Manager](i),
			Summarizer:             do.MustInvoke[summarizer.Summarizer](i),
			Translator:             do.MustInvoke[translator.Translator](i),
			Synthesizer:            do.MustInvoke[synthesizer.Synthesizer](i),
			Voices:                 do.MustInvoke[synthesizer.VoiceCatalog](i),
			Pipeline:               do.MustInvoke[*pipeline.Pipeline](i),
			History:                do.MustInvoke[repository.Repository](i),
			UploadDir:              cfg.UploadDir,
			DefaultTranslateTarget: cfg.DefaultTranslateTarget,
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (*echo.Echo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		h := do.MustInvoke[*Handler](i)
		return NewServer(h, cfg.MaxUploadBytes, cfg.MetricsEnabled), nil
	})
}
