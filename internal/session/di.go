package session

import (
	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/transcriber"
	"github.com/foxseedlab/speechrelay/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		prober := do.MustInvoke[audio.Prober](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewManager(cfg, prober, stt, repo, wh), nil
	})
}
