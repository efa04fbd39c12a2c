package translator

import (
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/translator"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (translator.Translator, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewAzureTranslator(AzureTranslatorConfig{
			Key:      c.AzureTranslatorKey,
			Region:   c.AzureTranslatorRegion,
			Endpoint: c.AzureTranslatorEndpoint,
		}), nil
	})
}
