package synthesizer

import (
	"fmt"
	"os"

	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"gopkg.in/yaml.v3"
)

// LoadVoiceCatalog reads a YAML catalog. An empty path returns the built-in catalog.
func LoadVoiceCatalog(path, defaultVoice string) (synthesizer.VoiceCatalog, error) {
	catalog := synthesizer.DefaultVoiceCatalog()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return synthesizer.VoiceCatalog{}, fmt.Errorf("read voice catalog: %w", err)
		}
		var fromFile synthesizer.VoiceCatalog
		if err := yaml.Unmarshal(b, &fromFile); err != nil {
			return synthesizer.VoiceCatalog{}, fmt.Errorf("parse voice catalog: %w", err)
		}
		if len(fromFile.Voices) == 0 {
			return synthesizer.VoiceCatalog{}, fmt.Errorf("voice catalog %s defines no voices", path)
		}
		catalog = fromFile
	}
	if defaultVoice != "" {
		catalog.DefaultVoice = defaultVoice
	}
	if catalog.DefaultVoice == "" {
		catalog.DefaultVoice = synthesizer.DefaultVoiceName
	}
	return catalog, nil
}
