package synthesizer

import "strings"

const (
	VoiceFemale = "female"
	VoiceMale   = "male"
	VoiceChild  = "child"

	DefaultVoiceName = "en-US-AshleyNeural"
)

// VoiceCatalog maps language -> voice type -> vendor voice name.
type VoiceCatalog struct {
	DefaultVoice string                       `yaml:"default_voice"`
	Voices       map[string]map[string]string `yaml:"voices"`
}

func DefaultVoiceCatalog() VoiceCatalog {
	return VoiceCatalog{
		DefaultVoice: DefaultVoiceName,
		Voices: map[string]map[string]string{
			"en": {
				VoiceFemale: "en-US-AshleyNeural",
				VoiceMale:   "en-US-GuyNeural",
				VoiceChild:  "en-US-AnaNeural",
			},
			"ta": {
				VoiceFemale: "ta-IN-PallaviNeural",
				VoiceMale:   "ta-IN-ValluvarNeural",
			},
			"hi": {
				VoiceFemale: "hi-IN-SwaraNeural",
				VoiceMale:   "hi-IN-MadhurNeural",
			},
		},
	}
}

// Select resolves a voice name. It falls back to the female voice of the
// language, then to the catalog default.
func (c VoiceCatalog) Select(language, voiceType string) string {
	voices := c.lookupLanguage(language)
	voiceType = strings.ToLower(strings.TrimSpace(voiceType))
	if name, ok := voices[voiceType]; ok && name != "" {
		return name
	}
	if name, ok := voices[VoiceFemale]; ok && name != "" {
		return name
	}
	if c.DefaultVoice != "" {
		return c.DefaultVoice
	}
	return DefaultVoiceName
}

func (c VoiceCatalog) lookupLanguage(language string) map[string]string {
	key := strings.ToLower(strings.TrimSpace(language))
	if voices, ok := c.Voices[key]; ok {
		return voices
	}
	if i := strings.IndexAny(key, "-_"); i > 0 {
		return c.Voices[key[:i]]
	}
	return nil
}

// LanguageTag returns the locale prefix of a vendor voice name,
// e.g. "ta-IN" for "ta-IN-PallaviNeural".
func LanguageTag(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) < 3 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}
