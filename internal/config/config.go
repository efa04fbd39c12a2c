package config

import (
	"fmt"
	"time"
)

const (
	SummarizerProviderGemini      = "gemini"
	SummarizerProviderOpenAI      = "openai"
	SummarizerProviderAzureOpenAI = "azure-openai"
)

type Config struct {
	Env                        string
	Port                       string
	UploadDir                  string
	MaxUploadBytes             int64
	DefaultTranscribeLanguage  string
	MaxAudioDurationSec        int
	TranscribeTimeoutSec       int
	AudioChunkBytes            int
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	AzureSpeechKey             string
	AzureSpeechRegion          string
	AzureTTSOutputFormat       string
	TTSDefaultVoice            string
	TTSVoiceCatalogFile        string
	AzureTranslatorKey         string
	AzureTranslatorRegion      string
	AzureTranslatorEndpoint    string
	DefaultTranslateTarget     string
	SummarizerProvider         string
	GeminiAPIKey               string
	GeminiModel                string
	GeminiBaseURL              string
	OpenAIAPIKey               string
	OpenAIEndpoint             string
	OpenAIAPIVersion           string
	OpenAIDeployment           string
	OpenAIModel                string
	DatabaseURL                string
	TranscriptWebhookURL       string
	MetricsEnabled             bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MaxAudioDurationSec <= 0 {
		return fmt.Errorf("MAX_AUDIO_DURATION_SEC must be positive, got %d", c.MaxAudioDurationSec)
	}
	if c.TranscribeTimeoutSec <= 0 {
		return fmt.Errorf("TRANSCRIBE_TIMEOUT_SEC must be positive, got %d", c.TranscribeTimeoutSec)
	}
	if c.AudioChunkBytes <= 0 {
		return fmt.Errorf("AUDIO_CHUNK_BYTES must be positive, got %d", c.AudioChunkBytes)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return c.validateSummarizer()
}

func (c *Config) validateSummarizer() error {
	switch c.SummarizerProvider {
	case SummarizerProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when SUMMARIZER_PROVIDER=%s", c.SummarizerProvider)
		}
	case SummarizerProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SUMMARIZER_PROVIDER=%s", c.SummarizerProvider)
		}
	case SummarizerProviderAzureOpenAI:
		if c.OpenAIAPIKey == "" || c.OpenAIEndpoint == "" || c.OpenAIDeployment == "" {
			return fmt.Errorf("OPENAI_API_KEY, OPENAI_ENDPOINT and OPENAI_DEPLOYMENT are required when SUMMARIZER_PROVIDER=%s", c.SummarizerProvider)
		}
	default:
		return fmt.Errorf("SUMMARIZER_PROVIDER is invalid: %q", c.SummarizerProvider)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "PORT", value: c.Port},
		{name: "UPLOAD_DIR", value: c.UploadDir},
		{name: "DEFAULT_TRANSCRIBE_LANGUAGE", value: c.DefaultTranscribeLanguage},
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "AZURE_SPEECH_KEY", value: c.AzureSpeechKey},
		{name: "AZURE_SPEECH_REGION", value: c.AzureSpeechRegion},
		{name: "AZURE_TRANSLATOR_KEY", value: c.AzureTranslatorKey},
		{name: "DEFAULT_TRANSLATE_TARGET", value: c.DefaultTranslateTarget},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) MaxAudioDuration() time.Duration {
	return time.Duration(c.MaxAudioDurationSec) * time.Second
}

func (c *Config) TranscribeTimeout() time.Duration {
	return time.Duration(c.TranscribeTimeoutSec) * time.Second
}

func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}
