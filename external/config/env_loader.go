package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/speechrelay/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	Port                       string `env:"PORT" envDefault:"5000"`
	UploadDir                  string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes             int64  `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
	DefaultTranscribeLanguage  string `env:"DEFAULT_TRANSCRIBE_LANGUAGE" envDefault:"en-US"`
	MaxAudioDurationSec        int    `env:"MAX_AUDIO_DURATION_SEC" envDefault:"300"`
	TranscribeTimeoutSec       int    `env:"TRANSCRIBE_TIMEOUT_SEC" envDefault:"120"`
	AudioChunkBytes            int    `env:"AUDIO_CHUNK_BYTES" envDefault:"8192"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID,required"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	AzureSpeechKey             string `env:"AZURE_SPEECH_KEY,required"`
	AzureSpeechRegion          string `env:"AZURE_SPEECH_REGION,required"`
	AzureTTSOutputFormat       string `env:"AZURE_TTS_OUTPUT_FORMAT" envDefault:"audio-16khz-128kbitrate-mono-mp3"`
	TTSDefaultVoice            string `env:"TTS_DEFAULT_VOICE" envDefault:"en-US-AshleyNeural"`
	TTSVoiceCatalogFile        string `env:"TTS_VOICE_CATALOG_FILE"`
	AzureTranslatorKey         string `env:"AZURE_TRANSLATOR_KEY,required"`
	AzureTranslatorRegion      string `env:"AZURE_TRANSLATOR_REGION"`
	AzureTranslatorEndpoint    string `env:"AZURE_TRANSLATOR_ENDPOINT" envDefault:"https://api.cognitive.microsofttranslator.com"`
	DefaultTranslateTarget     string `env:"DEFAULT_TRANSLATE_TARGET" envDefault:"ta"`
	SummarizerProvider         string `env:"SUMMARIZER_PROVIDER" envDefault:"azure-openai"`
	GeminiAPIKey               string `env:"GEMINI_API_KEY"`
	GeminiModel                string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiBaseURL              string `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey               string `env:"OPENAI_API_KEY"`
	OpenAIEndpoint             string `env:"OPENAI_ENDPOINT"`
	OpenAIAPIVersion           string `env:"OPENAI_API_VERSION" envDefault:"2024-10-21"`
	OpenAIDeployment           string `env:"OPENAI_DEPLOYMENT"`
	OpenAIModel                string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	DatabaseURL                string `env:"DATABASE_URL"`
	TranscriptWebhookURL       string `env:"TRANSCRIPT_WEBHOOK_URL"`
	MetricsEnabled             bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file; continuing with process environment", "error", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := toConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toConfig(raw envConfig) *internalconfig.Config {
	return &internalconfig.Config{
		Env:                        raw.Env,
		Port:                       raw.Port,
		UploadDir:                  raw.UploadDir,
		MaxUploadBytes:             raw.MaxUploadBytes,
		DefaultTranscribeLanguage:  raw.DefaultTranscribeLanguage,
		MaxAudioDurationSec:        raw.MaxAudioDurationSec,
		TranscribeTimeoutSec:       raw.TranscribeTimeoutSec,
		AudioChunkBytes:            raw.AudioChunkBytes,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		AzureSpeechKey:             raw.AzureSpeechKey,
		AzureSpeechRegion:          raw.AzureSpeechRegion,
		AzureTTSOutputFormat:       raw.AzureTTSOutputFormat,
		TTSDefaultVoice:            raw.TTSDefaultVoice,
		TTSVoiceCatalogFile:        raw.TTSVoiceCatalogFile,
		AzureTranslatorKey:         raw.AzureTranslatorKey,
		AzureTranslatorRegion:      raw.AzureTranslatorRegion,
		AzureTranslatorEndpoint:    raw.AzureTranslatorEndpoint,
		DefaultTranslateTarget:     raw.DefaultTranslateTarget,
		SummarizerProvider:         raw.SummarizerProvider,
		GeminiAPIKey:               raw.GeminiAPIKey,
		GeminiModel:                raw.GeminiModel,
		GeminiBaseURL:              raw.GeminiBaseURL,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIEndpoint:             raw.OpenAIEndpoint,
		OpenAIAPIVersion:           raw.OpenAIAPIVersion,
		OpenAIDeployment:           raw.OpenAIDeployment,
		OpenAIModel:                raw.OpenAIModel,
		DatabaseURL:                raw.DatabaseURL,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
		MetricsEnabled:             raw.MetricsEnabled,
	}
}
