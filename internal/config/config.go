// Package config provides the configuration schema and loader for parlance.
package config

import (
	"log/slog"
	"time"

	"github.com/MrWong99/parlance/pkg/speech"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog returns the matching [slog.Level]. Unknown or empty levels map to
// INFO.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Defaults applied by [Config.ApplyDefaults].
const (
	DefaultListenAddr = ":9464"
	DefaultModelPath  = "models/vosk-model-small-en-us-0.15"
	DefaultUploadDir  = "uploads"
	DefaultLanguage   = "en"

	DefaultMaxFailures = 5
	DefaultCooldown    = 30 * time.Second
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Speech  SpeechConfig  `yaml:"speech"`
	Uploads UploadsConfig `yaml:"uploads"`
	Text    TextConfig    `yaml:"text"`

	Recognizer RecognizerConfig `yaml:"recognizer"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	// ListenAddr is the address of the diagnostic server (health and
	// metrics). Default: ":9464".
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel sets the minimum log level. Default: info.
	LogLevel LogLevel `yaml:"log_level"`
}

// SpeechConfig selects and tunes the speech recognition model.
type SpeechConfig struct {
	// Engine is "vosk" (default) or "whisper".
	Engine speech.Engine `yaml:"engine"`

	// ModelPath is the Vosk model directory or whisper.cpp model file. When
	// the path does not exist the process runs without a model and every
	// pronunciation score comes from the fallback heuristic.
	ModelPath string `yaml:"model_path"`

	// SampleRate of the uploaded PCM audio in Hz. Default: 16000.
	SampleRate int `yaml:"sample_rate"`

	// ChunkSize is the number of bytes streamed to the recognizer at a time.
	// Default: 4096.
	ChunkSize int `yaml:"chunk_size"`

	// Language is the recognition language for whisper. Default: "en".
	Language string `yaml:"language"`
}

// UploadsConfig locates uploaded recordings.
type UploadsConfig struct {
	// Dir is the directory uploaded audio files are stored in. Default:
	// "uploads".
	Dir string `yaml:"dir"`
}

// TextConfig tunes the text checkers.
type TextConfig struct {
	// MisspellingsFile is an optional YAML map of misspelling to correction
	// merged over the built-in dictionary.
	MisspellingsFile string `yaml:"misspellings_file"`
}

// RecognizerConfig tunes the circuit breaker in front of the speech model.
type RecognizerConfig struct {
	// MaxFailures is the number of consecutive recognition failures after
	// which recordings are no longer decoded. Default: 5.
	MaxFailures int `yaml:"max_failures"`

	// Cooldown is how long decoding stays suspended before a probe is
	// allowed. Default: 30s.
	Cooldown time.Duration `yaml:"cooldown"`
}

// ApplyDefaults fills every unset field with its default. The model path is
// only defaulted when the whole speech section is empty so that an
// explicitly cleared path keeps the process model-less.
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if c.Speech == (SpeechConfig{}) {
		c.Speech.ModelPath = DefaultModelPath
	}
	if c.Speech.Engine == "" {
		c.Speech.Engine = speech.EngineVosk
	}
	if c.Speech.SampleRate == 0 {
		c.Speech.SampleRate = speech.DefaultSampleRate
	}
	if c.Speech.ChunkSize == 0 {
		c.Speech.ChunkSize = speech.DefaultChunkSize
	}
	if c.Speech.Language == "" {
		c.Speech.Language = DefaultLanguage
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = DefaultUploadDir
	}
	if c.Recognizer.MaxFailures == 0 {
		c.Recognizer.MaxFailures = DefaultMaxFailures
	}
	if c.Recognizer.Cooldown == 0 {
		c.Recognizer.Cooldown = DefaultCooldown
	}
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}
