package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied. It is a convenience wrapper around
// [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// validates the result. Unknown keys are rejected. An empty document yields
// the default configuration.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
// Conditions the process can run with, such as a missing model, are logged
// as warnings instead.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Speech.Engine != "" && !cfg.Speech.Engine.IsValid() {
		errs = append(errs, fmt.Errorf("speech.engine %q is invalid; valid values: vosk, whisper", cfg.Speech.Engine))
	}
	if cfg.Speech.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("speech.sample_rate %d must be positive", cfg.Speech.SampleRate))
	}
	if cfg.Speech.ChunkSize < 0 || cfg.Speech.ChunkSize%2 != 0 {
		errs = append(errs, fmt.Errorf("speech.chunk_size %d must be a positive multiple of 2", cfg.Speech.ChunkSize))
	}
	if cfg.Speech.ModelPath == "" {
		slog.Warn("speech.model_path is empty; pronunciation will use the fallback score")
	}

	if cfg.Recognizer.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("recognizer.max_failures %d must be positive", cfg.Recognizer.MaxFailures))
	}
	if cfg.Recognizer.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("recognizer.cooldown %s must be positive", cfg.Recognizer.Cooldown))
	}

	if cfg.Text.MisspellingsFile != "" {
		if _, err := os.Stat(cfg.Text.MisspellingsFile); err != nil {
			errs = append(errs, fmt.Errorf("text.misspellings_file: %w", err))
		}
	}

	return errors.Join(errs...)
}
