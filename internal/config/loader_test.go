package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrWong99/parlance/internal/config"
	"github.com/MrWong99/parlance/pkg/speech"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"empty document": "",
		"empty sections": "server: {}\nuploads: {}\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := config.LoadFromReader(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("LoadFromReader: %v", err)
			}
			want := config.Default()
			if *cfg != *want {
				t.Errorf("config = %+v; want defaults %+v", *cfg, *want)
			}
			if cfg.Speech.ModelPath != config.DefaultModelPath {
				t.Errorf("model_path = %q; want %q", cfg.Speech.ModelPath, config.DefaultModelPath)
			}
			if cfg.Speech.SampleRate != 16000 || cfg.Speech.ChunkSize != 4096 {
				t.Errorf("speech = %+v; want 16000 Hz / 4096 bytes", cfg.Speech)
			}
			if cfg.Server.ListenAddr != ":9464" || cfg.Uploads.Dir != "uploads" {
				t.Errorf("server/uploads = %+v / %+v", cfg.Server, cfg.Uploads)
			}
			if cfg.Recognizer.MaxFailures != 5 || cfg.Recognizer.Cooldown != 30*time.Second {
				t.Errorf("recognizer = %+v; want 5 failures / 30s", cfg.Recognizer)
			}
		})
	}
}

func TestLoadFromReader_Full(t *testing.T) {
	t.Parallel()

	dict := filepath.Join(t.TempDir(), "misspellings.yaml")
	if err := os.WriteFile(dict, []byte("definately: definitely\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := `
server:
  listen_addr: "127.0.0.1:9000"
  log_level: debug
speech:
  engine: whisper
  model_path: /models/ggml-base.en.bin
  sample_rate: 16000
  chunk_size: 8192
  language: de
uploads:
  dir: /srv/uploads
text:
  misspellings_file: ` + dict + `
recognizer:
  max_failures: 3
  cooldown: 1m30s
`

	cfg, err := config.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	want := config.Config{
		Server: config.ServerConfig{ListenAddr: "127.0.0.1:9000", LogLevel: config.LogDebug},
		Speech: config.SpeechConfig{
			Engine:     speech.EngineWhisper,
			ModelPath:  "/models/ggml-base.en.bin",
			SampleRate: 16000,
			ChunkSize:  8192,
			Language:   "de",
		},
		Uploads:    config.UploadsConfig{Dir: "/srv/uploads"},
		Text:       config.TextConfig{MisspellingsFile: dict},
		Recognizer: config.RecognizerConfig{MaxFailures: 3, Cooldown: 90 * time.Second},
	}
	if *cfg != want {
		t.Errorf("config = %+v; want %+v", *cfg, want)
	}
}

func TestLoadFromReader_ExplicitEmptyModelPathKept(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader("speech:\n  engine: vosk\n  model_path: \"\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Speech.ModelPath != "" {
		t.Errorf("model_path = %q; want empty", cfg.Speech.ModelPath)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("speech:\n  modle_path: x\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "modle_path") {
		t.Errorf("error should name the unknown field, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	doc := `
server:
  log_level: loud
speech:
  engine: kaldi
  sample_rate: -1
  chunk_size: 4095
text:
  misspellings_file: /nonexistent/misspellings.yaml
recognizer:
  max_failures: -2
  cooldown: -1s
`
	_, err := config.LoadFromReader(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{
		"server.log_level",
		"speech.engine",
		"speech.sample_rate",
		"speech.chunk_size",
		"text.misspellings_file",
		"recognizer.max_failures",
		"recognizer.cooldown",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "parlance.yaml")
	if err := os.WriteFile(path, []byte("server:\n  log_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.LogLevel != config.LogWarn {
		t.Errorf("log_level = %q; want warn", cfg.Server.LogLevel)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level config.LogLevel
		valid bool
		slog  string
	}{
		{config.LogDebug, true, "DEBUG"},
		{config.LogInfo, true, "INFO"},
		{config.LogWarn, true, "WARN"},
		{config.LogError, true, "ERROR"},
		{"verbose", false, "INFO"},
		{"", false, "INFO"},
	}
	for _, tt := range tests {
		if got := tt.level.IsValid(); got != tt.valid {
			t.Errorf("LogLevel(%q).IsValid() = %v; want %v", tt.level, got, tt.valid)
		}
		if got := tt.level.Slog().String(); got != tt.slog {
			t.Errorf("LogLevel(%q).Slog() = %s; want %s", tt.level, got, tt.slog)
		}
	}
}
