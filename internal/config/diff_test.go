package config_test

import (
	"slices"
	"testing"

	"github.com/MrWong99/parlance/internal/config"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	base := config.Default()

	t.Run("identical", func(t *testing.T) {
		t.Parallel()
		if d := config.Diff(base, config.Default()); d.Changed() {
			t.Errorf("Diff of identical configs = %+v; want no changes", d)
		}
	})

	t.Run("log level only", func(t *testing.T) {
		t.Parallel()
		next := *base
		next.Server.LogLevel = config.LogDebug
		d := config.Diff(base, &next)
		if !d.LogLevelChanged || d.NewLogLevel != config.LogDebug {
			t.Errorf("diff = %+v; want log level change to debug", d)
		}
		if len(d.RestartRequired) != 0 {
			t.Errorf("RestartRequired = %v; want none", d.RestartRequired)
		}
	})

	t.Run("restart required", func(t *testing.T) {
		t.Parallel()
		next := *base
		next.Speech.ModelPath = "/elsewhere"
		next.Uploads.Dir = "/srv/uploads"
		next.Server.ListenAddr = ":1"
		next.Text.MisspellingsFile = "extra.yaml"
		next.Recognizer.MaxFailures = 1
		d := config.Diff(base, &next)
		want := []string{"server.listen_addr", "speech", "uploads.dir", "text.misspellings_file", "recognizer"}
		if !slices.Equal(d.RestartRequired, want) {
			t.Errorf("RestartRequired = %v; want %v", d.RestartRequired, want)
		}
		if d.LogLevelChanged {
			t.Error("LogLevelChanged = true; want false")
		}
	})
}
