// Command parlance analyses learner utterances: pronunciation against a
// recording, grammar and spelling heuristics, and learner feedback.
//
// Usage:
//
//	parlance [--config parlance.yaml] analyze --text "..." [--audio ref] [--points n [--response "..."]]
//	parlance [--config parlance.yaml] serve
//
// analyze prints one JSON document and exits. serve runs the diagnostic
// server (/healthz, /readyz, /metrics) and reloads the log level when the
// config file changes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/parlance/internal/app"
	"github.com/MrWong99/parlance/internal/config"
	"github.com/MrWong99/parlance/internal/engine"
	"github.com/MrWong99/parlance/internal/observe"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

// cli holds state shared by the subcommands once the root command has loaded
// the configuration.
type cli struct {
	configPath string
	cfg        *config.Config
	level      *slog.LevelVar
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{level: new(slog.LevelVar)}

	root := &cobra.Command{
		Use:           "parlance",
		Short:         "Pronunciation, grammar and spelling analysis for language learners",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.level.Set(cfg.Server.LogLevel.Slog())
			slog.SetDefault(newLogger(logOut, c.level))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the YAML configuration file (defaults apply when empty)")

	root.AddCommand(c.newAnalyzeCmd())
	root.AddCommand(c.newServeCmd())
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file %q not found; copy parlance.example.yaml to get started", path)
	}
	return cfg, err
}

// ── analyze ──────────────────────────────────────────────────────────────────

func (c *cli) newAnalyzeCmd() *cobra.Command {
	var ans engine.SpeakingAnswer

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse one utterance and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var out any
			if ans.Points > 0 {
				out = a.Engine().GradeSpeakingAnswer(ctx, ans)
			} else {
				out = a.Engine().ReviewUtterance(ctx, ans.QuestionText, ans.AudioRef)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&ans.QuestionText, "text", "", "expected text (the sentence the learner read)")
	cmd.Flags().StringVar(&ans.AudioRef, "audio", "", "audio reference under the upload directory")
	cmd.Flags().Float64Var(&ans.Points, "points", 0, "grade the answer as a speaking question worth this many points")
	cmd.Flags().StringVar(&ans.Response, "response", "", "learner's typed response; replaces --text as the expected text when set")
	return cmd
}

// ── serve ────────────────────────────────────────────────────────────────────

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostic server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	// Nothing may be running yet when the watcher fails.
	var watcher *config.Watcher
	if c.configPath != "" {
		w, err := config.NewWatcher(c.configPath, func(old, new *config.Config) {
			applyReload(config.Diff(old, new), c.level)
		})
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher = w
	}

	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	a, err := app.New(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("parlance starting",
		"version", version,
		"config", c.configPath,
		"listen_addr", c.cfg.Server.ListenAddr,
		"log_level", c.cfg.Server.LogLevel,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(gctx) })
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("goodbye")
	return nil
}

// applyReload applies the hot-reloadable part of a config change and warns
// about the rest.
func applyReload(d config.ConfigDiff, level *slog.LevelVar) {
	if d.LogLevelChanged {
		level.Set(d.NewLogLevel.Slog())
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if len(d.RestartRequired) > 0 {
		slog.Warn("config changes take effect after a restart", "keys", d.RestartRequired)
	}
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
