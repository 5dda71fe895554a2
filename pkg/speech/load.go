package speech

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// LoadConfig selects and locates the acoustic model to load.
type LoadConfig struct {
	// Engine selects the backend. Empty selects [EngineVosk].
	Engine Engine

	// ModelPath is the Vosk model directory or the whisper.cpp model file.
	ModelPath string

	// Language is the recognition language for engines that need one.
	Language string
}

// Loader opens the model described by cfg for a single engine. Engine
// packages such as speech/vosk and speech/whisper each provide one.
type Loader func(cfg LoadConfig) (Model, error)

// Loaders maps engines to the Loader that opens their models. The native
// engines live in their own packages, so the binary decides which ones it
// links by registering them here.
type Loaders map[Engine]Loader

// Load loads the model described by cfg. It returns an error wrapping
// [ErrModelNotFound] when the path is empty or missing and
// [ErrUnknownEngine] when no Loader is registered for the engine. Callers are
// expected to treat any error as "no model" and keep running.
func (l Loaders) Load(cfg LoadConfig) (Model, error) {
	engine := cfg.Engine
	if engine == "" {
		engine = EngineVosk
	}
	load, ok := l[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrModelNotFound)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
		}
		return nil, fmt.Errorf("speech: stat model %q: %w", cfg.ModelPath, err)
	}
	cfg.Engine = engine
	return load(cfg)
}
