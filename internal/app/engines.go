package app

import (
	"github.com/MrWong99/parlance/pkg/speech"
	"github.com/MrWong99/parlance/pkg/speech/vosk"
	"github.com/MrWong99/parlance/pkg/speech/whisper"
)

// defaultLoaders registers the native recognition engines linked into the
// binary.
func defaultLoaders() speech.Loaders {
	return speech.Loaders{
		speech.EngineVosk:    vosk.Load,
		speech.EngineWhisper: whisper.Load,
	}
}
