// Package speech provides the platform speech capabilities: a recognition
// engine backed by a local Whisper model and text-to-speech through Azure
// Cognitive Services played back with oto.
package speech

import (
	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Compile-time interface check.
var _ domain.Synthesizer = (*NoOp)(nil)

// NoOp is a synthesizer that does nothing. Used when TTS is disabled or
// the audio device is unavailable.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op synthesizer.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak logs what would have been said.
func (n *NoOp) Speak(text, languageCode string) {
	n.log.Debug("speech no-op: would say %q (lang=%s)", text, languageCode)
}
