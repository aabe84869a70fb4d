package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
)

// Compile-time interface check.
var _ domain.Notifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier wraps a notifier and also reads each message aloud in
// the current UI language.
type SpeakingNotifier struct {
	inner domain.Notifier
	synth domain.Synthesizer
	lang  domain.LanguageSource
}

// NewSpeakingNotifier creates a notifier that both shows and speaks.
func NewSpeakingNotifier(inner domain.Notifier, synth domain.Synthesizer, lang domain.LanguageSource) *SpeakingNotifier {
	return &SpeakingNotifier{inner: inner, synth: synth, lang: lang}
}

// Notify shows the message and queues it for speech.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.inner.Notify(ctx, message); err != nil {
		return err
	}
	n.synth.Speak(cleanForSpeech(message), locale.Code(n.lang.Language()))
	return nil
}

// NotifyUrgent shows the message and queues it for speech.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.inner.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.synth.Speak(cleanForSpeech(message), locale.Code(n.lang.Language()))
	return nil
}

var bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// cleanForSpeech strips formatting artifacts that shouldn't be spoken.
func cleanForSpeech(msg string) string {
	cleaned := ansiCodes.ReplaceAllString(msg, "")
	cleaned = bracketPrefix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
