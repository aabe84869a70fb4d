// Package domain defines the core types and interfaces for the Smart
// Agriculture assistant. All other packages depend on domain; domain
// depends on nothing.
package domain

// EventKind names one of the four events a recognition engine emits.
type EventKind int

const (
	EventStart EventKind = iota
	EventEnd
	EventResult
	EventError
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Alternative is one candidate transcription of a result, best first.
type Alternative struct {
	Transcript string
	Confidence float64
}

// RecognitionEvent is delivered to subscribers of a RecognitionEngine.
//
// For EventResult, Results holds every result of the current utterance
// and ResultIndex points at the one that changed. For EventError, Error
// carries a short descriptor such as "no-speech" or "audio-capture".
type RecognitionEvent struct {
	Kind        EventKind
	ResultIndex int
	Results     [][]Alternative
	Final       bool
	Error       string
}

// EngineConfig configures a single recognition engine.
type EngineConfig struct {
	Language       string // locale-qualified code, e.g. "hi-IN"
	Continuous     bool   // keep listening after the first utterance
	InterimResults bool   // deliver partial transcripts before finalization
}

// RecognitionEngine is one live connection to a speech-recognition
// service. Start and Stop only request a transition; completion is
// reported through EventStart / EventEnd.
type RecognitionEngine interface {
	Start() error
	Stop() error
	// Subscribe registers fn for events of the given kind. The returned
	// function removes the registration and is safe to call more than once.
	Subscribe(kind EventKind, fn func(RecognitionEvent)) (unsubscribe func())
}

// Recognizer is the platform's speech-to-text capability. It builds
// engines bound to a language.
type Recognizer interface {
	NewEngine(cfg EngineConfig) (RecognitionEngine, error)
}

// Synthesizer is the platform's text-to-speech capability. Speak is
// fire-and-forget; queueing and interruption follow the implementation's
// own playback policy.
type Synthesizer interface {
	Speak(text, languageCode string)
}

// LanguageSource supplies the active UI language ("en", "hi", "te") and
// reports changes to it.
type LanguageSource interface {
	Language() string
	OnChange(fn func(lang string)) (unsubscribe func())
}
