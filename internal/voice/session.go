// Package voice manages a speech-recognition session bound to the active
// UI language and exposes text-to-speech next to it.
//
// A Session owns at most one recognition engine. The engine is rebuilt
// whenever the language changes: the old engine is unsubscribed and
// stopped before the new one is constructed. Listening state and the
// transcript change only in response to engine events; the public
// operations never block and never return errors.
package voice

import (
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// State is a point-in-time view of a session.
type State struct {
	Listening  bool
	Transcript string
	Supported  bool
	Language   string // code the engine is bound to, "" when unbound
}

// Option configures a Session.
type Option func(*Session)

// WithSynthesizer sets the text-to-speech capability. Without one, Speak
// is a silent no-op.
func WithSynthesizer(synth domain.Synthesizer) Option {
	return func(s *Session) { s.synth = synth }
}

// WithUpdateBuffer sets the capacity of the channel returned by C.
func WithUpdateBuffer(n int) Option {
	return func(s *Session) { s.updates = make(chan State, n) }
}

// binding is one constructed engine and its event registrations.
type binding struct {
	engine domain.RecognitionEngine
	code   string
	unsubs []func()
}

// Session is the voice facade used by the UI. Safe for concurrent use.
type Session struct {
	rec       domain.Recognizer // nil when unsupported
	synth     domain.Synthesizer
	lang      domain.LanguageSource
	log       *logger.Logger
	supported bool
	updates   chan State
	unsubLang func()

	// lifecycle serializes everything that touches the engine (bind,
	// release, start, stop). mu guards the fields below and is never held
	// while calling into the engine, since engines may emit synchronously.
	lifecycle sync.Mutex

	mu         sync.Mutex
	binding    *binding
	listening  bool
	transcript string
	closed     bool
}

// New creates a session. With a supported capability the first engine is
// bound immediately to lang's current language and rebound on every change.
// A nil capability is treated as unsupported.
func New(c Capability, lang domain.LanguageSource, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		lang:    lang,
		log:     log.With("voice"),
		updates: make(chan State, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch v := c.(type) {
	case supported:
		s.rec = v.rec
		s.supported = true
	case unsupported:
		s.log.Info("speech recognition unavailable: %s", v.reason)
		return s
	default:
		s.log.Info("speech recognition unavailable: no capability")
		return s
	}

	s.rebind(lang.Language())
	s.unsubLang = lang.OnChange(s.rebind)
	return s
}

// IsSupported reports whether the platform can recognize speech. It never
// changes after New returns.
func (s *Session) IsSupported() bool { return s.supported }

// IsListening reports whether the bound engine has started and not ended.
func (s *Session) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Transcript returns the latest recognized fragment.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Snapshot returns the full current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// C returns a channel that receives a snapshot after every state change.
// Sends never block: when the buffer is full the oldest snapshot is
// dropped. The channel is never closed.
func (s *Session) C() <-chan State { return s.updates }

// StartListening asks the engine to begin a recognition session. It does
// nothing when there is no engine or a session is already active.
func (s *Session) StartListening() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	b := s.binding
	if b == nil || s.listening {
		s.mu.Unlock()
		return
	}
	cleared := s.transcript != ""
	s.transcript = ""
	st := s.snapshotLocked()
	s.mu.Unlock()

	if cleared {
		s.publish(st)
	}
	if err := b.engine.Start(); err != nil {
		s.log.Warn("start failed: %v", err)
	}
}

// StopListening asks the engine to end the active recognition session. It
// does nothing when nothing is being listened to.
func (s *Session) StopListening() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	b := s.binding
	active := s.listening
	s.mu.Unlock()

	if b == nil || !active {
		return
	}
	if err := b.engine.Stop(); err != nil {
		s.log.Warn("stop failed: %v", err)
	}
}

// Speak submits text for playback in the current UI language. It does not
// touch recognition state.
func (s *Session) Speak(text string) {
	if s.synth == nil {
		s.log.Debug("speech synthesis unavailable, dropping %q", text)
		return
	}
	s.synth.Speak(text, locale.Code(s.lang.Language()))
}

// Close releases the engine and stops following language changes. Safe to
// call more than once.
func (s *Session) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	old := s.binding
	s.binding = nil
	wasListening := s.listening
	s.listening = false
	st := s.snapshotLocked()
	s.mu.Unlock()

	if s.unsubLang != nil {
		s.unsubLang()
	}
	s.release(old)
	if wasListening {
		s.publish(st)
	}
	s.log.Debug("session closed")
}

// rebind replaces the current engine with one bound to lang.
func (s *Session) rebind(lang string) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	old := s.binding
	s.binding = nil
	wasListening := s.listening
	s.listening = false
	s.mu.Unlock()

	s.release(old)

	b := s.bind(lang)

	s.mu.Lock()
	s.binding = b
	st := s.snapshotLocked()
	s.mu.Unlock()

	if wasListening {
		s.log.Debug("listening cancelled by rebind")
	}
	s.publish(st)
}

// bind constructs and subscribes a new engine. Construction failures are
// logged and leave the session without an engine.
func (s *Session) bind(lang string) *binding {
	code := locale.Code(lang)
	engine, err := s.rec.NewEngine(domain.EngineConfig{
		Language:       code,
		Continuous:     false,
		InterimResults: true,
	})
	if err != nil {
		s.log.Error("engine construction failed (lang=%s): %v", code, err)
		return nil
	}

	b := &binding{engine: engine, code: code}
	for _, kind := range []domain.EventKind{
		domain.EventStart,
		domain.EventEnd,
		domain.EventResult,
		domain.EventError,
	} {
		b.unsubs = append(b.unsubs, engine.Subscribe(kind, func(ev domain.RecognitionEvent) {
			s.handle(b, ev)
		}))
	}
	s.log.Debug("engine bound (lang=%s)", code)
	return b
}

// release unsubscribes and stops an engine. Must be called with lifecycle
// held and mu released.
func (s *Session) release(b *binding) {
	if b == nil {
		return
	}
	for _, unsubscribe := range b.unsubs {
		unsubscribe()
	}
	if err := b.engine.Stop(); err != nil {
		s.log.Debug("stopping released engine (lang=%s): %v", b.code, err)
	}
	s.log.Debug("engine released (lang=%s)", b.code)
}

// handle applies one engine event to the session state.
func (s *Session) handle(b *binding, ev domain.RecognitionEvent) {
	s.mu.Lock()
	if s.binding != b {
		s.mu.Unlock()
		s.log.Debug("dropping %s event from released engine (lang=%s)", ev.Kind, b.code)
		return
	}

	changed := false
	switch ev.Kind {
	case domain.EventStart:
		changed = !s.listening
		s.listening = true
	case domain.EventEnd:
		changed = s.listening
		s.listening = false
	case domain.EventResult:
		text, ok := topTranscript(ev)
		if !ok {
			s.mu.Unlock()
			s.log.Debug("result event without transcript at index %d", ev.ResultIndex)
			return
		}
		changed = s.transcript != text
		s.transcript = text
	case domain.EventError:
		s.log.Warn("recognition error: %s", ev.Error)
		changed = s.listening
		s.listening = false
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.publish(st)
	}
}

// topTranscript returns the best alternative of the result at the event's
// result index.
func topTranscript(ev domain.RecognitionEvent) (string, bool) {
	if ev.ResultIndex < 0 || ev.ResultIndex >= len(ev.Results) {
		return "", false
	}
	alts := ev.Results[ev.ResultIndex]
	if len(alts) == 0 {
		return "", false
	}
	return alts[0].Transcript, true
}

func (s *Session) snapshotLocked() State {
	st := State{
		Listening:  s.listening,
		Transcript: s.transcript,
		Supported:  s.supported,
	}
	if s.binding != nil {
		st.Language = s.binding.code
	}
	return st
}

func (s *Session) publish(st State) {
	select {
	case s.updates <- st:
		return
	default:
	}
	// Full: drop the oldest snapshot and retry once.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- st:
	default:
	}
}
