package voice

import (
	"errors"
	"sync"
	"testing"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// ── Fakes ────────────────────────────────────────────────────────

// fakeEngine records calls and lets the test emit events by hand. Start
// and Stop do not emit anything on their own, like a real platform engine
// that acknowledges asynchronously.
type fakeEngine struct {
	cfg domain.EngineConfig
	log *[]string // shared call log across engines

	mu     sync.Mutex
	starts int
	stops  int
	nextID int
	subs   map[domain.EventKind]map[int]func(domain.RecognitionEvent)
}

func (e *fakeEngine) Start() error {
	e.mu.Lock()
	e.starts++
	e.mu.Unlock()
	*e.log = append(*e.log, "start "+e.cfg.Language)
	return nil
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	e.stops++
	e.mu.Unlock()
	*e.log = append(*e.log, "stop "+e.cfg.Language)
	return nil
}

func (e *fakeEngine) Subscribe(kind domain.EventKind, fn func(domain.RecognitionEvent)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[domain.EventKind]map[int]func(domain.RecognitionEvent))
	}
	if e.subs[kind] == nil {
		e.subs[kind] = make(map[int]func(domain.RecognitionEvent))
	}
	id := e.nextID
	e.nextID++
	e.subs[kind][id] = fn
	return func() {
		e.mu.Lock()
		delete(e.subs[kind], id)
		e.mu.Unlock()
	}
}

func (e *fakeEngine) emit(ev domain.RecognitionEvent) {
	e.mu.Lock()
	var fns []func(domain.RecognitionEvent)
	for _, fn := range e.subs[ev.Kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (e *fakeEngine) subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, m := range e.subs {
		n += len(m)
	}
	return n
}

// handlers returns the callbacks currently registered for kind.
func (e *fakeEngine) handlers(kind domain.EventKind) []func(domain.RecognitionEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var fns []func(domain.RecognitionEvent)
	for _, fn := range e.subs[kind] {
		fns = append(fns, fn)
	}
	return fns
}

func (e *fakeEngine) started() {
	e.emit(domain.RecognitionEvent{Kind: domain.EventStart})
}

func (e *fakeEngine) ended() {
	e.emit(domain.RecognitionEvent{Kind: domain.EventEnd})
}

func (e *fakeEngine) failed(d string) {
	e.emit(domain.RecognitionEvent{Kind: domain.EventError, Error: d})
}

func (e *fakeEngine) result(i int, texts ...string) {
	results := make([][]domain.Alternative, i+1)
	for j := range results {
		results[j] = []domain.Alternative{{Transcript: "earlier"}}
	}
	alts := make([]domain.Alternative, 0, len(texts))
	for _, t := range texts {
		alts = append(alts, domain.Alternative{Transcript: t})
	}
	results[i] = alts
	e.emit(domain.RecognitionEvent{Kind: domain.EventResult, ResultIndex: i, Results: results})
}

type fakeRecognizer struct {
	calls   []string
	engines []*fakeEngine
	fail    error
}

func (r *fakeRecognizer) NewEngine(cfg domain.EngineConfig) (domain.RecognitionEngine, error) {
	r.calls = append(r.calls, "new "+cfg.Language)
	if r.fail != nil {
		return nil, r.fail
	}
	e := &fakeEngine{cfg: cfg, log: &r.calls}
	r.engines = append(r.engines, e)
	return e, nil
}

func (r *fakeRecognizer) current() *fakeEngine { return r.engines[len(r.engines)-1] }

type spoken struct{ text, code string }

type fakeSynth struct {
	mu  sync.Mutex
	got []spoken
}

func (f *fakeSynth) Speak(text, code string) {
	f.mu.Lock()
	f.got = append(f.got, spoken{text, code})
	f.mu.Unlock()
}

func setupSession(t *testing.T, lang locale.Language) (*Session, *fakeRecognizer, *fakeSynth, *locale.Selector) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	rec := &fakeRecognizer{}
	synth := &fakeSynth{}
	sel := locale.NewSelector(lang)
	s := New(Supported(rec), sel, log, WithSynthesizer(synth))
	t.Cleanup(s.Close)
	return s, rec, synth, sel
}

// ── Tests ────────────────────────────────────────────────────────

func TestEngineConfig(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.HI)

	if !s.IsSupported() {
		t.Fatal("expected supported session")
	}
	if len(rec.engines) != 1 {
		t.Fatalf("expected 1 engine, got %d", len(rec.engines))
	}
	cfg := rec.current().cfg
	if cfg.Language != "hi-IN" || cfg.Continuous || !cfg.InterimResults {
		t.Fatalf("unexpected engine config: %+v", cfg)
	}
	if rec.current().subscribers() != 4 {
		t.Fatalf("expected 4 subscriptions, got %d", rec.current().subscribers())
	}
}

func TestStartResultEnd(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StartListening()
	if s.IsListening() {
		t.Fatal("listening must not be set before the engine confirms start")
	}
	if eng.starts != 1 {
		t.Fatalf("expected 1 start request, got %d", eng.starts)
	}

	eng.started()
	if !s.IsListening() {
		t.Fatal("expected listening after start event")
	}

	eng.result(2, "x", "ignored alternative")
	eng.ended()

	if s.IsListening() {
		t.Fatal("expected not listening after end event")
	}
	if got := s.Transcript(); got != "x" {
		t.Fatalf("expected transcript %q, got %q", "x", got)
	}
}

func TestStartWhileListeningIsNoOp(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StartListening()
	eng.started()
	eng.result(0, "partial")

	s.StartListening()

	if eng.starts != 1 {
		t.Fatalf("expected a single start request, got %d", eng.starts)
	}
	if len(rec.engines) != 1 {
		t.Fatalf("expected no new engine, got %d", len(rec.engines))
	}
	if got := s.Transcript(); got != "partial" {
		t.Fatalf("transcript was reset: %q", got)
	}
}

func TestStartClearsPreviousTranscript(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StartListening()
	eng.started()
	eng.result(0, "first")
	eng.ended()

	s.StartListening()
	if got := s.Transcript(); got != "" {
		t.Fatalf("expected transcript cleared on new session, got %q", got)
	}
}

func TestStopWhenIdleIsNoOp(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StopListening()
	if eng.stops != 0 {
		t.Fatalf("expected no stop request, got %d", eng.stops)
	}

	s.StartListening()
	eng.started()
	s.StopListening()
	if eng.stops != 1 {
		t.Fatalf("expected 1 stop request, got %d", eng.stops)
	}
	if !s.IsListening() {
		t.Fatal("listening must stay true until the engine reports end")
	}
	eng.ended()
	if s.IsListening() {
		t.Fatal("expected not listening after end")
	}
}

func TestLanguageChangeRebindsEngine(t *testing.T) {
	s, rec, _, sel := setupSession(t, locale.EN)
	old := rec.current()

	s.StartListening()
	old.started()
	if !s.IsListening() {
		t.Fatal("expected listening")
	}

	rec.calls = nil
	sel.Set(locale.HI)

	want := []string{"stop en-US", "new hi-IN"}
	if len(rec.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, rec.calls)
		}
	}
	if old.stops != 1 {
		t.Fatalf("old engine stopped %d times, want 1", old.stops)
	}
	if old.subscribers() != 0 {
		t.Fatalf("old engine still has %d subscribers", old.subscribers())
	}
	if s.IsListening() {
		t.Fatal("expected not listening after rebind")
	}
	if st := s.Snapshot(); st.Language != "hi-IN" {
		t.Fatalf("expected binding hi-IN, got %q", st.Language)
	}

	// A late event from the released engine must not flip state.
	updatesBefore := len(s.C())
	old.ended()
	old.started()
	if s.IsListening() {
		t.Fatal("stale start event changed state")
	}
	if len(s.C()) != updatesBefore {
		t.Fatal("stale events produced state updates")
	}

	// The new engine drives state from now on.
	cur := rec.current()
	s.StartListening()
	cur.started()
	if !s.IsListening() {
		t.Fatal("expected listening on new engine")
	}
}

func TestReleasedEngineCallbackIgnored(t *testing.T) {
	s, rec, _, sel := setupSession(t, locale.EN)
	old := rec.current()

	// Keep the callbacks the way an engine that already queued an event
	// would, then release the engine.
	onStart := old.handlers(domain.EventStart)
	onResult := old.handlers(domain.EventResult)
	if len(onStart) != 1 || len(onResult) != 1 {
		t.Fatalf("expected one start and one result callback, got %d and %d", len(onStart), len(onResult))
	}

	sel.Set(locale.TE)
	for len(s.C()) > 0 {
		<-s.C()
	}

	onStart[0](domain.RecognitionEvent{Kind: domain.EventStart})
	onResult[0](domain.RecognitionEvent{
		Kind:    domain.EventResult,
		Results: [][]domain.Alternative{{{Transcript: "stale"}}},
	})

	if s.IsListening() {
		t.Fatal("late start from the released engine changed listening")
	}
	if s.Transcript() != "" {
		t.Fatalf("late result from the released engine set transcript %q", s.Transcript())
	}
	if len(s.C()) != 0 {
		t.Fatal("late callbacks produced state updates")
	}

	cur := rec.current()
	s.StartListening()
	cur.started()
	if !s.IsListening() || s.Snapshot().Language != "te-IN" {
		t.Fatalf("new engine should drive state, got %+v", s.Snapshot())
	}
}

func TestSpeakDoesNotTouchRecognition(t *testing.T) {
	s, rec, synth, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.Speak("hello")
	if s.IsListening() || s.Transcript() != "" {
		t.Fatal("speak changed idle state")
	}

	s.StartListening()
	eng.started()
	eng.result(0, "water the field")
	s.Speak("hello")

	if !s.IsListening() || s.Transcript() != "water the field" {
		t.Fatalf("speak changed active state: %+v", s.Snapshot())
	}
	if eng.starts != 1 || eng.stops != 0 {
		t.Fatalf("speak touched the engine: starts=%d stops=%d", eng.starts, eng.stops)
	}
	if len(synth.got) != 2 {
		t.Fatalf("expected 2 synthesis requests, got %d", len(synth.got))
	}
}

func TestSpeakUsesCurrentLanguageCode(t *testing.T) {
	s, _, synth, sel := setupSession(t, locale.TE)

	s.Speak("నమస్తే")
	sel.Set(locale.Language("fr"))
	s.Speak("bonjour")

	if len(synth.got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(synth.got))
	}
	if synth.got[0] != (spoken{"నమస్తే", "te-IN"}) {
		t.Fatalf("unexpected first request: %+v", synth.got[0])
	}
	if synth.got[1].code != "en-US" {
		t.Fatalf("expected fallback en-US, got %q", synth.got[1].code)
	}
}

func TestSpeakWithoutSynthesizer(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	s := New(Supported(&fakeRecognizer{}), locale.NewSelector(locale.EN), log)
	defer s.Close()

	// Must not panic.
	s.Speak("hello")
}

func TestUnsupported(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sel := locale.NewSelector(locale.EN)
	synth := &fakeSynth{}
	s := New(Unsupported("no microphone"), sel, log, WithSynthesizer(synth))
	defer s.Close()

	if s.IsSupported() {
		t.Fatal("expected unsupported")
	}
	s.StartListening()
	s.StopListening()
	sel.Set(locale.HI)
	s.StartListening()

	if s.IsListening() || s.Transcript() != "" {
		t.Fatalf("unsupported session changed state: %+v", s.Snapshot())
	}
	if s.IsSupported() {
		t.Fatal("support flag changed")
	}

	// Speech output is a separate capability.
	s.Speak("namaste")
	if len(synth.got) != 1 || synth.got[0].code != "hi-IN" {
		t.Fatalf("unexpected synthesis requests: %+v", synth.got)
	}
}

func TestNilCapability(t *testing.T) {
	s := New(nil, locale.NewSelector(locale.EN), logger.New(logger.LevelOff, nil))
	defer s.Close()

	if s.IsSupported() {
		t.Fatal("nil capability should be unsupported")
	}
	s.StartListening()
	if s.IsListening() || s.Snapshot().Language != "" {
		t.Fatalf("unexpected state %+v", s.Snapshot())
	}
}

func TestSupportedNilRecognizer(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	s := New(Supported(nil), locale.NewSelector(locale.EN), log)
	defer s.Close()
	if s.IsSupported() {
		t.Fatal("nil recognizer must be unsupported")
	}
}

func TestInterimThenFinalThenError(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StartListening()
	eng.started()
	eng.result(0, "turn on pump")
	eng.result(0, "turn on pump")

	if got := s.Transcript(); got != "turn on pump" {
		t.Fatalf("expected last write to win, got %q", got)
	}

	eng.failed("no-speech")
	if s.IsListening() {
		t.Fatal("expected not listening after error")
	}
	if got := s.Transcript(); got != "turn on pump" {
		t.Fatalf("error must not clear transcript, got %q", got)
	}
}

func TestMalformedResultIgnored(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	s.StartListening()
	eng.started()
	eng.result(0, "keep me")
	eng.emit(domain.RecognitionEvent{Kind: domain.EventResult, ResultIndex: 5})
	eng.emit(domain.RecognitionEvent{Kind: domain.EventResult, ResultIndex: 0, Results: [][]domain.Alternative{{}}})

	if got := s.Transcript(); got != "keep me" {
		t.Fatalf("expected transcript untouched, got %q", got)
	}
}

func TestConstructionFailureIsAbsorbed(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	rec := &fakeRecognizer{fail: errors.New("no audio device")}
	sel := locale.NewSelector(locale.EN)
	s := New(Supported(rec), sel, log)
	defer s.Close()

	if !s.IsSupported() {
		t.Fatal("capability exists even when construction fails")
	}
	s.StartListening()
	s.StopListening()
	if s.IsListening() {
		t.Fatal("expected idle")
	}

	// A later language change retries construction.
	rec.fail = nil
	sel.Set(locale.TE)
	if len(rec.engines) != 1 || rec.current().cfg.Language != "te-IN" {
		t.Fatalf("expected te-IN engine after retry, calls=%v", rec.calls)
	}
}

func TestCloseStopsEngineOnce(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	rec := &fakeRecognizer{}
	sel := locale.NewSelector(locale.EN)
	s := New(Supported(rec), sel, log)
	eng := rec.current()

	s.StartListening()
	eng.started()

	s.Close()
	s.Close()

	if eng.stops != 1 {
		t.Fatalf("expected 1 stop on close, got %d", eng.stops)
	}
	if s.IsListening() {
		t.Fatal("expected not listening after close")
	}

	// Closed sessions ignore language changes and operations.
	sel.Set(locale.HI)
	s.StartListening()
	if len(rec.engines) != 1 {
		t.Fatalf("closed session built a new engine: %v", rec.calls)
	}
}

func TestUpdatesChannel(t *testing.T) {
	s, rec, _, _ := setupSession(t, locale.EN)
	eng := rec.current()

	// Drain the bind notification.
	for len(s.C()) > 0 {
		<-s.C()
	}

	s.StartListening()
	eng.started()
	eng.result(0, "rain tomorrow")
	eng.ended()

	var got []State
	for len(s.C()) > 0 {
		got = append(got, <-s.C())
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 updates, got %d: %+v", len(got), got)
	}
	last := got[len(got)-1]
	if last.Listening || last.Transcript != "rain tomorrow" {
		t.Fatalf("unexpected final update: %+v", last)
	}
}

func TestUpdatesNeverBlock(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	rec := &fakeRecognizer{}
	s := New(Supported(rec), locale.NewSelector(locale.EN), log, WithUpdateBuffer(1))
	defer s.Close()
	eng := rec.current()

	s.StartListening()
	eng.started()
	for i := 0; i < 10; i++ {
		eng.result(0, string(rune('a'+i)))
	}

	st := <-s.C()
	if st.Transcript != "j" {
		t.Fatalf("expected newest snapshot, got %+v", st)
	}
}
