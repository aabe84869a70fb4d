package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Error descriptors delivered with domain.EventError.
const (
	ErrorNoSpeech     = "no-speech"
	ErrorAudioCapture = "audio-capture"
)

// recordFunc records audio for d and returns its transcription. It must
// return promptly once ctx is cancelled.
type recordFunc func(ctx context.Context, d time.Duration) (string, error)

// WhisperOption configures the WhisperRecognizer.
type WhisperOption func(*WhisperRecognizer)

// WithChunkDuration sets how long each recorded chunk lasts. Every chunk
// is transcribed separately and produces one interim result.
func WithChunkDuration(d time.Duration) WhisperOption {
	return func(r *WhisperRecognizer) { r.chunkDuration = d }
}

// WithListenTimeout caps how long a single recognition session may run.
func WithListenTimeout(d time.Duration) WhisperOption {
	return func(r *WhisperRecognizer) { r.listenTimeout = d }
}

// WithSilenceChunks sets how many empty chunks end a session: before any
// speech was heard (grace) and after speech (trailing).
func WithSilenceChunks(grace, trailing int) WhisperOption {
	return func(r *WhisperRecognizer) {
		r.graceEmpty = grace
		r.trailingEmpty = trailing
	}
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) WhisperOption {
	return func(r *WhisperRecognizer) { r.tempDir = dir }
}

// WithLanguageModel uses a dedicated GGML model for one language code,
// e.g. a Hindi fine-tune for "hi-IN". Other codes use the default model.
func WithLanguageModel(code, modelPath string) WhisperOption {
	return func(r *WhisperRecognizer) { r.models[code] = modelPath }
}

// withRecorder replaces the microphone + whisper pipeline. Tests only.
func withRecorder(fn recordFunc) WhisperOption {
	return func(r *WhisperRecognizer) {
		r.record = func(string) recordFunc { return fn }
		r.check = func(string) error { return nil }
	}
}

// Compile-time interface check.
var _ domain.Recognizer = (*WhisperRecognizer)(nil)

// WhisperRecognizer builds recognition engines on top of the whisper-cli
// binary and a local GGML model.
type WhisperRecognizer struct {
	whisperBin   string
	defaultModel string
	models       map[string]string // language code -> model path
	tempDir      string
	log          *logger.Logger

	chunkDuration time.Duration
	listenTimeout time.Duration
	graceEmpty    int // empty chunks tolerated before first speech
	trailingEmpty int // empty chunks that end an utterance

	record func(modelPath string) recordFunc
	check  func(modelPath string) error
}

// NewWhisperRecognizer creates a recognizer.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the default GGML model file
func NewWhisperRecognizer(whisperBin, modelPath string, log *logger.Logger, opts ...WhisperOption) *WhisperRecognizer {
	r := &WhisperRecognizer{
		whisperBin:    whisperBin,
		defaultModel:  modelPath,
		models:        make(map[string]string),
		tempDir:       ".smartagri-stt",
		log:           log.With("whisper"),
		chunkDuration: 2 * time.Second,
		listenTimeout: 15 * time.Second,
		graceEmpty:    3,
		trailingEmpty: 1,
	}
	r.record = r.whisperRecorder
	r.check = r.checkInstall
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewEngine validates the installation and returns an idle engine bound to
// cfg.Language.
func (r *WhisperRecognizer) NewEngine(cfg domain.EngineConfig) (domain.RecognitionEngine, error) {
	model := r.modelFor(cfg.Language)
	if err := r.check(model); err != nil {
		return nil, err
	}
	r.log.Debug("engine created (lang=%s, model=%s, continuous=%v, interim=%v)",
		cfg.Language, model, cfg.Continuous, cfg.InterimResults)
	return &whisperEngine{
		r:      r,
		cfg:    cfg,
		record: r.record(model),
		log:    r.log.With(cfg.Language),
	}, nil
}

// Check reports whether the binary and the default model are installed.
func (r *WhisperRecognizer) Check() error {
	return r.check(r.defaultModel)
}

func (r *WhisperRecognizer) modelFor(code string) string {
	if m, ok := r.models[code]; ok {
		return m
	}
	return r.defaultModel
}

func (r *WhisperRecognizer) checkInstall(model string) error {
	if _, err := exec.LookPath(r.whisperBin); err != nil {
		return fmt.Errorf("whisper binary %q: %w", r.whisperBin, domain.ErrNotSupported)
	}
	if _, err := os.Stat(model); err != nil {
		return fmt.Errorf("whisper model %q: %w", model, err)
	}
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	return nil
}

// whisperRecorder returns a recordFunc that captures one chunk from the
// microphone and transcribes it with the given model.
func (r *WhisperRecognizer) whisperRecorder(model string) recordFunc {
	return func(ctx context.Context, d time.Duration) (string, error) {
		var result string
		var wg sync.WaitGroup
		wg.Add(1)

		callback := func(text string) {
			result = text
			wg.Done()
		}

		verbose := r.log.GetLevel() >= logger.LevelVerbose
		t, err := audiotranscriber.NewTranscriber(
			r.whisperBin,
			model,
			r.tempDir,
			"wav",
			callback,
			verbose,
		)
		if err != nil {
			return "", fmt.Errorf("transcriber init: %w", err)
		}
		if err := t.Start(); err != nil {
			return "", fmt.Errorf("recording start: %w", err)
		}

		select {
		case <-time.After(d):
		case <-ctx.Done():
			t.Stop()
			wg.Wait()
			return "", ctx.Err()
		}

		t.Stop()
		wg.Wait()
		return result, nil
	}
}

// whisperEngine is one recognition engine. Each Start runs a single
// recognition session on its own goroutine:
//
//  1. emit start
//  2. record chunks; every non-empty chunk extends the current utterance
//     and, with interim results on, is delivered as a result
//  3. silence after speech finalizes the utterance (and ends the session
//     unless continuous)
//  4. emit no-speech if nothing was heard, then end
type whisperEngine struct {
	emitter
	r      *WhisperRecognizer
	cfg    domain.EngineConfig
	record recordFunc
	log    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while a session runs
	done   chan struct{}
}

// Start begins a recognition session.
func (e *whisperEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		return domain.ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.run(ctx, e.done)
	return nil
}

// Stop ends the running session. What was heard so far is delivered as a
// final result before end.
func (e *whisperEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel == nil {
		return domain.ErrNotStarted
	}
	e.cancel()
	return nil
}

// wait blocks until the current session, if any, has emitted end.
func (e *whisperEngine) wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (e *whisperEngine) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		e.mu.Lock()
		e.cancel()
		e.cancel = nil
		e.mu.Unlock()
		e.emit(domain.RecognitionEvent{Kind: domain.EventEnd})
		e.log.Debug("session ended")
	}()

	e.emit(domain.RecognitionEvent{Kind: domain.EventStart})
	e.log.Debug("session started")

	deadline := time.NewTimer(e.r.listenTimeout)
	defer deadline.Stop()

	var (
		final     [][]domain.Alternative // finalized utterances
		parts     []string               // chunks of the current utterance
		emptyRuns int
		heard     bool
	)

	current := func() string { return strings.Join(parts, " ") }

	deliver := func(isFinal bool) {
		results := make([][]domain.Alternative, len(final), len(final)+1)
		copy(results, final)
		results = append(results, []domain.Alternative{{Transcript: current()}})
		e.emit(domain.RecognitionEvent{
			Kind:        domain.EventResult,
			ResultIndex: len(results) - 1,
			Results:     results,
			Final:       isFinal,
		})
		if isFinal {
			final = results
			parts = nil
		}
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			e.log.Debug("listen timeout reached")
			break loop
		default:
		}

		chunk, err := e.record(ctx, e.r.chunkDuration)
		if err != nil {
			if ctx.Err() != nil {
				break loop
			}
			e.log.Error("recording failed: %v", err)
			e.emit(domain.RecognitionEvent{Kind: domain.EventError, Error: ErrorAudioCapture})
			return
		}

		chunk = cleanTranscription(chunk)
		if chunk == "" {
			emptyRuns++
			if len(parts) == 0 && emptyRuns >= e.r.graceEmpty && !heard {
				e.log.Debug("no speech before grace ran out")
				break loop
			}
			if len(parts) > 0 && emptyRuns >= e.r.trailingEmpty {
				deliver(true)
				if !e.cfg.Continuous {
					return
				}
				emptyRuns = 0
			}
			continue
		}

		emptyRuns = 0
		heard = true
		parts = append(parts, chunk)
		e.log.Debug("chunk: %q", chunk)
		if e.cfg.InterimResults {
			deliver(false)
		}
	}

	if len(parts) > 0 {
		deliver(true)
		return
	}
	if !heard && ctx.Err() == nil {
		e.emit(domain.RecognitionEvent{Kind: domain.EventError, Error: ErrorNoSpeech})
	}
}
