package speech

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// ttsBackend turns text into WAV audio. Implemented by *AzureClient.
type ttsBackend interface {
	Synthesize(ctx context.Context, text, code string) ([]byte, error)
	Voice(code string) string
}

// Compile-time interface checks.
var (
	_ ttsBackend         = (*AzureClient)(nil)
	_ domain.Synthesizer = (*Mouth)(nil)
)

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max character count per TTS chunk.
// Longer text is split at sentence boundaries and synthesized in parallel
// so playback doesn't stall between sentences.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) { m.chunkSize = n }
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) MouthOption {
	return func(m *Mouth) { m.cacheDir = dir }
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) MouthOption {
	return func(m *Mouth) { m.diskWrite = enabled }
}

// WithCacheEntries caps the in-memory audio cache.
func WithCacheEntries(n int) MouthOption {
	return func(m *Mouth) { m.cacheEntries = n }
}

// Mouth is the speech dispatcher. Utterances are queued in arrival order
// and spoken one at a time: chunk -> synthesize (parallel) -> play
// (sequential).
type Mouth struct {
	tts    ttsBackend
	player audioPlayer
	log    *logger.Logger
	cache  *AudioCache

	mu           sync.Mutex
	queue        []Utterance
	notify       chan struct{}
	interrupted  bool // set by Interrupt, checked between chunks
	chunkSize    int
	cacheDir     string
	diskWrite    bool
	cacheEntries int
	lastSpoken   Utterance
}

// NewMouth creates a speech dispatcher with the given TTS client and player.
func NewMouth(tts *AzureClient, player *Player, log *logger.Logger, opts ...MouthOption) *Mouth {
	return newMouth(tts, player, log, opts...)
}

func newMouth(tts ttsBackend, player audioPlayer, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:          tts,
		player:       player,
		log:          log.With("mouth"),
		notify:       make(chan struct{}, 1),
		chunkSize:    200,
		diskWrite:    true,
		cacheEntries: 256,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = NewAudioCache(m.cacheDir, m.diskWrite, m.cacheEntries, log)
	return m
}

// Speak queues text to be spoken in the given language. Non-blocking.
func (m *Mouth) Speak(text, languageCode string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	m.queue = append(m.queue, Utterance{
		Text:     text,
		Language: languageCode,
		QueuedAt: time.Now(),
	})
	qLen := len(m.queue)
	m.mu.Unlock()

	m.log.Debug("queued (lang=%s, queue_len=%d): %s", languageCode, qLen, truncate(text, 60))

	select {
	case m.notify <- struct{}{}:
	default: // already signaled
	}
}

// QueueLen returns the number of pending utterances.
func (m *Mouth) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// LastSpoken returns the most recently completed utterance.
func (m *Mouth) LastSpoken() Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSpoken
}

// Interrupt stops the currently playing audio, clears the queue, and
// aborts any in-progress multi-chunk playback.
func (m *Mouth) Interrupt() {
	m.mu.Lock()
	m.queue = m.queue[:0]
	m.interrupted = true
	m.mu.Unlock()

	m.player.Stop()
	m.log.Debug("interrupted, queue cleared")
}

// Start begins the speech processing goroutine. Non-blocking.
func (m *Mouth) Start(ctx context.Context) {
	go m.processLoop(ctx)
	m.log.Info("started")
}

func (m *Mouth) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.log.Info("stopped")
			return
		case <-m.notify:
			m.drain(ctx)
		}
	}
}

// drain speaks queued utterances until the queue is empty.
func (m *Mouth) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		item := m.queue[0]
		m.queue = m.queue[1:]
		m.interrupted = false
		m.mu.Unlock()

		m.process(ctx, item)

		m.mu.Lock()
		m.lastSpoken = item
		m.mu.Unlock()
	}
}

// process synthesizes and plays a single utterance, using chunked
// parallel synthesis for long text.
func (m *Mouth) process(ctx context.Context, u Utterance) {
	m.log.Debug("speaking (lang=%s, waited=%s): %s",
		u.Language, time.Since(u.QueuedAt).Round(time.Millisecond), truncate(u.Text, 60))

	chunks := m.splitChunks(u.Text)

	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))
	for i, chunk := range chunks {
		go func(idx int, text string) {
			audio, err := m.synthesizeWithCache(ctx, text, u.Language)
			results <- result{idx: idx, audio: audio, err: err}
		}(i, chunk)
	}

	audioSlots := make([][]byte, len(chunks))
	for range chunks {
		r := <-results
		if r.err != nil {
			m.log.Error("chunk %d synthesis failed: %v", r.idx, r.err)
			continue
		}
		audioSlots[r.idx] = r.audio
	}

	for i, audio := range audioSlots {
		if audio == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		m.mu.Lock()
		abort := m.interrupted
		m.mu.Unlock()
		if abort {
			m.log.Debug("aborting chunk playback (interrupted)")
			return
		}
		if err := m.player.Play(audio); err != nil {
			m.log.Error("chunk %d playback failed: %v", i, err)
		}
	}
}

// synthesizeWithCache checks the cache first, otherwise calls the backend
// and stores the result.
func (m *Mouth) synthesizeWithCache(ctx context.Context, text, code string) ([]byte, error) {
	voice := m.tts.Voice(code)
	if audio, ok := m.cache.Get(voice, text); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, text, code)
	if err != nil {
		return nil, err
	}
	m.cache.Put(voice, text, audio)
	return audio, nil
}

// Prefetch pre-synthesizes texts in the given language in background
// goroutines so later Speak calls start playing immediately.
func (m *Mouth) Prefetch(ctx context.Context, code string, texts ...string) {
	voice := m.tts.Voice(code)
	for _, text := range texts {
		for _, chunk := range m.splitChunks(strings.TrimSpace(text)) {
			if chunk == "" || m.cache.Has(voice, chunk) {
				continue
			}
			go func(t string) {
				audio, err := m.tts.Synthesize(ctx, t, code)
				if err != nil {
					m.log.Error("prefetch failed: %v", err)
					return
				}
				m.cache.Put(voice, t, audio)
			}(chunk)
		}
	}
}

// Cache returns the audio cache used by this Mouth.
func (m *Mouth) Cache() *AudioCache { return m.cache }

// splitChunks breaks text into sentence-boundary chunks of approximately
// m.chunkSize runes. Short text is returned as a single chunk.
func (m *Mouth) splitChunks(text string) []string {
	if m.chunkSize <= 0 || len([]rune(text)) <= m.chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	n := 0

	for _, s := range splitSentences(text) {
		l := len([]rune(s))
		if n > 0 && n+l > m.chunkSize {
			if c := strings.TrimSpace(current.String()); c != "" {
				chunks = append(chunks, c)
			}
			current.Reset()
			n = 0
		}
		current.WriteString(s)
		n += l
	}
	if c := strings.TrimSpace(current.String()); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitSentences splits text at sentence boundaries keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// isSentenceEnd also accepts the Devanagari danda used in Hindi.
func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '।' || r == '॥'
}
