package speech

import (
	"context"
	"encoding/binary"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string // "code|text"
}

func (f *fakeBackend) Synthesize(ctx context.Context, text, code string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code+"|"+text)
	f.mu.Unlock()
	return []byte(text), nil
}

func (f *fakeBackend) Voice(code string) string { return VoiceFor(code) }

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePlayer struct {
	mu     sync.Mutex
	played []string
	stops  int
}

func (p *fakePlayer) Play(wav []byte) error {
	p.mu.Lock()
	p.played = append(p.played, string(wav))
	p.mu.Unlock()
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	p.stops++
	p.mu.Unlock()
}

func (p *fakePlayer) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMouthSpeaksInOrder(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	backend := &fakeBackend{}
	player := &fakePlayer{}
	m := newMouth(backend, player, log)

	m.Speak("Soil moisture is low.", "en-US")
	m.Speak("మట్టి తేమ తక్కువగా ఉంది.", "te-IN")
	m.Speak("   ", "en-US")

	if m.QueueLen() != 2 {
		t.Fatalf("queue len = %d, want 2", m.QueueLen())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	waitFor(t, func() bool { return len(player.snapshot()) == 2 })

	played := player.snapshot()
	if played[0] != "Soil moisture is low." || played[1] != "మట్టి తేమ తక్కువగా ఉంది." {
		t.Fatalf("unexpected playback order: %v", played)
	}
	waitFor(t, func() bool { return m.LastSpoken().Language == "te-IN" })
}

func TestMouthUsesCache(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	backend := &fakeBackend{}
	player := &fakePlayer{}
	m := newMouth(backend, player, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.Speak("Welcome back", "en-US")
	waitFor(t, func() bool { return len(player.snapshot()) == 1 })
	m.Speak("Welcome back", "en-US")
	waitFor(t, func() bool { return len(player.snapshot()) == 2 })

	if backend.count() != 1 {
		t.Fatalf("expected 1 synthesis call, got %d", backend.count())
	}
}

func TestMouthInterrupt(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	player := &fakePlayer{}
	m := newMouth(&fakeBackend{}, player, log)

	m.Speak("one", "en-US")
	m.Speak("two", "en-US")
	m.Interrupt()

	if m.QueueLen() != 0 {
		t.Fatalf("queue should be empty after interrupt, got %d", m.QueueLen())
	}
	if player.stops != 1 {
		t.Fatalf("player stopped %d times, want 1", player.stops)
	}
}

func TestSplitChunks(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	m := newMouth(&fakeBackend{}, &fakePlayer{}, log, WithChunkSize(20))

	chunks := m.splitChunks("मिट्टी अच्छी है। नमी कम है। खाद डालें।")
	if len(chunks) < 2 {
		t.Fatalf("expected hindi text split at danda, got %v", chunks)
	}
	for _, c := range chunks {
		if !strings.HasSuffix(c, "।") {
			t.Fatalf("chunk %q should end at a sentence boundary", c)
		}
	}

	short := m.splitChunks("Short one.")
	if len(short) != 1 || short[0] != "Short one." {
		t.Fatalf("unexpected short split: %v", short)
	}
}

func TestPrefetchSkipsCached(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	backend := &fakeBackend{}
	m := newMouth(backend, &fakePlayer{}, log)

	m.Cache().Put(VoiceFor("hi-IN"), "नमस्ते", []byte("x"))
	m.Prefetch(context.Background(), "hi-IN", "नमस्ते", "धन्यवाद")

	waitFor(t, func() bool { return m.Cache().Has(VoiceFor("hi-IN"), "धन्यवाद") })
	if backend.count() != 1 {
		t.Fatalf("expected only the uncached text to be synthesized, got %d", backend.count())
	}
}

func buildWAV(rate, channels, bits int, pcm []byte) []byte {
	var b []byte
	le32 := func(v int) []byte { x := make([]byte, 4); binary.LittleEndian.PutUint32(x, uint32(v)); return x }
	le16 := func(v int) []byte { x := make([]byte, 2); binary.LittleEndian.PutUint16(x, uint16(v)); return x }

	b = append(b, "RIFF"...)
	b = append(b, le32(36+len(pcm))...)
	b = append(b, "WAVE"...)
	b = append(b, "fmt "...)
	b = append(b, le32(16)...)
	b = append(b, le16(1)...)
	b = append(b, le16(channels)...)
	b = append(b, le32(rate)...)
	b = append(b, le32(rate*channels*bits/8)...)
	b = append(b, le16(channels*bits/8)...)
	b = append(b, le16(bits)...)
	b = append(b, "data"...)
	b = append(b, le32(len(pcm))...)
	b = append(b, pcm...)
	return b
}

func TestParseWAV(t *testing.T) {
	pcm := make([]byte, SampleRate*2) // one second
	w, err := parseWAV(buildWAV(SampleRate, ChannelCount, BitDepth, pcm))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.sampleRate != SampleRate || w.channels != 1 || w.bitDepth != 16 {
		t.Fatalf("unexpected format: %+v", w)
	}
	if len(w.pcm) != len(pcm) {
		t.Fatalf("pcm len = %d, want %d", len(w.pcm), len(pcm))
	}
	if w.duration() != time.Second {
		t.Fatalf("duration = %s, want 1s", w.duration())
	}

	if _, err := parseWAV([]byte("nope")); err == nil {
		t.Fatal("expected error for short data")
	}
	if _, err := parseWAV(append([]byte("RIFF\x00\x00\x00\x00WAVE"), "data\x00\x00\x00\x00"...)); err == nil {
		t.Fatal("expected error for data before fmt")
	}
}
