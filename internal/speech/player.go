package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

// audioPlayer plays WAV data. Implemented by *Player.
type audioPlayer interface {
	Play(wav []byte) error
	Stop()
}

// Compile-time interface check.
var _ audioPlayer = (*Player)(nil)

// Player handles audio playback of WAV/PCM data via oto.
type Player struct {
	ctx    *oto.Context
	log    *logger.Logger
	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewPlayer creates an audio player. Initializes the system audio context.
// Returns an error if the audio device is unavailable.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	<-readyChan

	log = log.With("player")
	log.Debug("initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play plays WAV audio data synchronously. Blocks until playback finishes
// or Stop is called.
func (p *Player) Play(wavData []byte) error {
	w, err := parseWAV(wavData)
	if err != nil {
		return err
	}
	if w.sampleRate != SampleRate || w.channels != ChannelCount || w.bitDepth != BitDepth {
		return fmt.Errorf("unsupported wav format %dHz/%dch/%dbit", w.sampleRate, w.channels, w.bitDepth)
	}

	player := p.ctx.NewPlayer(bytes.NewReader(w.pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("playing %s of audio", w.duration().Round(time.Millisecond))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("interrupted")
	}
}

// wav is a decoded RIFF/WAVE file.
type wav struct {
	sampleRate int
	channels   int
	bitDepth   int
	pcm        []byte
}

func (w wav) duration() time.Duration {
	bytesPerSec := w.sampleRate * w.channels * w.bitDepth / 8
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(len(w.pcm)) * time.Second / time.Duration(bytesPerSec)
}

// parseWAV walks the RIFF chunks and returns the format and PCM payload.
func parseWAV(data []byte) (wav, error) {
	var w wav
	if len(data) < 12 {
		return w, errors.New("wav data too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return w, errors.New("not a valid WAV file")
	}

	haveFmt := false
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		start := pos + 8
		end := start + size
		if end > len(data) {
			end = len(data)
		}

		switch id {
		case "fmt ":
			if end-start < 16 {
				return w, errors.New("fmt chunk too short")
			}
			w.channels = int(binary.LittleEndian.Uint16(data[start+2 : start+4]))
			w.sampleRate = int(binary.LittleEndian.Uint32(data[start+4 : start+8]))
			w.bitDepth = int(binary.LittleEndian.Uint16(data[start+14 : start+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return w, errors.New("data chunk before fmt chunk")
			}
			w.pcm = data[start:end]
			return w, nil
		}

		pos = start + size
		// Chunks are word-aligned.
		if size%2 != 0 {
			pos++
		}
	}

	return w, errors.New("data chunk not found in WAV")
}
