package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

func TestAzureSynthesize(t *testing.T) {
	var gotBody, gotKey, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotFormat = r.Header.Get("X-Microsoft-OutputFormat")
		w.Write([]byte("RIFF-audio"))
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	c := NewAzureClient("secret", "centralindia", log, WithEndpoint(srv.URL))

	audio, err := c.Synthesize(context.Background(), "N & P < K", "te-IN")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "RIFF-audio" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if gotKey != "secret" || gotFormat != DefaultAudioFormat {
		t.Fatalf("unexpected headers key=%q format=%q", gotKey, gotFormat)
	}
	for _, want := range []string{"xml:lang='te-IN'", "name='te-IN-ShrutiNeural'", "N &amp; P &lt; K"} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("ssml %q missing %q", gotBody, want)
		}
	}
}

func TestAzureErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	c := NewAzureClient("k", "r", log, WithEndpoint(srv.URL))
	if _, err := c.Synthesize(context.Background(), "hello", "en-US"); err == nil {
		t.Fatal("expected error on non-200")
	}
}

func TestAzureVoiceOverride(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := NewAzureClient("k", "r", log, WithVoiceFor("hi-IN", "hi-IN-MadhurNeural"))
	if got := c.Voice("hi-IN"); got != "hi-IN-MadhurNeural" {
		t.Fatalf("voice = %q", got)
	}
	if got := c.Voice("fr-FR"); got != DefaultVoice {
		t.Fatalf("fallback voice = %q", got)
	}
}
