package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hammamikhairi/smartagri/internal/conversation"
	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

type scriptedModel struct {
	reply  string
	err    error
	calls  int
	system string
}

func (s *scriptedModel) Complete(ctx context.Context, system, input string) (string, error) {
	s.calls++
	s.system = system
	return s.reply, s.err
}

func TestClassifier(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	primary := conversation.NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		reply       string
		err         error
		wantType    domain.CommandType
		wantPayload string
		wantCalls   int
	}{
		{"keyword match skips model", "back", "", nil, domain.CommandBack, "", 0},
		{"model open", "how wet is my field", `{"command":"open","payload":"my_soil"}`, nil, domain.CommandOpen, "my_soil", 1},
		{"fenced json", "हिंदी में बोलो", "```json\n{\"command\":\"language\",\"payload\":\"hi\"}\n```", nil, domain.CommandLanguage, "hi", 1},
		{"model unknown keeps input", "sing a song", `{"command":"unknown"}`, nil, domain.CommandUnknown, "sing a song", 1},
		{"bad json", "hmm", "not json", nil, domain.CommandUnknown, "hmm", 1},
		{"model error", "hmm", "", errors.New("timeout"), domain.CommandUnknown, "hmm", 1},
		{"empty input", "  ", "", nil, domain.CommandUnknown, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{reply: tt.reply, err: tt.err}
			c := NewClassifier(primary, model, log)

			cmd, err := c.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Type != tt.wantType || cmd.Payload != tt.wantPayload {
				t.Fatalf("got %s/%q, want %s/%q", cmd.Type, cmd.Payload, tt.wantType, tt.wantPayload)
			}
			if model.calls != tt.wantCalls {
				t.Fatalf("model called %d times, want %d", model.calls, tt.wantCalls)
			}
			if model.calls > 0 && model.system != PromptClassify {
				t.Fatal("model not given the classification prompt")
			}
		})
	}
}

func TestClientComplete(t *testing.T) {
	var got request
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"command\":\"help\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", logger.New(logger.LevelOff, nil), WithModel("gpt-4o-mini"))
	reply, err := c.Complete(context.Background(), PromptClassify, "what can I say")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != `{"command":"help"}` {
		t.Fatalf("reply = %q", reply)
	}
	if key != "secret" || got.Model != "gpt-4o-mini" || got.ResponseFormat.Type != "json_object" || got.Temperature != 0 {
		t.Fatalf("unexpected request key=%q body=%+v", key, got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "what can I say" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("case") {
		case "empty":
			w.Write([]byte(`{"choices":[]}`))
		case "envelope":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	ctx := context.Background()

	_, err := NewClient(srv.URL, "k", log).Complete(ctx, "s", "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	_, err = NewClient(srv.URL+"?case=envelope", "k", log).Complete(ctx, "s", "x")
	if !errors.As(err, &apiErr) || apiErr.Message != "rate limited" {
		t.Fatalf("expected envelope message, got %v", err)
	}

	if _, err := NewClient(srv.URL+"?case=empty", "k", log).Complete(ctx, "s", "x"); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestParseCommandType(t *testing.T) {
	for _, ct := range []domain.CommandType{domain.CommandOpen, domain.CommandStopListening, domain.CommandQuit} {
		if got := domain.ParseCommandType(ct.String()); got != ct {
			t.Fatalf("ParseCommandType(%q) = %s", ct.String(), got)
		}
	}
	if domain.ParseCommandType("dance") != domain.CommandUnknown {
		t.Fatal("expected unknown")
	}
}
