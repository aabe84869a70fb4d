package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

func TestValidate(t *testing.T) {
	v := NewValidator(logger.New(logger.LevelOff, nil), WithDelay(0))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"demo", DemoToken, nil},
		{"long", "abcdefghijk", nil},
		{"exactly ten", "abcdefghij", ErrInvalidToken},
		{"short", "abc", ErrInvalidToken},
		{"empty", "", ErrEmptyToken},
		{"blank", "   ", ErrEmptyToken},
		{"padding not counted", "  abcdefgh  ", ErrInvalidToken},
		{"padded demo", " " + DemoToken + "\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Validate(context.Background(), tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("Validate(%q) = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestValidateHonorsContext(t *testing.T) {
	v := NewValidator(logger.New(logger.LevelOff, nil), WithDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := v.Validate(ctx, DemoToken); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("validate should return as soon as the context is done")
	}
}
