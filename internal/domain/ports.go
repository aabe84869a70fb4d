package domain

import "context"

// Well-known preference keys.
const (
	KeyLanguage = "smartAgriLanguage"
	KeyToken    = "smartAgriToken"
)

// PreferenceStore persists small string values between runs.
// Implementations can be in-memory or file-backed.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TokenValidator checks an access token entered on the login step.
type TokenValidator interface {
	Validate(ctx context.Context, token string) error
}

// CommandParser converts raw user input (typed or transcribed) into
// structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Notifier delivers toast-style messages to the user. Implementations can
// write to the terminal, raise desktop notifications, or both.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
