// Package notify provides toast-style user notifications.
package notify

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*Toaster)(nil)
	_ domain.Notifier = (*Desktop)(nil)
	_ domain.Notifier = Multi(nil)
)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	green = "\033[32m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// Toaster writes notifications into the terminal scrollback.
type Toaster struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewToaster creates a terminal notifier. If printFn is nil, fmt.Printf
// is used.
func NewToaster(log *logger.Logger, printFn PrintFunc) *Toaster {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Toaster{log: log.With("toast"), printFn: printFn}
}

// Notify prints a success/info toast.
func (n *Toaster) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s%s✓ %s%s", green, bold, message, reset)
	return nil
}

// NotifyUrgent prints an error toast in bold red.
func (n *Toaster) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s%s✗ %s%s", red, bold, message, reset)
	return nil
}

// Multi fans a notification out to every notifier. All notifiers are
// tried; the first error is returned.
type Multi []domain.Notifier

// Notify forwards to every notifier.
func (m Multi) Notify(ctx context.Context, message string) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NotifyUrgent forwards to every notifier.
func (m Multi) NotifyUrgent(ctx context.Context, message string) error {
	var first error
	for _, n := range m {
		if err := n.NotifyUrgent(ctx, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}
