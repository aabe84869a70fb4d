package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Desktop raises system notifications through the OS notification center.
type Desktop struct {
	title  string
	log    *logger.Logger
	notify func(title, message, icon string) error
	alert  func(title, message, icon string) error
}

// NewDesktop creates a desktop notifier that shows title on every toast.
func NewDesktop(title string, log *logger.Logger) *Desktop {
	return &Desktop{
		title:  title,
		log:    log.With("desktop"),
		notify: func(t, m, icon string) error { return beeep.Notify(t, m, icon) },
		alert:  func(t, m, icon string) error { return beeep.Alert(t, m, icon) },
	}
}

// Notify shows a regular notification.
func (d *Desktop) Notify(ctx context.Context, message string) error {
	if err := d.notify(d.title, message, ""); err != nil {
		d.log.Debug("desktop notify failed: %v", err)
		return fmt.Errorf("desktop notify: %w", err)
	}
	return nil
}

// NotifyUrgent shows a notification with an alert sound.
func (d *Desktop) NotifyUrgent(ctx context.Context, message string) error {
	if err := d.alert(d.title, message, ""); err != nil {
		d.log.Debug("desktop alert failed: %v", err)
		return fmt.Errorf("desktop alert: %w", err)
	}
	return nil
}
