package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

func TestToaster(t *testing.T) {
	var out []string
	n := NewToaster(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		out = append(out, fmt.Sprintf(format, a...))
	})

	n.Notify(context.Background(), "Login successful")
	n.NotifyUrgent(context.Background(), "Invalid token")

	if len(out) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(out))
	}
	if !strings.Contains(out[0], "Login successful") || !strings.Contains(out[0], green) {
		t.Fatalf("unexpected notify output %q", out[0])
	}
	if !strings.Contains(out[1], "Invalid token") || !strings.Contains(out[1], red) {
		t.Fatalf("unexpected urgent output %q", out[1])
	}
}

func TestDesktop(t *testing.T) {
	var calls []string
	d := NewDesktop("Smart Agriculture", logger.New(logger.LevelOff, nil))
	d.notify = func(title, message, icon string) error {
		calls = append(calls, "notify:"+title+":"+message)
		return nil
	}
	d.alert = func(title, message, icon string) error {
		return errors.New("no notification daemon")
	}

	if err := d.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(calls) != 1 || calls[0] != "notify:Smart Agriculture:hello" {
		t.Fatalf("unexpected calls %v", calls)
	}
	if err := d.NotifyUrgent(context.Background(), "boom"); err == nil {
		t.Fatal("expected alert error to be returned")
	}
}

type recordingNotifier struct {
	got []string
	err error
}

func (r *recordingNotifier) Notify(ctx context.Context, message string) error {
	r.got = append(r.got, message)
	return r.err
}

func (r *recordingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	r.got = append(r.got, "!"+message)
	return r.err
}

func TestMultiFansOut(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("down")}
	ok := &recordingNotifier{}
	m := Multi{failing, ok}

	if err := m.Notify(context.Background(), "a"); err == nil {
		t.Fatal("expected first error")
	}
	m.NotifyUrgent(context.Background(), "b")

	if len(ok.got) != 2 || ok.got[0] != "a" || ok.got[1] != "!b" {
		t.Fatalf("second notifier should receive everything, got %v", ok.got)
	}
}
