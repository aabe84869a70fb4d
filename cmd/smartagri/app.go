package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/smartagri/internal/auth"
	"github.com/hammamikhairi/smartagri/internal/content"
	"github.com/hammamikhairi/smartagri/internal/display"
	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
	"github.com/hammamikhairi/smartagri/internal/logger"
	"github.com/hammamikhairi/smartagri/internal/router"
	"github.com/hammamikhairi/smartagri/internal/voice"
)

// screen is the part of display.UI the app drives.
type screen interface {
	PrintTitle(text string)
	PrintLines(lines []string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintVoice(text string)
	SetSecret(on bool)
	Refresh()
	InputChan() <-chan string
	ToggleChan() <-chan struct{}
}

var _ screen = (*display.UI)(nil)

type cliApp struct {
	router    *router.Router
	lang      *locale.Selector
	voice     *voice.Session
	parser    domain.CommandParser // used once logged in
	keywords  domain.CommandParser // language and login steps, never leaves the process
	notifier  domain.Notifier
	hush      func() // interrupts speech playback, never nil
	ui        screen
	log       *logger.Logger
	soil      content.SoilReport
	preselect string // language chosen on the command line

	heard bool // a listening session started since the last transcript was used
}

// t translates key into the current UI language.
func (a *cliApp) t(key string) string { return locale.T(a.lang.Language(), key) }

func (a *cliApp) run(ctx context.Context) {
	step, err := a.router.Restore(ctx)
	if err != nil {
		a.log.Error("restoring preferences: %v", err)
	}
	if step == domain.StepLanguage && a.preselect != "" {
		if lang, ok := locale.Parse(a.preselect); ok {
			if err := a.router.SelectLanguage(ctx, lang); err != nil {
				a.log.Error("preselecting language: %v", err)
			}
		} else {
			a.log.Warn("ignoring unknown -lang %q", a.preselect)
		}
	}
	if a.router.Step() == domain.StepDashboard {
		a.notifier.Notify(ctx, a.t("welcome_back"))
	}
	a.showStep()

	inputCh := a.ui.InputChan()
	toggleCh := a.ui.ToggleChan()
	voiceCh := a.voice.C()

	for {
		select {
		case <-ctx.Done():
			return

		case input, ok := <-inputCh:
			if !ok {
				return
			}
			if !a.handleInput(ctx, input) {
				return
			}

		case <-toggleCh:
			a.toggleListening()

		case st := <-voiceCh:
			a.ui.Refresh()
			text, ok := a.takeTranscript(st)
			if !ok {
				continue
			}
			a.ui.PrintVoice(text)
			if !a.handleInput(ctx, text) {
				return
			}
		}
	}
}

// takeTranscript returns the final transcript once a listening session
// that produced one has ended.
func (a *cliApp) takeTranscript(st voice.State) (string, bool) {
	if st.Listening {
		a.heard = true
		return "", false
	}
	if !a.heard {
		return "", false
	}
	a.heard = false
	text := strings.TrimSpace(st.Transcript)
	return text, text != ""
}

func (a *cliApp) toggleListening() {
	if a.voice.IsListening() {
		a.voice.StopListening()
		return
	}
	a.startListening()
}

func (a *cliApp) startListening() {
	if !a.voice.IsSupported() {
		a.ui.PrintUrgent(a.t("voice_unsupported"))
		return
	}
	// Keep the microphone from hearing our own voice.
	a.hush()
	a.voice.StartListening()
}

// handleInput processes one line of typed or spoken input. It returns
// false when the app should exit.
func (a *cliApp) handleInput(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}

	step := a.router.Step()
	parser := a.parser
	if step == domain.StepLanguage || step == domain.StepLogin {
		parser = a.keywords
	}
	cmd, err := parser.Parse(ctx, input)
	if err != nil {
		a.log.Error("parsing input: %v", err)
		return true
	}
	if step == domain.StepLogin {
		a.log.Debug("command: %s (step=%s)", cmd.Type, step)
	} else {
		a.log.Debug("command: %s (payload=%q, step=%s)", cmd.Type, cmd.Payload, step)
	}

	// Commands available on every step.
	switch cmd.Type {
	case domain.CommandQuit:
		a.hush()
		return false
	case domain.CommandHelp:
		a.ui.PrintHint(a.t("help"))
		return true
	case domain.CommandListen:
		a.startListening()
		return true
	case domain.CommandStopListening:
		a.hush()
		a.voice.StopListening()
		return true
	case domain.CommandReadAloud:
		a.readAloud()
		return true
	case domain.CommandLanguage:
		a.changeLanguage(ctx, cmd.Payload)
		return true
	}

	switch step {
	case domain.StepLanguage:
		a.chooseLanguage(ctx, input)
	case domain.StepLogin:
		a.login(ctx, input)
	default:
		a.handlePageCommand(ctx, cmd)
	}
	return true
}

func (a *cliApp) chooseLanguage(ctx context.Context, input string) {
	lang, ok := locale.Parse(input)
	if !ok {
		a.ui.PrintUrgent(a.t("choose_language"))
		return
	}
	if err := a.router.SelectLanguage(ctx, lang); err != nil {
		a.log.Error("selecting language: %v", err)
		return
	}
	a.showStep()
}

func (a *cliApp) login(ctx context.Context, token string) {
	if strings.EqualFold(token, "demo") {
		token = auth.DemoToken
	}

	a.ui.PrintHint(a.t("logging_in"))
	err := a.router.Login(ctx, token)
	switch {
	case err == nil:
		a.notifier.Notify(ctx, a.t("login_success"))
		a.showStep()
	case errors.Is(err, auth.ErrEmptyToken):
		a.notifier.NotifyUrgent(ctx, a.t("token_required"))
	case errors.Is(err, auth.ErrInvalidToken):
		a.notifier.NotifyUrgent(ctx, a.t("invalid_token")+". "+a.t("token_rejected"))
	default:
		a.log.Error("login: %v", err)
		a.notifier.NotifyUrgent(ctx, a.t("token_rejected"))
	}
}

func (a *cliApp) handlePageCommand(ctx context.Context, cmd *domain.Command) {
	switch cmd.Type {
	case domain.CommandOpen:
		if a.router.Navigate(cmd.Payload) {
			a.showStep()
			return
		}
		if tile, ok := content.TileFor(cmd.Payload); ok {
			a.notifier.Notify(ctx, fmt.Sprintf("%s: %s", a.t(tile.TitleKey), a.t("coming_soon")))
			return
		}
		a.ui.PrintHint(a.t("not_understood"))

	case domain.CommandBack:
		if a.router.Back() {
			a.showStep()
		}

	case domain.CommandLogout:
		a.hush()
		a.voice.StopListening()
		if err := a.router.Logout(ctx); err != nil {
			a.log.Error("logout: %v", err)
			return
		}
		a.notifier.Notify(ctx, a.t("logged_out"))
		a.showStep()

	default:
		a.ui.PrintHint(a.t("not_understood"))
	}
}

func (a *cliApp) changeLanguage(ctx context.Context, name string) {
	lang, ok := locale.Parse(name)
	if !ok {
		a.ui.PrintUrgent(a.t("choose_language"))
		return
	}
	if a.router.Step() == domain.StepLanguage {
		a.chooseLanguage(ctx, string(lang))
		return
	}
	if err := a.router.ChangeLanguage(ctx, lang); err != nil {
		a.log.Error("changing language: %v", err)
		return
	}
	a.notifier.Notify(ctx, a.t("language_changed")+": "+lang.Name())
	a.showStep()
}

// readAloud narrates the current page.
func (a *cliApp) readAloud() {
	a.hush()
	lang := a.lang.Language()
	switch a.router.Step() {
	case domain.StepLanguage:
		a.voice.Speak(a.t("choose_language"))
	case domain.StepLogin:
		a.voice.Speak(a.t("enter_token"))
	case domain.StepDashboard:
		a.voice.Speak(content.DashboardNarration(lang))
	case domain.StepSoil:
		a.voice.Speak(a.soil.Narration(lang))
	}
}

// showStep prints the current page.
func (a *cliApp) showStep() {
	lang := a.lang.Language()
	step := a.router.Step()
	a.ui.SetSecret(step == domain.StepLogin)

	switch step {
	case domain.StepLanguage:
		a.ui.PrintTitle(a.t("choose_language"))
		var lines []string
		for i, l := range locale.Supported() {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, l.Name()))
		}
		a.ui.PrintLines(lines)
	case domain.StepLogin:
		a.ui.PrintTitle(a.t("login"))
		a.ui.PrintHint(a.t("enter_token"))
		a.ui.PrintHint(a.t("demo_token_hint"))
	case domain.StepDashboard:
		lines := content.DashboardLines(lang)
		a.ui.PrintTitle(lines[0])
		a.ui.PrintLines(lines[1:])
	case domain.StepSoil:
		lines := a.soil.Lines(lang)
		a.ui.PrintTitle(lines[0])
		a.ui.PrintLines(lines[1:])
		a.ui.PrintHint(a.t("back"))
	}
	a.ui.Refresh()
}

// status feeds the display's status bar.
func (a *cliApp) status() display.Status {
	lang := a.lang.Language()
	st := a.voice.Snapshot()

	var voiceLabel string
	switch {
	case !st.Supported:
		voiceLabel = locale.T(lang, "voice_unsupported")
	case st.Listening:
		voiceLabel = locale.T(lang, "listening")
	default:
		voiceLabel = locale.T(lang, "voice_off")
	}

	step := a.router.Step()
	return display.Status{
		Title:      locale.T(lang, "app_name") + " | " + a.stepLabel(step),
		Step:       a.stepLabel(step),
		Language:   locale.Language(lang).Name(),
		Voice:      voiceLabel,
		Supported:  st.Supported,
		Listening:  st.Listening,
		Transcript: st.Transcript,
	}
}

func (a *cliApp) stepLabel(step domain.Step) string {
	switch step {
	case domain.StepLanguage:
		return a.t("choose_language")
	case domain.StepLogin:
		return a.t("login")
	case domain.StepDashboard:
		return a.t("dashboard")
	case domain.StepSoil:
		return a.t("soil_health")
	default:
		return step.String()
	}
}
