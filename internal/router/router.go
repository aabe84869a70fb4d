// Package router implements the screen flow: language choice, login,
// dashboard and the soil page.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// ErrWrongStep is returned when an operation is not valid on the current step.
var ErrWrongStep = errors.New("operation not valid on this step")

// Option configures the router.
type Option func(*Router)

// WithOnStep registers a callback run after every step change, outside
// the router's lock.
func WithOnStep(fn func(domain.Step)) Option {
	return func(r *Router) { r.onStep = fn }
}

// Router owns the current step. It depends only on interfaces and is
// fully testable with in-memory collaborators. Safe for concurrent use.
type Router struct {
	store     domain.PreferenceStore
	validator domain.TokenValidator
	lang      *locale.Selector
	log       *logger.Logger
	onStep    func(domain.Step)

	mu   sync.Mutex
	step domain.Step
}

// New creates a router starting on the language step.
func New(store domain.PreferenceStore, validator domain.TokenValidator, lang *locale.Selector, log *logger.Logger, opts ...Option) *Router {
	r := &Router{
		store:     store,
		validator: validator,
		lang:      lang,
		log:       log.With("router"),
		step:      domain.StepLanguage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step returns the current step.
func (r *Router) Step() domain.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Restore resumes a previous run. A saved language and token go straight
// to the dashboard; a saved language alone is applied but the flow stays
// on the language step. Returns the resulting step.
func (r *Router) Restore(ctx context.Context) (domain.Step, error) {
	saved, err := r.store.Get(ctx, domain.KeyLanguage)
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Debug("no saved language")
		return r.Step(), nil
	}
	if err != nil {
		return r.Step(), fmt.Errorf("loading language: %w", err)
	}

	lang, ok := locale.Parse(saved)
	if !ok {
		r.log.Warn("ignoring unknown saved language %q", saved)
		return r.Step(), nil
	}
	r.lang.Set(lang)

	token, err := r.store.Get(ctx, domain.KeyToken)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && token == "") {
		return r.Step(), nil
	}
	if err != nil {
		return r.Step(), fmt.Errorf("loading token: %w", err)
	}

	r.log.Info("restored session (lang=%s)", lang)
	return r.goTo(domain.StepDashboard), nil
}

// SelectLanguage applies and persists the chosen language and moves to
// the login step.
func (r *Router) SelectLanguage(ctx context.Context, lang locale.Language) error {
	if r.Step() != domain.StepLanguage {
		return ErrWrongStep
	}
	if err := r.setLanguage(ctx, lang); err != nil {
		return err
	}
	r.goTo(domain.StepLogin)
	return nil
}

// Login validates the token, persists it without surrounding whitespace
// and moves to the dashboard. Validation errors are returned unwrapped so
// callers can match them.
func (r *Router) Login(ctx context.Context, token string) error {
	if r.Step() != domain.StepLogin {
		return ErrWrongStep
	}
	token = strings.TrimSpace(token)
	if err := r.validator.Validate(ctx, token); err != nil {
		r.log.Debug("login failed: %v", err)
		return err
	}
	if err := r.store.Set(ctx, domain.KeyToken, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	r.log.Info("logged in")
	r.goTo(domain.StepDashboard)
	return nil
}

// Navigate opens a dashboard page. Only the soil page exists; other pages
// report false and leave the step unchanged.
func (r *Router) Navigate(page string) bool {
	if page != domain.PageMySoil {
		r.log.Debug("page %q not available", page)
		return false
	}
	switch r.Step() {
	case domain.StepDashboard, domain.StepSoil:
		r.goTo(domain.StepSoil)
		return true
	default:
		return false
	}
}

// Back returns from a page to the dashboard.
func (r *Router) Back() bool {
	if r.Step() != domain.StepSoil {
		return false
	}
	r.goTo(domain.StepDashboard)
	return true
}

// Logout forgets the token and returns to the login step.
func (r *Router) Logout(ctx context.Context) error {
	switch r.Step() {
	case domain.StepDashboard, domain.StepSoil:
	default:
		return ErrWrongStep
	}
	if err := r.store.Delete(ctx, domain.KeyToken); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	r.log.Info("logged out")
	r.goTo(domain.StepLogin)
	return nil
}

// ChangeLanguage switches language without leaving the current step. On
// the language step use SelectLanguage instead.
func (r *Router) ChangeLanguage(ctx context.Context, lang locale.Language) error {
	if r.Step() == domain.StepLanguage {
		return ErrWrongStep
	}
	return r.setLanguage(ctx, lang)
}

func (r *Router) setLanguage(ctx context.Context, lang locale.Language) error {
	if err := r.store.Set(ctx, domain.KeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("saving language: %w", err)
	}
	r.lang.Set(lang)
	r.log.Debug("language set to %s", lang)
	return nil
}

func (r *Router) goTo(step domain.Step) domain.Step {
	r.mu.Lock()
	prev := r.step
	r.step = step
	r.mu.Unlock()

	if prev != step {
		r.log.Debug("step %s -> %s", prev, step)
		if r.onStep != nil {
			r.onStep(step)
		}
	}
	return step
}
