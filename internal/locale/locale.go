// Package locale tracks the active UI language and maps it to the
// locale-qualified codes the speech services expect.
package locale

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
)

// Language is a short UI language identifier.
type Language string

const (
	EN Language = "en"
	HI Language = "hi"
	TE Language = "te"
)

// DefaultCode is used for any language missing from the code table.
const DefaultCode = "en-US"

var codes = map[Language]string{
	EN: "en-US",
	HI: "hi-IN",
	TE: "te-IN",
}

// Code returns the speech language code for a UI language, falling back
// to DefaultCode for unknown identifiers.
func Code(lang string) string {
	if c, ok := codes[Language(lang)]; ok {
		return c
	}
	return DefaultCode
}

// Supported returns the selectable languages in menu order.
func Supported() []Language {
	return []Language{EN, HI, TE}
}

// Name returns the language's own name for display.
func (l Language) Name() string {
	switch l {
	case EN:
		return "English"
	case HI:
		return "हिन्दी"
	case TE:
		return "తెలుగు"
	default:
		return string(l)
	}
}

var aliases = map[string]Language{
	"en": EN, "eng": EN, "english": EN, "अंग्रेज़ी": EN, "ఇంగ్లీష్": EN,
	"hi": HI, "hindi": HI, "हिन्दी": HI, "हिंदी": HI, "హిందీ": HI,
	"te": TE, "telugu": TE, "तेलुगु": TE, "తెలుగు": TE,
}

// Parse resolves user input into a Language. It accepts identifiers,
// English and native names, and 1-based menu numbers.
func Parse(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if l, ok := aliases[s]; ok {
		return l, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		langs := Supported()
		if n >= 1 && n <= len(langs) {
			return langs[n-1], true
		}
	}
	return "", false
}

// Compile-time interface check.
var _ domain.LanguageSource = (*Selector)(nil)

// Selector holds the current UI language and notifies subscribers when it
// changes. Safe for concurrent use.
type Selector struct {
	mu      sync.RWMutex
	current Language
	nextID  int
	subs    map[int]func(string)
}

// NewSelector creates a selector starting at the given language.
func NewSelector(initial Language) *Selector {
	if initial == "" {
		initial = EN
	}
	return &Selector{current: initial, subs: make(map[int]func(string))}
}

// Language returns the current UI language identifier.
func (s *Selector) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.current)
}

// Set switches the UI language. Subscribers run synchronously, outside
// the lock, and only if the language actually changed.
func (s *Selector) Set(lang Language) {
	s.mu.Lock()
	if s.current == lang {
		s.mu.Unlock()
		return
	}
	s.current = lang
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(string(lang))
	}
}

// OnChange registers fn to run after every language change.
func (s *Selector) OnChange(fn func(lang string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
