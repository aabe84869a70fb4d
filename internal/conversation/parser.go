// Package conversation turns typed input and voice transcripts into
// commands.
package conversation

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords in English,
// Hindi and Telugu. Transcripts and typed input go through the same rules.
type KeywordParser struct {
	log      *logger.Logger
	language *regexp.Regexp
	patterns []patternRule
	pages    []pageRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

type pageRule struct {
	regex *regexp.Regexp
	page  string
}

// Optional verb in front of a page name.
const openPrefix = `^(?:(?:open|show|go to|check|खोलो|दिखाओ|తెరువు|చూపించు)\s+)?`

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log.With("parser")}
	p.language = regexp.MustCompile(`(?i)^(?:language|lang|switch to|change language to|भाषा|భాష)\s+(.+)$`)
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:back|go back|dashboard|home|वापस|पीछे|डैशबोर्ड|వెనక్కి|డ్యాష్‌బోర్డ్)$`), domain.CommandBack},
		{regexp.MustCompile(`(?i)^(?:read|read aloud|read it|speak|say it|सुनाओ|पढ़ो|पढ़कर सुनाओ|చదువు|వినిపించు)$`), domain.CommandReadAloud},
		{regexp.MustCompile(`(?i)^(?:listen|voice|mic|talk|सुनो|వినండి|విను)$`), domain.CommandListen},
		{regexp.MustCompile(`(?i)^(?:stop|stop listening|रुको|बंद करो|ఆపు|ఆపండి)$`), domain.CommandStopListening},
		{regexp.MustCompile(`(?i)^(?:logout|log out|sign out|लॉगआउट|లాగౌట్)$`), domain.CommandLogout},
		{regexp.MustCompile(`(?i)^(?:help|h|\?|मदद|సహాయం)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q|बाहर|నిష్క్రమించు)$`), domain.CommandQuit},
	}
	p.pages = []pageRule{
		{regexp.MustCompile(`(?i)` + openPrefix + `(?:1|soil|my soil|soil health|soil report|मिट्टी|मेरी मिट्टी|मिट्टी का स्वास्थ्य|నేల|నా నేల|నేల ఆరోగ్యం)$`), domain.PageMySoil},
		{regexp.MustCompile(`(?i)` + openPrefix + `(?:2|weather|मौसम|వాతావరణం)$`), domain.PageWeather},
		{regexp.MustCompile(`(?i)` + openPrefix + `(?:3|crops|my crops|फसल|फसलें|मेरी फसलें|పంటలు|నా పంటలు)$`), domain.PageCrops},
		{regexp.MustCompile(`(?i)` + openPrefix + `(?:4|market|market prices|mandi|मंडी|मंडी भाव|మార్కెట్|మార్కెట్ ధరలు)$`), domain.PageMarket},
	}
	return p
}

// Parse converts user input into a command. Unmatched input yields
// CommandUnknown with the normalized input as payload.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	text := normalize(input)
	if text == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	if m := p.language.FindStringSubmatch(text); m != nil {
		return &domain.Command{Type: domain.CommandLanguage, Payload: strings.TrimSpace(m[1])}, nil
	}

	for _, rule := range p.pages {
		if rule.regex.MatchString(text) {
			p.log.Debug("matched page: %s", rule.page)
			return &domain.Command{Type: domain.CommandOpen, Payload: rule.page}, nil
		}
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(text) {
			p.log.Debug("matched command: %s", rule.command)
			return &domain.Command{Type: rule.command}, nil
		}
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: text}, nil
}

// normalize lowercases, collapses whitespace and strips the trailing
// punctuation that speech recognizers like to add (including the danda).
func normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if s == "?" {
		return s
	}
	return strings.TrimRightFunc(s, unicode.IsPunct)
}
