package speech

import (
	"regexp"
	"strings"
)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]", "(speaking Hindi)", etc.
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)

// timestampPrefix matches "[00:00:00.000 --> 00:00:05.000]".
var timestampPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\.\d{3} --> \d{2}:\d{2}:\d{2}\.\d{3}\]\s*`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// hallucinations are whole-transcript outputs whisper produces from
// silence or noise. Compared case-insensitively.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"the end.":                true,
	"धन्यवाद।":                true,
	"धन्यवाद":                 true,
	"ధన్యవాదాలు":              true,
}

// cleanTranscription collapses whitespace, strips timestamps and
// environmental annotations ("[BLANK_AUDIO]", "(wind blowing)"), and
// drops known hallucinations entirely.
func cleanTranscription(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = timestampPrefix.ReplaceAllString(s, "")

	s = envAnnotation.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
