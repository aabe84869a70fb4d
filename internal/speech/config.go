package speech

import "time"

// Neural voices per speech language code. Codes missing here use
// DefaultVoice.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
var Voices = map[string]string{
	"en-US": "en-US-AvaNeural",
	"hi-IN": "hi-IN-SwaraNeural",
	"te-IN": "te-IN-ShrutiNeural",
}

// DefaultVoice is used for language codes without an entry in Voices.
const DefaultVoice = "en-US-AvaNeural"

// VoiceFor returns the TTS voice for a language code.
func VoiceFor(code string) string {
	if v, ok := Voices[code]; ok {
		return v
	}
	return DefaultVoice
}

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Utterance is a queued item waiting to be spoken.
type Utterance struct {
	Text     string
	Language string // speech language code, e.g. "te-IN"
	QueuedAt time.Time
}
