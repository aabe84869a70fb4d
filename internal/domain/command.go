package domain

// CommandType classifies what the user wants to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	// CommandOpen opens a dashboard page; the payload is the page id.
	CommandOpen
	CommandBack
	CommandReadAloud
	CommandListen
	CommandStopListening
	// CommandLanguage switches the UI language; the payload names it.
	CommandLanguage
	CommandLogout
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandOpen:
		return "open"
	case CommandBack:
		return "back"
	case CommandReadAloud:
		return "read_aloud"
	case CommandListen:
		return "listen"
	case CommandStopListening:
		return "stop_listening"
	case CommandLanguage:
		return "language"
	case CommandLogout:
		return "logout"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command represents a parsed user action.
type Command struct {
	Type    CommandType
	Payload string // optional context: page id or language
}

// ParseCommandType is the inverse of CommandType.String. Unrecognised
// names yield CommandUnknown.
func ParseCommandType(s string) CommandType {
	for t := CommandOpen; t <= CommandQuit; t++ {
		if t.String() == s {
			return t
		}
	}
	return CommandUnknown
}
