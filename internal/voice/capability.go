package voice

import "github.com/hammamikhairi/smartagri/internal/domain"

// Capability describes whether the platform can recognize speech. It has
// exactly two variants, built with Supported and Unsupported.
type Capability interface {
	capability()
}

type supported struct {
	rec domain.Recognizer
}

type unsupported struct {
	reason string
}

func (supported) capability()   {}
func (unsupported) capability() {}

// Supported wraps a working recognizer. A nil recognizer is treated as
// unsupported.
func Supported(rec domain.Recognizer) Capability {
	if rec == nil {
		return unsupported{reason: "no recognizer"}
	}
	return supported{rec: rec}
}

// Unsupported marks speech recognition as unavailable, with a reason for
// the logs.
func Unsupported(reason string) Capability {
	return unsupported{reason: reason}
}
