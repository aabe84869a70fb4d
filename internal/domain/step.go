package domain

// Step is one screen of the application flow.
type Step int

const (
	StepLanguage Step = iota
	StepLogin
	StepDashboard
	StepSoil
)

// String returns a human-readable step name.
func (s Step) String() string {
	switch s {
	case StepLanguage:
		return "language"
	case StepLogin:
		return "login"
	case StepDashboard:
		return "dashboard"
	case StepSoil:
		return "soil"
	default:
		return "unknown"
	}
}

// Page identifiers accepted by navigation.
const (
	PageMySoil  = "my_soil"
	PageWeather = "weather"
	PageCrops   = "crops"
	PageMarket  = "market"
)
