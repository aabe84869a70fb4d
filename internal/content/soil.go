package content

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/smartagri/internal/locale"
)

// Status classifies a reading against its healthy range.
type Status int

const (
	StatusLow Status = iota
	StatusGood
	StatusHigh
)

// Key returns the locale message key for the status.
func (s Status) Key() string {
	switch s {
	case StatusLow:
		return "status_low"
	case StatusHigh:
		return "status_high"
	default:
		return "status_good"
	}
}

// Reading is one soil measurement with its healthy range [Min, Max].
type Reading struct {
	Key   string // locale message key for the name
	Value float64
	Unit  string
	Min   float64
	Max   float64
}

// Status compares the value with the healthy range.
func (r Reading) Status() Status {
	switch {
	case r.Value < r.Min:
		return StatusLow
	case r.Value > r.Max:
		return StatusHigh
	default:
		return StatusGood
	}
}

// SoilReport is the latest soil test for the farm.
type SoilReport struct {
	Field    string
	Readings []Reading
}

// DemoSoilReport returns the sample report shown on the soil page.
func DemoSoilReport() SoilReport {
	return SoilReport{
		Field: "Field A",
		Readings: []Reading{
			{Key: "ph", Value: 6.8, Min: 6.0, Max: 7.5},
			{Key: "moisture", Value: 18, Unit: "%", Min: 20, Max: 40},
			{Key: "nitrogen", Value: 240, Unit: "kg/ha", Min: 280, Max: 560},
			{Key: "phosphorus", Value: 22, Unit: "kg/ha", Min: 10, Max: 25},
			{Key: "potassium", Value: 310, Unit: "kg/ha", Min: 110, Max: 280},
			{Key: "organic_carbon", Value: 0.62, Unit: "%", Min: 0.5, Max: 0.75},
		},
	}
}

// advice maps a reading key and status to a locale message key. Good
// readings need no advice.
var advice = map[string]map[Status]string{
	"ph":             {StatusLow: "advice_ph_low", StatusHigh: "advice_ph_high"},
	"moisture":       {StatusLow: "advice_moisture_low", StatusHigh: "advice_moisture_high"},
	"nitrogen":       {StatusLow: "advice_nitrogen_low", StatusHigh: "advice_nitrogen_high"},
	"phosphorus":     {StatusLow: "advice_phosphorus_low", StatusHigh: "advice_phosphorus_high"},
	"potassium":      {StatusLow: "advice_potassium_low", StatusHigh: "advice_potassium_high"},
	"organic_carbon": {StatusLow: "advice_carbon_low", StatusHigh: "advice_carbon_high"},
}

// Advice returns the recommendations for every out-of-range reading.
func (r SoilReport) Advice(lang string) []string {
	var out []string
	for _, rd := range r.Readings {
		if key, ok := advice[rd.Key][rd.Status()]; ok {
			out = append(out, locale.T(lang, key))
		}
	}
	return out
}

// Lines renders the soil page for lang.
func (r SoilReport) Lines(lang string) []string {
	lines := []string{fmt.Sprintf("%s (%s)", locale.T(lang, "soil_health"), r.Field)}
	for _, rd := range r.Readings {
		lines = append(lines, fmt.Sprintf("  %-18s %8s  %s",
			locale.T(lang, rd.Key), formatValue(rd), locale.T(lang, rd.Status().Key())))
	}
	if adv := r.Advice(lang); len(adv) > 0 {
		lines = append(lines, "", locale.T(lang, "advice")+":")
		for _, a := range adv {
			lines = append(lines, "  - "+a)
		}
	}
	return lines
}

// Narration is the text spoken for the soil page.
func (r SoilReport) Narration(lang string) string {
	var b strings.Builder
	b.WriteString(locale.T(lang, "soil_health"))
	b.WriteString(". ")
	for _, rd := range r.Readings {
		fmt.Fprintf(&b, "%s %s, %s. ", locale.T(lang, rd.Key), formatValue(rd), locale.T(lang, rd.Status().Key()))
	}
	for _, a := range r.Advice(lang) {
		b.WriteString(a)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func formatValue(rd Reading) string {
	v := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", rd.Value), "0"), ".")
	if rd.Unit == "" {
		return v
	}
	if rd.Unit == "%" {
		return v + "%"
	}
	return v + " " + rd.Unit
}
