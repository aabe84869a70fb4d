// Package content provides the static dashboard and soil-health page data
// and the narration text read aloud for each page.
package content

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/locale"
)

// Tile is one dashboard entry.
type Tile struct {
	Page      string // domain page id
	TitleKey  string // locale message key
	Available bool
}

// Tiles returns the dashboard tiles in display order. The index+1 of each
// tile is its menu number.
func Tiles() []Tile {
	return []Tile{
		{Page: domain.PageMySoil, TitleKey: "my_soil", Available: true},
		{Page: domain.PageWeather, TitleKey: "weather"},
		{Page: domain.PageCrops, TitleKey: "crops"},
		{Page: domain.PageMarket, TitleKey: "market"},
	}
}

// TileFor returns the tile for a page id.
func TileFor(page string) (Tile, bool) {
	for _, t := range Tiles() {
		if t.Page == page {
			return t, true
		}
	}
	return Tile{}, false
}

// DashboardLines renders the dashboard menu for lang.
func DashboardLines(lang string) []string {
	lines := []string{locale.T(lang, "dashboard")}
	for i, t := range Tiles() {
		title := locale.T(lang, t.TitleKey)
		if !t.Available {
			title += " (" + locale.T(lang, "coming_soon") + ")"
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, title))
	}
	return lines
}

// DashboardNarration is the text spoken for the dashboard.
func DashboardNarration(lang string) string {
	var titles []string
	for _, t := range Tiles() {
		titles = append(titles, locale.T(lang, t.TitleKey))
	}
	return locale.T(lang, "dashboard") + ". " + strings.Join(titles, ", ") + "."
}
