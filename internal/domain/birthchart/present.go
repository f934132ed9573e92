package birthchart

import (
	"github.com/shopspring/decimal"
)

// Messages shown by both shells.
const (
	MessageMissingFields     = "Please fill in all required fields"
	MessageCalculationFailed = "Failed to calculate birth chart. Please try again."
	MessageInProgress        = "A calculation is already in progress."
	MessageLoading           = "Calculating your sidereal birth chart..."
	MessageChartUnavailable  = "Chart visualization not available"
	RetrogradeMarker         = "(R)"
)

const degreePrecision int32 = 2

var signGlyphs = map[string]string{
	"Aries":       "♈",
	"Taurus":      "♉",
	"Gemini":      "♊",
	"Cancer":      "♋",
	"Leo":         "♌",
	"Virgo":       "♍",
	"Libra":       "♎",
	"Scorpio":     "♏",
	"Sagittarius": "♐",
	"Capricorn":   "♑",
	"Aquarius":    "♒",
	"Pisces":      "♓",
}

// PlanetRow is a planet prepared for display.
type PlanetRow struct {
	Name       string
	Retrograde bool
	Sign       string
	Glyph      string
	Degrees    string
	House      int
}

// SignGlyph returns the zodiac symbol for a sign name, or "" for unknown names.
func SignGlyph(sign string) string {
	return signGlyphs[sign]
}

// FormatDegrees renders degrees with two decimals and a degree sign. Rounding
// works on the exact binary value, so 1.005 becomes "1.00" as in a browser.
func FormatDegrees(degrees float64) string {
	return decimal.NewFromFloatWithExponent(degrees, -degreePrecision).StringFixed(degreePrecision) + "°"
}

// Rows maps the result to display rows, keeping the service order.
func Rows(result *ChartResult) []PlanetRow {
	if result == nil {
		return nil
	}
	rows := make([]PlanetRow, 0, len(result.Planets))
	for _, planet := range result.Planets {
		rows = append(rows, PlanetRow{
			Name:       planet.Name,
			Retrograde: planet.Retrograde,
			Sign:       planet.Sign,
			Glyph:      SignGlyph(planet.Sign),
			Degrees:    FormatDegrees(planet.Degrees),
			House:      planet.House,
		})
	}
	return rows
}
