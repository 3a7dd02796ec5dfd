// Package quantity parses the free-text power and energy figures the
// vendor dashboards render: "12,50 kW", "768.0W", "1.234" and plain
// garbage all occur in the wild.
package quantity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumeric = regexp.MustCompile(`[^0-9,.\-]`)
	leadingNum = regexp.MustCompile(`-?\d+(\.\d+)?`)
	bareWatt   = regexp.MustCompile(`(?i)[\d.,]\s*W\b`)
	kiloUnit   = regexp.MustCompile(`(?i)kW[hp]?`)
)

// Parse extracts a numeric value in kilo-units from free text.
// Commas act as the decimal separator when no dot is present ("12,50"
// → 12.5); when both appear the dot wins. A bare watt suffix (W but
// not kW/kWh/kWp) divides by 1000. Unparseable text is 0, never an
// error: a bad cell must not take down the page.
func Parse(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	watts := bareWatt.MatchString(s) && !kiloUnit.MatchString(s)

	num := nonNumeric.ReplaceAllString(s, "")
	if strings.Contains(num, ",") {
		if strings.Contains(num, ".") {
			num = strings.ReplaceAll(num, ",", "")
		} else {
			num = strings.Replace(num, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		// "1.234.56" and friends: take the leading numeric run
		m := leadingNum.FindString(num)
		if m == "" {
			return 0
		}
		v, err = strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
	}

	if watts {
		v = v / 1000
	}
	return v
}

// Round2 rounds to 2 decimal places, the precision everything is
// persisted at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApproximatePower estimates current output from the day's yield when
// a dashboard has no power column, assuming roughly constant
// production since sunrise at 6h.
func ApproximatePower(yieldKwh float64, hour int) float64 {
	elapsed := hour - 6
	if elapsed < 1 {
		elapsed = 1
	}
	return Round2(yieldKwh / float64(elapsed))
}
