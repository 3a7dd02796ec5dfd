package solar

import "regexp"

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusAlert   Status = "alert"
)

// textual disconnection signals across the portals (pt/en/zh)
var offlineSignal = regexp.MustCompile(`(?i)\boff\b|off-?line|desligad|disconnect|defeito|离线|异常`)

// daytime band outside the peak window where zero output still means
// the plant is down rather than just resting
const (
	daytimeStartHour = 8
	daytimeEndHour   = 18
)

// Classify derives a plant's operational status from one reading.
// Pure: hour is the local hour at the plant, injected by the caller,
// never read from the wall clock here.
//
// A textual disconnection signal plus zero output is definitive.
// Measured output always overrides the portal's own label: vendors
// cache status long after the inverter is back. With a known capacity
// the peak window applies an efficiency floor; without one only the
// output itself can decide.
func Classify(powerKw float64, capacityKwp *float64, rawStatus string, hour int, window PeakWindow, threshold float64) Status {
	if offlineSignal.MatchString(rawStatus) {
		if powerKw > 0 {
			return StatusOnline
		}
		return StatusOffline
	}

	if capacityKwp != nil && *capacityKwp > 0 {
		if window.Contains(hour) {
			if powerKw == 0 {
				return StatusOffline
			}
			if powerKw/(*capacityKwp) < threshold {
				return StatusAlert
			}
			return StatusOnline
		}
		if powerKw == 0 && hour >= daytimeStartHour && hour <= daytimeEndHour {
			return StatusOffline
		}
		return StatusOnline
	}

	if powerKw > 0 {
		return StatusOnline
	}
	return StatusOffline
}
