package solar

import (
	"solarsync-backend/lib/quantity"
	"time"
)

// NormalizedReading is one plant observation in canonical units,
// ready to persist.
type NormalizedReading struct {
	Name          string
	PowerKw       float64
	CapacityKwp   *float64
	DailyYieldKwh float64
	Status        Status
	ObservedAt    time.Time
}

// Normalize converts a raw row into canonical units and classifies
// it. It never fails: unparseable figures degrade to zero and the
// classifier treats them accordingly.
func Normalize(rec RawPlantRecord, profile VendorProfile, now time.Time) NormalizedReading {
	power := quantity.Round2(quantity.Parse(rec.Power))
	if power < 0 {
		power = 0
	}
	yield := quantity.Round2(quantity.Parse(rec.Yield))
	if yield < 0 {
		yield = 0
	}

	var capacity *float64
	if v := quantity.Parse(rec.Capacity); v > 0 {
		capacity = &v
	}

	hour := now.Hour()
	if profile.DeriveMissingPower && power == 0 && yield > 0 {
		power = quantity.ApproximatePower(yield, hour)
	}

	return NormalizedReading{
		Name:          rec.Name,
		PowerKw:       power,
		CapacityKwp:   capacity,
		DailyYieldKwh: yield,
		Status: Classify(
			power, capacity, rec.Status, hour,
			profile.PeakWindow, profile.EfficiencyThreshold,
		),
		ObservedAt: now,
	}
}
