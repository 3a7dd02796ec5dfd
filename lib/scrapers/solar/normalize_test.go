package solar

import (
	"solarsync-backend/lib/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2026, time.March, 10, hour, 30, 0, 0, timezone.Location)
}

func TestNormalize(t *testing.T) {
	profile := testProfile()

	r := Normalize(RawPlantRecord{
		Name:     "Fazenda A",
		Status:   "Online",
		Capacity: "100 kWp",
		Power:    "45,3 kW",
		Yield:    "120,5 kWh",
	}, profile, at(11))

	require.Equal(t, "Fazenda A", r.Name)
	require.Equal(t, 45.3, r.PowerKw)
	require.NotNil(t, r.CapacityKwp)
	require.Equal(t, 100.0, *r.CapacityKwp)
	require.Equal(t, 120.5, r.DailyYieldKwh)
	require.Equal(t, StatusOnline, r.Status)
	require.Equal(t, at(11), r.ObservedAt)
}

func TestNormalizeBareWatts(t *testing.T) {
	r := Normalize(RawPlantRecord{
		Name:  "Fazenda B",
		Power: "768.0W",
		Yield: "3,1",
	}, testProfile(), at(11))
	require.Equal(t, 0.77, r.PowerKw)
	require.Equal(t, StatusOnline, r.Status)
}

func TestNormalizeGarbageDegradesToZero(t *testing.T) {
	r := Normalize(RawPlantRecord{
		Name:     "Fazenda C",
		Status:   "",
		Capacity: "n/a",
		Power:    "--",
		Yield:    "??",
	}, testProfile(), at(15))
	require.Equal(t, 0.0, r.PowerKw)
	require.Nil(t, r.CapacityKwp)
	require.Equal(t, 0.0, r.DailyYieldKwh)
	require.Equal(t, StatusOffline, r.Status)
}

func TestNormalizeDerivedPower(t *testing.T) {
	profile := testProfile()
	profile.DeriveMissingPower = true

	// 40 kWh by 14h, 8 producing hours since 6h
	r := Normalize(RawPlantRecord{Name: "Fazenda D", Yield: "40 kWh"}, profile, at(14))
	require.Equal(t, 5.0, r.PowerKw)
	require.Equal(t, StatusOnline, r.Status)

	// without the flag the power stays at zero
	r = Normalize(RawPlantRecord{Name: "Fazenda D", Yield: "40 kWh"}, testProfile(), at(14))
	require.Equal(t, 0.0, r.PowerKw)
}

func TestDedupe(t *testing.T) {
	readings := []NormalizedReading{
		{Name: "Fazenda A", PowerKw: 45.3},
		{Name: "Fazenda B", PowerKw: 0},
		{Name: "Fazenda A", PowerKw: 44.0},
	}
	out := Dedupe(readings)
	require.Len(t, out, 2)
	require.Equal(t, "Fazenda A", out[0].Name)
	require.Equal(t, 45.3, out[0].PowerKw)
	require.Equal(t, "Fazenda B", out[1].Name)
}

func TestBuildBatch(t *testing.T) {
	records := []RawPlantRecord{
		{Name: "Fazenda A", Status: "Online", Capacity: "100 kWp", Power: "45,3 kW", Yield: "120,5 kWh"},
		{Name: "Fazenda A", Status: "Online", Capacity: "100 kWp", Power: "44,0 kW", Yield: "119 kWh"},
		{Name: "Fazenda B", Status: "Offline", Capacity: "50 kWp", Power: "0 W", Yield: "0"},
	}
	batch := BuildBatch(records, testProfile(), at(11))
	require.Len(t, batch, 2)
	require.Equal(t, 45.3, batch[0].PowerKw)
	require.Equal(t, StatusOnline, batch[0].Status)
	require.Equal(t, StatusOffline, batch[1].Status)
}
