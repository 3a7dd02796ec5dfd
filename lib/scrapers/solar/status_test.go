package solar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func capacity(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	window := PeakWindow{StartHour: 14, EndHour: 23}

	cases := []struct {
		name      string
		powerKw   float64
		capacity  *float64
		rawStatus string
		hour      int
		want      Status
	}{
		{"explicit offline with zero power", 0, capacity(100), "Offline", 15, StatusOffline},
		{"explicit offline overridden by output", 12, capacity(100), "off-line", 15, StatusOnline},
		{"portuguese disconnection signal", 0, capacity(50), "Desligado", 10, StatusOffline},
		{"low efficiency in peak window", 15, capacity(100), "online", 15, StatusAlert},
		{"healthy efficiency in peak window", 25, capacity(100), "online", 15, StatusOnline},
		{"zero power in peak window", 0, capacity(100), "online", 15, StatusOffline},
		{"zero power during daytime outside peak", 0, capacity(100), "online", 10, StatusOffline},
		{"zero power in the evening peak stretch", 0, capacity(100), "online", 22, StatusOffline},
		{"zero power before dawn", 0, capacity(100), "online", 5, StatusOnline},
		{"low output outside peak window", 5, capacity(100), "online", 9, StatusOnline},
		{"unknown capacity producing", 3.2, nil, "", 15, StatusOnline},
		{"unknown capacity idle", 0, nil, "", 15, StatusOffline},
		{"chinese offline signal", 0, capacity(80), "离线", 12, StatusOffline},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.powerKw, c.capacity, c.rawStatus, c.hour, window, 0.20)
			require.Equal(t, c.want, got)
		})
	}
}

func TestClassifyZeroCapacityActsAsUnknown(t *testing.T) {
	// zero capacity behaves like unknown capacity
	got := Classify(0, capacity(0), "online", 15, defaultPeakWindow, 0.20)
	require.Equal(t, StatusOffline, got)
}

func TestPeakWindowContains(t *testing.T) {
	w := PeakWindow{StartHour: 10, EndHour: 16}
	require.False(t, w.Contains(9))
	require.True(t, w.Contains(10))
	require.True(t, w.Contains(16))
	require.False(t, w.Contains(17))
}
