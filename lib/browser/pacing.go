package browser

import (
	"context"
	"time"

	"github.com/mazen160/go-random"
)

// Pacing spaces out portal interactions with a jittered delay so a
// run doesn't hammer the dashboards at machine speed.
type Pacing struct {
	Min time.Duration
	Max time.Duration
}

// delays observed between human interactions on the dashboards
var DefaultPacing = Pacing{
	Min: 400 * time.Millisecond,
	Max: 1100 * time.Millisecond,
}

// NoPacing disables delays, for tests.
var NoPacing = Pacing{}

func (p Pacing) Sleep(ctx context.Context) {
	if p.Max <= 0 {
		return
	}
	ms, err := random.IntRange(int(p.Min.Milliseconds()), int(p.Max.Milliseconds())+1)
	if err != nil {
		ms = int(p.Min.Milliseconds())
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ctx.Done():
	}
}
