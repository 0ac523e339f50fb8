package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNilLastSeen(t *testing.T) {
	assert.Equal(t, StateOffline, Classify(nil, time.Now()))
}

func TestClassifyWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    State
	}{
		{"fresh", 0, StateOnline},
		{"ten seconds", 10 * time.Second, StateOnline},
		{"just under online boundary", 30*time.Second - time.Millisecond, StateOnline},
		{"exactly 30s is degraded", 30 * time.Second, StateDegraded},
		{"one minute", time.Minute, StateDegraded},
		{"just under offline boundary", 120*time.Second - time.Millisecond, StateDegraded},
		{"exactly 120s is offline", 120 * time.Second, StateOffline},
		{"five minutes", 5 * time.Minute, StateOffline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := now.Add(-tc.elapsed)
			assert.Equal(t, tc.want, Classify(&last, now))
		})
	}
}

// A heartbeat arriving after a long outage flips the screen straight
// back to online.
func TestClassifyRecovery(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := t0
	assert.Equal(t, StateOnline, Classify(&first, t0.Add(10*time.Second)))
	assert.Equal(t, StateOffline, Classify(&first, t0.Add(150*time.Second)))

	second := t0.Add(151 * time.Second)
	assert.Equal(t, StateOnline, Classify(&second, t0.Add(151500*time.Millisecond)))
}
