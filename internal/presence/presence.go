// Package presence derives a screen's liveness state from the time of
// its last accepted viewer heartbeat. The same classification runs on
// the server (admin screen lists) and inside every rendering client
// (connectivity indicator), so it must stay a pure function of the two
// timestamps and nothing else.
package presence

import "time"

type State string

const (
	StateOnline   State = "online"
	StateDegraded State = "degraded"
	StateOffline  State = "offline"
)

const (
	// OnlineWindow is the maximum elapsed time since the last viewer
	// heartbeat for a screen to count as online.
	OnlineWindow = 30 * time.Second
	// DegradedWindow is the maximum elapsed time for a screen to count
	// as degraded ("unstable connection") rather than offline.
	DegradedWindow = 120 * time.Second
)

// Classify maps (now - lastSeen) onto the tri-state liveness model.
// Boundaries are half-open on the lower bound: exactly 30s elapsed is
// degraded, exactly 120s is offline. A nil lastSeen (never heartbeated)
// is offline.
func Classify(lastSeen *time.Time, now time.Time) State {
	if lastSeen == nil {
		return StateOffline
	}
	elapsed := now.Sub(*lastSeen)
	switch {
	case elapsed < OnlineWindow:
		return StateOnline
	case elapsed < DegradedWindow:
		return StateDegraded
	default:
		return StateOffline
	}
}
