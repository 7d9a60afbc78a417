package prober

import "time"

// CheckResult is the outcome of a single availability probe. It is immutable
// once produced and discarded after one reporting cycle.
type CheckResult struct {
	Service   string
	Available bool
	Detail    string
	Latency   time.Duration
	CheckedAt time.Time
}

// StatusLabel returns "Online" or "Offline" for display.
func (r CheckResult) StatusLabel() string {
	if r.Available {
		return "Online"
	}
	return "Offline"
}
