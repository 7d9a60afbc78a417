package scanner

import (
	"time"

	"availscan/internal/prober"
)

// Report is the ordered outcome of one scan cycle. It exists only for the
// duration of one reporting cycle; nothing is carried across iterations.
type Report struct {
	Results   []prober.CheckResult
	StartedAt time.Time
	Duration  time.Duration
}

// Total returns the number of services checked.
func (r Report) Total() int {
	return len(r.Results)
}

// Online returns the number of available services.
func (r Report) Online() int {
	n := 0
	for _, res := range r.Results {
		if res.Available {
			n++
		}
	}
	return n
}

// Offline returns the number of unavailable services.
func (r Report) Offline() int {
	return r.Total() - r.Online()
}

// OnlinePercent returns the online share in percent, 0 for an empty report.
func (r Report) OnlinePercent() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Online()) / float64(r.Total()) * 100
}

// OfflinePercent returns the offline share in percent, 0 for an empty report.
func (r Report) OfflinePercent() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Offline()) / float64(r.Total()) * 100
}

// AllOnline reports whether no service is offline.
func (r Report) AllOnline() bool {
	return r.Offline() == 0
}
