package scanner

import (
	"context"
	"time"

	"availscan/internal/config"
	"availscan/internal/prober"
)

// Checker performs one availability probe for a service.
type Checker interface {
	Check(ctx context.Context, svc config.Service) prober.CheckResult
}

// Scanner runs the full list of registered services through a Checker, one
// probe at a time, preserving registration order. Probes are deliberately
// sequential: total scan latency is bounded by services × timeout.
type Scanner struct {
	services []config.Service
	checker  Checker
	onResult func(prober.CheckResult)
}

// New creates a Scanner over the given ordered service list.
func New(services []config.Service, checker Checker) *Scanner {
	return &Scanner{services: services, checker: checker}
}

// SetOnResult sets a callback invoked after each individual probe, before
// the next one starts. Used for incremental progress output.
func (s *Scanner) SetOnResult(fn func(prober.CheckResult)) {
	s.onResult = fn
}

// Scan probes every registered service once and returns the collected
// report. Every service produces exactly one result per scan.
func (s *Scanner) Scan(ctx context.Context) Report {
	report := Report{
		StartedAt: time.Now(),
		Results:   make([]prober.CheckResult, 0, len(s.services)),
	}
	for _, svc := range s.services {
		result := s.checker.Check(ctx, svc)
		report.Results = append(report.Results, result)
		if s.onResult != nil {
			s.onResult(result)
		}
	}
	report.Duration = time.Since(report.StartedAt)
	return report
}
