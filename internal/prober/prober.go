package prober

import (
	"context"
	"net"
	"net/http"
	"time"

	"availscan/internal/config"
)

const userAgent = "AvailabilityScanner/1.0"

// Resolver abstracts DNS lookups for testability.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Prober performs bounded-time availability probes against external services.
// It holds one shared HTTP client, dialer, and resolver; all probes apply the
// same configured timeout. Safe for serial reuse across scan cycles.
type Prober struct {
	client   *http.Client
	dialer   *net.Dialer
	resolver Resolver
	timeout  time.Duration
}

// New creates a Prober whose probes all time out after the given duration.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client:   &http.Client{Timeout: timeout},
		dialer:   &net.Dialer{Timeout: timeout},
		resolver: &net.Resolver{},
		timeout:  timeout,
	}
}

// NewWithResolver creates a Prober with a custom DNS resolver (for testing).
func NewWithResolver(timeout time.Duration, r Resolver) *Prober {
	p := New(timeout)
	p.resolver = r
	return p
}

// Check runs the probe appropriate for the service's type. Probe failures
// never surface as errors: they become offline results with a reason string.
func (p *Prober) Check(ctx context.Context, svc config.Service) CheckResult {
	switch svc.Type {
	case "http":
		return p.CheckHTTP(ctx, svc.Name, svc.Target)
	case "dns":
		return p.CheckDNS(ctx, svc.Name, svc.Target, svc.ExpectedIP)
	case "tcp":
		return p.CheckTCP(ctx, svc.Name, svc.Target)
	default:
		// Unreachable for validated configs.
		return CheckResult{
			Service:   svc.Name,
			Detail:    "Error: unknown probe type " + svc.Type,
			CheckedAt: time.Now(),
		}
	}
}
