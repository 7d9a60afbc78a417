package prober

import (
	"context"
	"time"
)

// CheckDNS resolves hostname and reports availability on success. When
// expectedIP is non-empty the first resolved address must match it exactly.
func (p *Prober) CheckDNS(ctx context.Context, name, hostname, expectedIP string) CheckResult {
	start := time.Now()
	result := CheckResult{Service: name, CheckedAt: start}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addrs, err := p.resolver.LookupHost(ctx, hostname)
	result.Latency = time.Since(start)
	if err != nil || len(addrs) == 0 {
		result.Detail = "DNS resolution failed"
		return result
	}

	ip := addrs[0]
	if expectedIP != "" && ip != expectedIP {
		result.Detail = "Wrong IP: " + ip
		return result
	}

	result.Available = true
	result.Detail = "Resolved to " + ip
	return result
}
