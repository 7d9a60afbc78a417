package prober

import (
	"context"
	"net"
	"time"
)

// CheckTCP performs a bounded-time TCP connect to hostport as a raw
// reachability probe. The connection is closed immediately on success.
func (p *Prober) CheckTCP(ctx context.Context, name, hostport string) CheckResult {
	start := time.Now()
	result := CheckResult{Service: name, CheckedAt: start}

	_, port, splitErr := net.SplitHostPort(hostport)

	conn, err := p.dialer.DialContext(ctx, "tcp", hostport)
	result.Latency = time.Since(start)
	if err != nil {
		if splitErr != nil {
			result.Detail = "Connection failed"
		} else {
			result.Detail = "Port " + port + " not accessible"
		}
		return result
	}
	conn.Close()

	result.Available = true
	result.Detail = "Port " + port + " accessible"
	return result
}
