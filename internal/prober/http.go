package prober

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"unicode/utf8"
)

// CheckHTTP performs a GET against url. Any status code below 400 counts as
// available; redirects are followed and the response body is ignored.
func (p *Prober) CheckHTTP(ctx context.Context, name, url string) CheckResult {
	start := time.Now()
	result := CheckResult{Service: name, CheckedAt: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Detail = shortError(err)
		result.Latency = time.Since(start)
		return result
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Detail = classifyTransportError(err)
		return result
	}
	resp.Body.Close()

	result.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	result.Available = resp.StatusCode < 400
	return result
}

// classifyTransportError maps client errors onto short human-readable
// reasons: timeouts become "Timeout", dial and resolution failures become
// "Connection failed", anything else is surfaced truncated.
func classifyTransportError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "Connection failed"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Connection failed"
	}
	return shortError(err)
}

func shortError(err error) string {
	const maxLen = 30
	msg := err.Error()
	if len(msg) > maxLen {
		cut := maxLen
		// Back up so truncation never splits a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return "Error: " + msg
}
