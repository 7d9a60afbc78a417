package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"availscan/internal/config"
	"availscan/internal/metrics"
	"availscan/internal/notify"
	"availscan/internal/prober"
	"availscan/internal/scanner"
	"availscan/internal/scheduler"
	"availscan/internal/server"
)

// TestIntegration_FullCycle verifies the complete pipeline:
// config → prober → scanner → notification → status API → metrics
func TestIntegration_FullCycle(t *testing.T) {
	// 1. One healthy HTTP target, one failing, one reachable TCP port.
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// 2. Webhook receiver capturing the payload.
	var (
		mu       sync.Mutex
		payloads [][]byte
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		payloads = append(payloads, body)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	// 3. Wire the full stack the way the watch command does.
	services := []config.Service{
		{Name: "healthy-api", Type: "http", Target: healthy.URL},
		{Name: "failing-api", Type: "http", Target: failing.URL},
		{Name: "raw-port", Type: "tcp", Target: ln.Addr().String()},
	}
	p := prober.New(5 * time.Second)
	sc := scanner.New(services, p)

	m := metrics.New()
	srv := server.New(m, nil)
	runner := scheduler.New(sc, notify.New(hook.URL, nil), time.Hour, nil)
	runner.OnReport(m.Observe)
	runner.OnReport(srv.SetReport)

	// 4. Run exactly one cycle.
	runner.RunCycle(context.Background())

	// 5. The webhook fired once, with one field per service.
	mu.Lock()
	got := len(payloads)
	mu.Unlock()
	if got != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", got)
	}

	var payload struct {
		Embeds []struct {
			Fields []struct {
				Name string `json:"name"`
			} `json:"fields"`
			Footer struct {
				Text string `json:"text"`
			} `json:"footer"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal(payloads[0], &payload); err != nil {
		t.Fatalf("unmarshaling webhook payload: %v", err)
	}
	if len(payload.Embeds) != 1 || len(payload.Embeds[0].Fields) != 3 {
		t.Fatalf("expected 1 embed with 3 fields, got %+v", payload)
	}
	if !strings.Contains(payload.Embeds[0].Footer.Text, "Offline: 1") {
		t.Errorf("expected footer naming 1 offline service, got %q", payload.Embeds[0].Footer.Text)
	}

	// 6. The status API serves the same snapshot.
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	resp, err := http.Get(api.URL + "/api/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /api/report, got %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			Total   int `json:"total"`
			Online  int `json:"online"`
			Offline int `json:"offline"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Total != 3 || body.Data.Online != 2 || body.Data.Offline != 1 {
		t.Errorf("unexpected report counts: %+v", body.Data)
	}

	// 7. Metrics reflect the cycle.
	mresp, err := http.Get(api.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer mresp.Body.Close()
	exposition, _ := io.ReadAll(mresp.Body)
	if !strings.Contains(string(exposition), `availscan_service_up{service="failing-api"} 0`) {
		t.Errorf("expected failing-api to be down in metrics exposition")
	}
}

// TestIntegration_AllOnlineSkipsNotification verifies the quiet path.
func TestIntegration_AllOnlineSkipsNotification(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	var calls int
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	services := []config.Service{
		{Name: "healthy-api", Type: "http", Target: healthy.URL},
	}
	sc := scanner.New(services, prober.New(5*time.Second))
	runner := scheduler.New(sc, notify.New(hook.URL, nil), time.Hour, nil)

	runner.RunCycle(context.Background())

	if calls != 0 {
		t.Errorf("expected no notification when all services online, got %d", calls)
	}
}
