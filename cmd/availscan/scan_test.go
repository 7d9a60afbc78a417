package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"availscan/internal/config"
)

func testConfig(services ...config.Service) *config.Config {
	return &config.Config{
		Services: services,
		Scan: config.ScanConfig{
			Timeout:  config.Duration{Duration: 5 * time.Second},
			Interval: config.Duration{Duration: time.Hour},
		},
	}
}

func TestExecuteScan_AllOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(
		config.Service{Name: "myapi", Type: "http", Target: srv.URL},
	)

	var buf bytes.Buffer
	if err := executeScan(&buf, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Checking myapi... ✅ Online",
		"SERVICE",
		"myapi",
		"HTTP 200",
		"Total Services Checked: 1",
		"Online: 1 (100.0%)",
		"Offline: 0 (0.0%)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestExecuteScan_OfflineServiceFailsCommand(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	cfg := testConfig(
		config.Service{Name: "good", Type: "http", Target: up.URL},
		config.Service{Name: "bad", Type: "http", Target: down.URL},
	)

	var buf bytes.Buffer
	err := executeScan(&buf, cfg)
	if err == nil {
		t.Fatal("expected error when a service is offline")
	}

	output := buf.String()
	for _, want := range []string{
		"Checking bad... ❌ Offline",
		"HTTP 503",
		"Total Services Checked: 2",
		"Online: 1 (50.0%)",
		"Offline: 1 (50.0%)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestExecuteScan_OfflineServiceNotifiesWebhook(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	var calls int
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	cfg := testConfig(
		config.Service{Name: "bad", Type: "http", Target: down.URL},
	)
	cfg.Webhook.URL = hook.URL

	var buf bytes.Buffer
	if err := executeScan(&buf, cfg); err == nil {
		t.Fatal("expected error when a service is offline")
	}

	if calls != 1 {
		t.Errorf("expected exactly 1 webhook notification, got %d", calls)
	}
}

func TestExecuteScan_AllOnlineSkipsWebhook(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	var calls int
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	cfg := testConfig(
		config.Service{Name: "good", Type: "http", Target: up.URL},
	)
	cfg.Webhook.URL = hook.URL

	var buf bytes.Buffer
	if err := executeScan(&buf, cfg); err != nil {
		t.Fatal(err)
	}

	if calls != 0 {
		t.Errorf("expected no webhook notification when all online, got %d", calls)
	}
}

func TestExecuteScan_ProgressPrecedesSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(
		config.Service{Name: "first", Type: "http", Target: srv.URL},
		config.Service{Name: "second", Type: "http", Target: srv.URL},
	)

	var buf bytes.Buffer
	if err := executeScan(&buf, cfg); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	progressIdx := strings.Index(output, "Checking first")
	summaryIdx := strings.Index(output, "SERVICE")
	if progressIdx == -1 || summaryIdx == -1 || progressIdx > summaryIdx {
		t.Errorf("expected progress lines before summary table, got:\n%s", output)
	}
	if strings.Index(output, "Checking first") > strings.Index(output, "Checking second") {
		t.Errorf("expected progress in registration order, got:\n%s", output)
	}
}
