package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"availscan/internal/scanner"
)

// Webhook sends a scan report to a Discord-compatible webhook endpoint.
// A nil *Webhook is a valid no-op notifier.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// New creates a Webhook notifier, or nil if no URL is configured. Pass nil
// logger to use the default logger.
func New(url string, logger *slog.Logger) *Webhook {
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Footer      embedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
)

// Notify sends one notification for the report. When every service is
// online the send is skipped entirely to avoid noise. Delivery is best
// effort: transport failures and non-2xx responses are logged, never
// escalated.
func (w *Webhook) Notify(ctx context.Context, report scanner.Report) {
	if w == nil {
		return
	}
	if report.AllOnline() {
		w.logger.Info("all services online, skipping notification")
		return
	}

	body, err := json.Marshal(buildPayload(report))
	if err != nil {
		w.logger.Error("marshaling webhook payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("creating webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Error("sending webhook", "url", w.url, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.logger.Warn("webhook returned non-2xx status", "status", resp.StatusCode)
		return
	}
	w.logger.Info("notification sent", "offline", report.Offline())
}

func buildPayload(report scanner.Report) webhookPayload {
	color := colorGreen
	if !report.AllOnline() {
		color = colorRed
	}

	fields := make([]embedField, 0, report.Total())
	for _, res := range report.Results {
		symbol := "✅"
		if !res.Available {
			symbol = "❌"
		}
		fields = append(fields, embedField{
			Name:   fmt.Sprintf("%s %s", symbol, res.Service),
			Value:  fmt.Sprintf("**%s** - %s", res.StatusLabel(), res.Detail),
			Inline: true,
		})
	}

	return webhookPayload{
		Embeds: []embed{{
			Title:       "🔍 Availability Scanner Report",
			Description: fmt.Sprintf("Scan completed at %s", report.StartedAt.Format("2006-01-02 15:04:05")),
			Color:       color,
			Fields:      fields,
			Footer: embedFooter{
				Text: fmt.Sprintf("Total: %d | Online: %d (%.1f%%) | Offline: %d (%.1f%%)",
					report.Total(),
					report.Online(), report.OnlinePercent(),
					report.Offline(), report.OfflinePercent(),
				),
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
}
