package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"availscan/internal/config"
	"availscan/internal/notify"
	"availscan/internal/prober"
	"availscan/internal/scanner"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print a summary report",
		RunE:  runScan,
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return executeScan(cmd.OutOrStdout(), cfg)
}

func executeScan(out io.Writer, cfg *config.Config) error {
	p := prober.New(cfg.Scan.Timeout.Duration)
	sc := scanner.New(cfg.Services, p)
	sc.SetOnResult(progressPrinter(out))

	fmt.Fprintf(out, "Availability Scanner - Service Status Monitor\n")
	fmt.Fprintf(out, "Scan Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	report := sc.Scan(context.Background())

	fmt.Fprintln(out)
	renderReport(out, report)

	notify.New(cfg.Webhook.URL, nil).Notify(context.Background(), report)

	if !report.AllOnline() {
		return fmt.Errorf("one or more services are offline")
	}
	return nil
}

func statusText(available bool) string {
	if available {
		return "✅ Online"
	}
	return "❌ Offline"
}

func progressPrinter(out io.Writer) func(prober.CheckResult) {
	return func(r prober.CheckResult) {
		fmt.Fprintf(out, "Checking %s... %s\n", r.Service, statusText(r.Available))
	}
}

func renderReport(out io.Writer, report scanner.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tSTATUS\tDETAIL\tLATENCY")
	for _, res := range report.Results {
		lat := "—"
		if res.Latency > 0 {
			lat = res.Latency.Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			res.Service,
			res.StatusLabel(),
			res.Detail,
			lat,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal Services Checked: %d\n", report.Total())
	fmt.Fprintf(out, "Online: %d (%.1f%%)\n", report.Online(), report.OnlinePercent())
	fmt.Fprintf(out, "Offline: %d (%.1f%%)\n", report.Offline(), report.OfflinePercent())
}
