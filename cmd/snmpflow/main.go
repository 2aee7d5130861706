package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghalamif/SNMPFlow/pkg/snmpflow"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "snmpflow",
		Short: "Poll SNMP devices and forward interface statistics to InfluxDB",
		Long: `snmpflow walks the interface table of every configured device at a fixed
interval and writes the counters to InfluxDB 1.x (and optionally TimescaleDB).

The configuration file is taken from --config, then $SNMP_TO_INFLUX_CONFIG_FILE,
then ./scraper.yaml.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := snmpflow.Conf(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return flow.Run(ctx)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to configuration file")

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single scrape cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := snmpflow.Conf(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rt, err := flow.StreamOUT()
			if err != nil {
				return err
			}
			defer rt.Shutdown(context.Background())

			report := rt.RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "devices=%d failed=%d points=%d written=%d spooled=%d dropped=%d\n",
				report.Devices, report.Failed, report.Collected, report.Written, report.Spooled, report.Dropped)
			return report.WriteErr
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration without polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				path = snmpflow.ConfigPath()
			}
			cfg, err := snmpflow.LoadConfig(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config %s looks good: %d devices\n", path, len(cfg.Devices))
			return nil
		},
	}

	var (
		statsURL      string
		statsInterval time.Duration
	)
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Poll the metrics endpoint of a running poller and print live counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamStats(ctx, cmd, statsURL, statsInterval)
		},
	}
	statsCmd.Flags().StringVar(&statsURL, "url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	statsCmd.Flags().DurationVar(&statsInterval, "interval", 5*time.Second, "Refresh interval")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the snmpflow version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snmpflow %s\n", version)
		},
	}

	root.AddCommand(onceCmd, validateCmd, statsCmd, versionCmd)
	return root
}

var statsTargets = []string{
	"snmpflow_device_scrapes_total",
	"snmpflow_device_failures_total",
	"snmpflow_points_written_total",
	"snmpflow_write_failures_total",
	"snmpflow_spool_size_bytes",
}

func streamStats(ctx context.Context, cmd *cobra.Command, url string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Streaming metrics from %s (Ctrl+C to stop)\n", url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			values, err := fetchMetrics(ctx, url)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "stats error: %v\n", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] scrapes=%.0f failures=%.0f written=%.0f write_failures=%.0f spool_bytes=%.0f\n",
				time.Now().Format(time.RFC3339),
				values["snmpflow_device_scrapes_total"],
				values["snmpflow_device_failures_total"],
				values["snmpflow_points_written_total"],
				values["snmpflow_write_failures_total"],
				values["snmpflow_spool_size_bytes"],
			)
		}
	}
}

func fetchMetrics(ctx context.Context, url string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return parseMetrics(bufio.NewScanner(resp.Body))
}

func parseMetrics(scanner *bufio.Scanner) (map[string]float64, error) {
	values := make(map[string]float64, len(statsTargets))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, key := range statsTargets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					values[key] = value
				}
			}
		}
	}
	return values, scanner.Err()
}
