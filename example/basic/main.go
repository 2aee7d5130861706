package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	snmpflow "github.com/ghalamif/SNMPFlow"
)

// cycleCounter adds a poller_cycles point next to the device points so the
// database shows when the poller itself stopped running.
type cycleCounter struct {
	host   string
	cycles int64
}

func (c *cycleCounter) Name() string { return "cycles" }

func (c *cycleCounter) Points(context.Context) ([]*snmpflow.Point, error) {
	c.cycles++
	return []*snmpflow.Point{{
		Measurement: "poller_cycles",
		Tags:        map[string]string{"hostname": c.host},
		Fields:      map[string]any{"count": c.cycles},
		Time:        time.Now(),
	}}, nil
}

func main() {
	// An empty path resolves $SNMP_TO_INFLUX_CONFIG_FILE, then ./scraper.yaml.
	flow, err := snmpflow.Conf("")
	if err != nil {
		log.Fatalf("load config %s: %v", snmpflow.ConfigPath(), err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "snmpflow"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flow.StreamIN(snmpflow.StreamInSource(&cycleCounter{host: host}))
	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("poller exited: %v", err)
	}
}
