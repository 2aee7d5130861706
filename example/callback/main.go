package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/SNMPFlow/pkg/snmpflow"
)

func main() {
	flow, err := snmpflow.Conf("./scraper.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(batch []snmpflow.Point) error {
		for _, p := range batch {
			fmt.Printf("%s %s host=%s iface=%s fields=%v\n",
				p.Time.Format(time.RFC3339),
				p.Measurement,
				p.Tags["hostname"],
				p.Tags["interface"],
				p.Fields,
			)
		}
		return nil
	}

	if err := flow.Run(ctx, snmpflow.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
