package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	snmpflow "github.com/ghalamif/SNMPFlow"
)

func main() {
	flow, err := snmpflow.Conf("./scraper.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, batches, closeBatches := snmpflow.NewChannelSink("fanout", 4)
	defer closeBatches()

	go summarize(batches)

	if err := flow.Run(ctx, snmpflow.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

// summarize prints how many interfaces each device reported per cycle.
func summarize(batches <-chan []snmpflow.Point) {
	for batch := range batches {
		perHost := map[string]int{}
		for _, p := range batch {
			if p.Measurement == "interface_stats" {
				perHost[p.Tags["hostname"]]++
			}
		}
		fmt.Printf("[%s] %d points, interfaces per host: %v\n", time.Now().Format(time.RFC3339), len(batch), perHost)
	}
}
