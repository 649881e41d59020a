// Command whorld runs the whorl continuous-ingestion daemon: it opens
// the configured engine, watches the source file, and repeats ingestion
// passes until signaled.
package main

import (
	"context"
	"log"

	"whorl/internal/config"
	"whorl/internal/daemonrun"
	_ "whorl/internal/zkfp/sim"
)

func main() {
	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("whorld: %v", err)
	}
}
