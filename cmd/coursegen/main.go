// Command coursegen is the terminal frontend for the course generator proxy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"coursegen-backend/internal/client"
	"coursegen-backend/internal/logger"
)

func main() {
	apiURL := flag.String("api", envOrDefault("COURSEGEN_API", client.DefaultBaseURL), "base URL of the course proxy")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	verbose := flag.Bool("v", false, "log diagnostics to stderr")
	flag.Parse()

	logg := logger.NewNop()
	if *verbose {
		var err error
		if logg, err = logger.New("development"); err != nil {
			log.Fatalf("✗ Logger initialization failed: %v", err)
		}
	}
	defer logg.Sync()

	app := newApp(client.New(*apiURL, *timeout), os.Stdin, os.Stdout, logg)
	if err := app.run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "coursegen: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
