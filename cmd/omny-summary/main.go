package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kkysen/omny-summary/internal/config"
	"github.com/kkysen/omny-summary/internal/db"
	"github.com/kkysen/omny-summary/internal/history"
	"github.com/kkysen/omny-summary/internal/report"
	log "github.com/sirupsen/logrus"
)

func main() {
	futureCard := flag.Bool("future-card", false, "Project savings under the future card discount scheme")
	configPath := flag.String("config", "", "Optional YAML config file")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <trip_history.csv|trip_history.zip>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	if err := initLogger(level); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	if err := run(context.Background(), os.Stdout, flag.Arg(0), cfg, *futureCard); err != nil {
		log.Fatalf("%v", err)
	}
}

// initLogger parses the level and configures logrus for stderr output.
func initLogger(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	return nil
}

func run(ctx context.Context, w io.Writer, path string, cfg *config.Config, futureCard bool) error {
	loc, err := config.Location()
	if err != nil {
		return fmt.Errorf("failed to load time zone: %w", err)
	}

	h, err := history.Load(path, loc)
	if err != nil {
		return err
	}
	log.Debugf("Loaded %d trips from %s", len(h.Trips), path)

	store, err := db.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := report.Build(ctx, store, h, cfg)
	if err != nil {
		return err
	}

	return summary.Print(w, futureCard)
}
