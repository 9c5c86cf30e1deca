package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/findosh/fundsim/internal/config"
	"github.com/findosh/fundsim/internal/logging"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/findosh/fundsim/internal/storage"
)

var (
	configFile = flag.String("config", "fundsim.toml", "Path to the TOML configuration file")
	logLevel   = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
)

// setup loads the configuration and configures logging for a command
func setup() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(*logLevel, "console")
	return cfg, nil
}

// openStore opens and migrates the catalog database
func openStore(cfg *config.Config) (*storage.DB, error) {
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// loadCatalog reads the catalog from file when given, from the database otherwise
func loadCatalog(cfg *config.Config, file string) (*catalog.Catalog, error) {
	if file != "" {
		result, err := catalog.NewService().LoadFile(file)
		if err != nil {
			return nil, err
		}
		return catalog.New(result.Funds), nil
	}

	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return catalog.Open(storage.NewFundRepository(db))
}

// printMarkdown renders md for the terminal, falling back to plain text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// parseYears reads a comma separated list of horizons ("1,3,5")
func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil || y < 0 {
			return nil, fmt.Errorf("invalid horizon %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}
