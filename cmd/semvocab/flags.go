package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigPath  string
	CatalogPath string
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool

	Command string
	Args    []string
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("SEMVOCAB_CONFIG", ""),
		"Path to configuration file (env: SEMVOCAB_CONFIG)")

	flag.StringVar(&cfg.CatalogPath, "catalog",
		getEnv("SEMVOCAB_CATALOG", ""),
		"Path to vocabulary catalog (env: SEMVOCAB_CATALOG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SEMVOCAB_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SEMVOCAB_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SEMVOCAB_LOG_FORMAT", "text"),
		"Log format: json, text (env: SEMVOCAB_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		cfg.Command = args[0]
		cfg.Args = args[1:]
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	validCommands := []string{"validate", "lookup", "annotate"}
	if cfg.Command == "" {
		return fmt.Errorf("no command given (expected one of: validate, lookup, annotate)")
	}
	if !contains(validCommands, cfg.Command) {
		return fmt.Errorf("unknown command: %s", cfg.Command)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Controlled Vocabulary Resolution

Usage: %s [options] <command> [args]

Commands:
  validate              Load every catalog vocabulary and report term counts
  lookup <query>...     Resolve queries to terms across the catalog
  annotate <spec>...    Build annotations from name or name=value specs

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Validate every vocabulary in a catalog
  %s --catalog=catalog.yaml validate

  # Resolve a term by name or accession
  %s --catalog=catalog.yaml lookup "m/z array" MS:1000040

  # Build an annotation with a value
  %s --catalog=catalog.yaml annotate "scan start time=25.1"

Version: %s
`, os.Args[0], os.Args[0], os.Args[0], Version)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
