// Package main implements the semvocab command line tool: loading a catalog
// of controlled vocabularies, validating them, resolving term queries, and
// building annotations.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/c360/semvocab/config"
	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/metric"
	"github.com/c360/semvocab/obo"
	"github.com/c360/semvocab/resolver"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "semvocab"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cliCfg.CatalogPath != "" {
		cfg.Catalog = cliCfg.CatalogPath
	}
	if cfg.Catalog == "" {
		return fmt.Errorf("no vocabulary catalog given (use --catalog or config)")
	}

	registry := metric.NewRegistry()
	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if serveErr := server.Start(); serveErr != nil {
				slog.Error("Metrics server stopped", "error", serveErr)
			}
		}()
		defer func() { _ = server.Stop() }()
		slog.Info("Metrics server started", "address", server.Address())
	}

	res, err := loadResolver(cfg, logger, registry)
	if err != nil {
		return err
	}

	switch cliCfg.Command {
	case "validate":
		return runValidate(res)
	case "lookup":
		return runLookup(res, cliCfg.Args)
	case "annotate":
		return runAnnotate(res, cliCfg.Args)
	}
	return fmt.Errorf("unknown command: %s", cliCfg.Command)
}

// loadResolver loads every catalog vocabulary in order and wires the
// resolver over them.
func loadResolver(cfg *config.Config, logger *slog.Logger, registry *metric.Registry) (*resolver.Resolver, error) {
	catalog, err := config.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	providers := make([]cv.Provider, 0, len(catalog.Vocabularies))
	for _, src := range catalog.Vocabularies {
		var opts []obo.Option
		if src.ID != "" {
			opts = append(opts, obo.WithVocabularyOption(cv.WithID(src.ID)))
		}
		if src.Name != "" {
			opts = append(opts, obo.WithVocabularyOption(cv.WithName(src.Name)))
		}

		start := time.Now()
		vocab, err := obo.LoadFile(src.Path, opts...)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary %s: %w", src.Path, err)
		}

		registry.Metrics.RecordParseDuration(vocab.ID(), time.Since(start))
		registry.Metrics.RecordTermsLoaded(vocab.ID(), vocab.Len())
		slog.Info("Loaded vocabulary",
			"id", vocab.ID(),
			"version", vocab.Version(),
			"terms", vocab.Len(),
			"path", src.Path)

		providers = append(providers, vocab)
	}

	return resolver.New(providers,
		resolver.WithLogger(logger),
		resolver.WithMetrics(registry),
		resolver.WithUnitValidation(cfg.Resolver.ValidateUnits),
		resolver.WithAmbiguousUnitWarnings(cfg.Resolver.WarnOnAmbiguousMissingUnits),
	), nil
}

// runValidate reports every loaded vocabulary. Loading already failed fast
// on syntax errors, so reaching this point means the catalog is sound.
func runValidate(res *resolver.Resolver) error {
	for _, p := range res.Providers() {
		vocab, ok := p.(*cv.Vocabulary)
		if !ok {
			fmt.Printf("%s\t(external provider)\n", p.ID())
			continue
		}
		fmt.Printf("%s\t%s\tversion=%s\tterms=%d\n",
			vocab.ID(), vocab.FullName(), vocab.Version(), vocab.Len())
	}
	fmt.Println("catalog OK")
	return nil
}

func runLookup(res *resolver.Resolver, queries []string) error {
	if len(queries) == 0 {
		return fmt.Errorf("lookup requires at least one query")
	}
	for _, query := range queries {
		term, source, err := res.TermWithSource(query)
		if err != nil {
			return fmt.Errorf("lookup %q: %w", query, err)
		}

		parents := term.Parents()
		parentIDs := make([]string, len(parents))
		for i, p := range parents {
			parentIDs[i] = p.ID
		}

		fmt.Printf("%s\t%s\tsource=%s", term.ID, term.Name, source.ID())
		if term.IsObsolete {
			fmt.Printf("\tobsolete")
		}
		if len(parentIDs) > 0 {
			fmt.Printf("\tis_a=%s", strings.Join(parentIDs, ","))
		}
		fmt.Println()
	}
	return nil
}

// runAnnotate builds annotations from "name" or "name=value" specs and
// prints them as JSON, one per line.
func runAnnotate(res *resolver.Resolver, specs []string) error {
	if len(specs) == 0 {
		return fmt.Errorf("annotate requires at least one spec")
	}
	for _, spec := range specs {
		var input any
		if name, value, found := strings.Cut(spec, "="); found {
			input = resolver.Pair{Name: name, Value: cv.InferValue(value)}
		} else {
			input = spec
		}

		param, err := res.BuildAnnotation(input)
		if err != nil {
			return fmt.Errorf("annotate %q: %w", spec, err)
		}

		out, err := json.Marshal(param)
		if err != nil {
			return fmt.Errorf("encode annotation: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}
