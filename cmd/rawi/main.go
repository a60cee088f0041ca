// Package main is the rawi CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/rawi/internal/analysis"
	"github.com/hyperjump/rawi/internal/bulk"
	"github.com/hyperjump/rawi/internal/config"
	"github.com/hyperjump/rawi/internal/directory"
	"github.com/hyperjump/rawi/internal/ingest"
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/internal/server"
	"github.com/hyperjump/rawi/internal/similarity"
	"github.com/hyperjump/rawi/internal/storage"
	"github.com/hyperjump/rawi/internal/watcher"
	"github.com/hyperjump/rawi/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/rawi/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence, so running from the project dir
// picks up the project's config. Returns the config and the path actually
// loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "similar":
		runSimilar()
	case "import":
		runImport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("rawi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`rawi - hadith narrator chain analysis

Usage:
  rawi server  [flags]            Start the HTTP API server
  rawi analyze [flags] <text>     Analyze a hadith text for narrator chains
  rawi similar [flags] <text>     Find similar texts in search history
  rawi import  [flags] <path>...  Import corpus files or directories
  rawi status  [flags]            Show narrator and history counts
  rawi version                    Print version
  rawi help                       Show this help

Common flags:
  -config <path>   config file (default ` + defaultConfigPath + `)
  -server <url>    server URL for analyze/similar/status; empty uses the
                   local database directly
`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if len(cfg.Import.Directories) > 0 {
		ing := components.Ingester
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.NewWatcher(
			cfg.Import.Directories,
			cfg.Import.Extensions,
			func(path string) {
				if _, err := ing.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		logger.Info("import watcher started", zap.Strings("directories", cfg.Import.Directories))
	}

	srv := server.NewServer(
		components.Analyzer,
		components.Similarity,
		components.Jobs,
		components.Directory,
		components.Storage,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use local database)")
	_ = fs.Parse(os.Args[2:])

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: rawi analyze [flags] <text>")
		os.Exit(1)
	}

	var result *models.TextAnalysis
	if *serverURL != "" {
		var err error
		result, err = analyzeViaHTTP(*serverURL, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components := mustComponents(*configPath)
		defer components.Close()
		var err error
		result, err = components.Analyzer.Analyze(context.Background(), text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
			os.Exit(1)
		}
	}
	printJSON(result)
}

func runSimilar() {
	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use local database)")
	threshold := fs.Float64("threshold", 0, "minimum similarity (0 = default 0.7)")
	limit := fs.Int("limit", 0, "maximum matches (0 = default 10)")
	_ = fs.Parse(os.Args[2:])

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: rawi similar [flags] <text>")
		os.Exit(1)
	}
	query := &models.SimilarQuery{Text: text, Threshold: *threshold, Limit: *limit}

	if *serverURL != "" {
		out, err := similarViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Similar search failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(out)
		return
	}

	components := mustComponents(*configPath)
	defer components.Close()
	matches, err := components.Similarity.FindSimilar(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Similar search failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(map[string]interface{}{"matches": matches, "count": len(matches)})
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rawi import [flags] <file-or-directory>...")
		os.Exit(1)
	}

	components := mustComponents(*configPath)
	defer components.Close()

	total := 0
	for _, path := range fs.Args() {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			continue
		}
		var n int
		if info.IsDir() {
			n, err = components.Ingester.IngestDirectory(context.Background(), path)
		} else {
			n, err = components.Ingester.IngestFile(context.Background(), path)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import of %s failed: %v\n", path, err)
			continue
		}
		total += n
	}
	fmt.Printf("Imported %d texts\n", total)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use local database)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		out, err := getJSON(*serverURL + "/api/v1/status")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(out)
		return
	}

	components := mustComponents(*configPath)
	defer components.Close()
	ctx := context.Background()
	narrators, err := components.Storage.CountNarrators(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	searches, err := components.Storage.CountSearches(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(map[string]int64{"narrators": narrators, "searches": searches})
}

// Components bundles everything a command needs, with a single Close.
type Components struct {
	Storage    storage.Storage
	NameIndex  *directory.NameIndex
	Directory  *directory.Directory
	Analyzer   *analysis.Engine
	Similarity *similarity.Engine
	Jobs       *bulk.Orchestrator
	Ingester   *ingest.Ingester
}

func (c *Components) Close() {
	if c.NameIndex != nil {
		_ = c.NameIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLStorage(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	dirOpts := []directory.Option{
		directory.WithRetry(cfg.Directory.MaxRetries,
			time.Duration(cfg.Directory.RetryBackoffMS)*time.Millisecond),
	}
	if debug && logger != nil {
		dirOpts = append(dirOpts, directory.WithLogger(logger))
	}
	var nameIndex *directory.NameIndex
	if cfg.Directory.FuzzyOrDefault() {
		nameIndex, err = directory.NewNameIndex(cfg.Storage.NameIndexPath)
		if err != nil {
			// Lookups still work through the store, only typo tolerance is lost.
			if logger != nil {
				logger.Warn("name index unavailable, fuzzy matching disabled", zap.Error(err))
			}
		} else {
			dirOpts = append(dirOpts, directory.WithNameIndex(nameIndex))
		}
	}
	dir := directory.NewDirectory(store, dirOpts...)

	analyzerOpts := []analysis.Option{}
	if debug && logger != nil {
		analyzerOpts = append(analyzerOpts, analysis.WithLogger(logger))
	}
	analyzer := analysis.NewEngine(dir, analyzerOpts...)

	jobOpts := []bulk.Option{
		bulk.WithThrottle(time.Duration(cfg.Bulk.ThrottleMS) * time.Millisecond),
		bulk.WithPreviewLength(cfg.Bulk.PreviewLength),
	}
	if logger != nil {
		jobOpts = append(jobOpts, bulk.WithLogger(logger))
	}

	ingestOpts := []ingest.Option{ingest.WithExtensions(cfg.Import.Extensions)}
	if logger != nil {
		ingestOpts = append(ingestOpts, ingest.WithLogger(logger))
	}

	return &Components{
		Storage:    store,
		NameIndex:  nameIndex,
		Directory:  dir,
		Analyzer:   analyzer,
		Similarity: similarity.NewEngine(store, cfg.Similarity.CorpusLimit),
		Jobs:       bulk.NewOrchestrator(store, analyzer, jobOpts...),
		Ingester:   ingest.NewIngester(store, ingestOpts...),
	}, nil
}

func mustComponents(configPath string) *Components {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize components: %v\n", err)
		os.Exit(1)
	}
	return components
}

func analyzeViaHTTP(serverURL, text string) (*models.TextAnalysis, error) {
	body, err := postViaHTTP(serverURL+"/api/v1/analyze", models.AnalyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	var result models.TextAnalysis
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func similarViaHTTP(serverURL string, query *models.SimilarQuery) (map[string]interface{}, error) {
	body, err := postViaHTTP(serverURL+"/api/v1/similar", query)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func postViaHTTP(url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func getJSON(url string) (map[string]interface{}, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
