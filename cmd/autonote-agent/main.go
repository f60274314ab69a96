// Package main provides the AutoNote page agent application. It attaches
// to a live browser page (or parses a saved one), connects to the
// AutoNote background service, and runs the capture overlay and QuickDock
// surfaces in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/v6582374-netizen/Auto-note/pkg/browser"
	"github.com/v6582374-netizen/Auto-note/pkg/capture"
	appconfig "github.com/v6582374-netizen/Auto-note/pkg/config"
	"github.com/v6582374-netizen/Auto-note/pkg/gateway"
	"github.com/v6582374-netizen/Auto-note/pkg/logging"
	"github.com/v6582374-netizen/Auto-note/pkg/tui"
)

const version = "0.1.0" // Version of the AutoNote page agent

// handshakeTimeout bounds the service capability handshake.
const handshakeTimeout = 15 * time.Second

// Config holds the application configuration
type Config struct {
	PageURL     string
	CDPEndpoint string
	HTMLPath    string
	Endpoint    string
	Origin      string
	ConfigPath  string
	Headless    bool
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("autonote-agent v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if runErr := run(config); runErr != nil {
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.PageURL, "url", "", "Page URL to open (or the base URL for -html)")
	flag.StringVar(&config.CDPEndpoint, "cdp", "", "CDP endpoint of a running browser to attach to (e.g. http://127.0.0.1:9222)")
	flag.StringVar(&config.HTMLPath, "html", "", "Path to a saved HTML file to capture offline")
	flag.StringVar(&config.Endpoint, "endpoint", "", "Background service WebSocket endpoint (overrides config)")
	flag.StringVar(&config.Origin, "origin", "", "WebSocket handshake origin (overrides config)")
	flag.StringVar(&config.ConfigPath, "config", "", "Config file path (default: ~/.autonote/config.yaml)")
	flag.BoolVar(&config.Headless, "headless", false, "Launch the browser headless")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "autonote-agent - the AutoNote in-page agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: autonote-agent [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  autonote-agent -url https://example.com/article\n")
		fmt.Fprintf(os.Stderr, "  autonote-agent -cdp http://127.0.0.1:9222\n")
		fmt.Fprintf(os.Stderr, "  autonote-agent -html saved.html -url https://example.com/article\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	modes := 0
	if c.PageURL != "" && c.HTMLPath == "" {
		modes++
	}
	if c.CDPEndpoint != "" {
		modes++
	}
	if c.HTMLPath != "" {
		modes++
	}
	if modes == 0 {
		return fmt.Errorf("one of -url, -cdp, or -html is required")
	}
	if modes > 1 {
		return fmt.Errorf("-url, -cdp, and -html are mutually exclusive (use -url with -html only for the base URL)")
	}
	if c.HTMLPath != "" {
		if _, err := os.Stat(c.HTMLPath); err != nil {
			return fmt.Errorf("html file error: %w", err)
		}
	}
	return nil
}

// run executes the main application logic
func run(config *Config) error {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	logger, err := logging.NewLogger("agent")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Infof("autonote-agent v%s starting", version)

	doc, cleanup, err := openDocument(config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	endpoint, origin := resolveService(config)
	conn, err := gateway.DialWebSocket(endpoint, origin)
	if err != nil {
		return fmt.Errorf("failed to connect to service at %s: %w", endpoint, err)
	}

	gw := gateway.New(conn, logger)
	go gw.Run()
	defer gw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
	hello, err := gw.Hello(ctx, doc.URL())
	cancel()
	if err != nil {
		return fmt.Errorf("service handshake failed: %w", err)
	}
	logger.Infof("connected to service, capabilities: %v", hello.Capabilities)

	executor := tui.NewExecutor(gateway.NewClient(gw), doc, logger)

	// Quit the UI cleanly on SIGINT/SIGTERM.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		executor.Quit()
	}()

	return executor.Run()
}

// openDocument prepares the capture document for the selected mode.
func openDocument(config *Config, logger *logging.Logger) (capture.Document, func(), error) {
	if config.HTMLPath != "" {
		raw, err := os.ReadFile(config.HTMLPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read html file: %w", err)
		}
		doc, err := browser.ParseHTML(string(raw), config.PageURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse html file: %w", err)
		}
		return doc, func() {}, nil
	}

	manager := browser.NewManager(logger)
	if err := manager.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize browser driver: %w", err)
	}
	cleanup := func() {
		if err := manager.Close(); err != nil {
			logger.Warnf("browser shutdown: %v", err)
		}
	}

	if config.CDPEndpoint != "" {
		page, err := manager.Attach(config.CDPEndpoint)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to attach to browser: %w", err)
		}
		return page, cleanup, nil
	}

	page, err := manager.Open(config.PageURL, config.Headless)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, cleanup, nil
}

// resolveService applies flag overrides on top of the config file.
func resolveService(config *Config) (endpoint, origin string) {
	endpoint = config.Endpoint
	origin = config.Origin

	if svc := appconfig.GetService(); svc != nil {
		if endpoint == "" {
			endpoint = svc.GetEndpoint()
		}
		if origin == "" {
			origin = svc.GetOrigin()
		}
	}
	if endpoint == "" {
		endpoint = appconfig.DefaultServiceEndpoint
	}
	if origin == "" {
		origin = appconfig.DefaultServiceOrigin
	}
	return endpoint, origin
}
