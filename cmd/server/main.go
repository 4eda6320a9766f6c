// Arena Fight Server - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"arena-game/internal/config"
	"arena-game/internal/server"
	"arena-game/pkg/logger"
)

var (
	version    = "1.0.0"
	buildTime  = "dev"
	configPath = flag.String("config", "", "Path to JSON config file (optional)")
	host       = flag.String("host", "", "Server bind address (overrides config)")
	port       = flag.Int("port", 0, "Server port (overrides config)")
	httpAddr   = flag.String("http-addr", "", "Gateway listen address for /ws, /metrics, /healthz (overrides config)")
	logLevel   = flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	logDir     = flag.String("log-dir", "", "Log directory (overrides config)")
	help       = flag.Bool("help", false, "Show help information")
	ver        = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *help {
		showHelp()
		return
	}
	if *ver {
		showVersion()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(&cfg)

	if err := initLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Server.Info("Starting Arena Fight Server v%s", version)

	gameServer := server.NewServer(cfg)
	setupGracefulShutdown(gameServer)

	logger.Server.Info("Starting server on %s", cfg.Addr())
	if err := gameServer.Start(); err != nil {
		logger.Server.Fatal("Server failed to start: %v", err)
	}
}

// applyFlagOverrides lets flags win over the config file
func applyFlagOverrides(cfg *config.Config) {
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}
}

// initLogging sets up the logging system
func initLogging(cfg config.Config) error {
	logger.SetGlobalLogLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.LogDir != "" {
		if err := logger.InitializeFileLogging(cfg.LogDir); err != nil {
			// Console logging still works; do not fail startup over it
			logger.Server.Warn("Could not initialize file logging: %v", err)
		}
	}
	return nil
}

// setupGracefulShutdown handles graceful shutdown on interrupt signals
func setupGracefulShutdown(gameServer *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Server.Info("Received shutdown signal, stopping server...")
		gameServer.Stop()
		logger.Sync()
		os.Exit(0)
	}()
}

// showHelp displays help information
func showHelp() {
	fmt.Printf(`Arena Fight Server v%s

USAGE:
    %s [OPTIONS]

OPTIONS:
    -config string       Path to JSON config file (optional)
    -host string         Server bind address (default "0.0.0.0")
    -port int            Server port (default 12345)
    -http-addr string    Gateway address for /ws, /metrics, /healthz (default ":8080")
    -log-level string    Log level (DEBUG, INFO, WARN, ERROR) (default "INFO")
    -log-dir string      Log directory (default "./logs")
    -help                Show this help message
    -version             Show version information

EXAMPLES:
    # Start server with default settings
    %s

    # Start on a specific port
    %s -port 9000

    # Production setup
    %s -host 0.0.0.0 -port 12345 -log-level WARN -log-dir /var/log/arena

SERVER FEATURES:
    - TCP socket server with newline-delimited JSON messages
    - WebSocket gateway carrying the same protocol
    - Two-player rooms with first-come-first-served pairing
    - 60 TPS authoritative combat simulation and state broadcast
    - Automatic sweep of finished and stale rooms
    - Graceful shutdown handling
`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

// showVersion displays version information
func showVersion() {
	fmt.Printf(`Arena Fight Server
Version: %s
Build Time: %s
`, version, buildTime)
}
