package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/call"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/chat"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/config"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/directory"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/gateway"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/logger"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/media"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/stats"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/store"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	configPath     string
	catalogPath    string
	logLevel       string
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "", "server address (overrides config)")
	flag.StringVar(&configPath, "config", "", "path to TOML config file")
	flag.StringVar(&catalogPath, "catalog", "", "path to an alternate TOML catalog")
	flag.StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalln("config:", err)
	}
	if addr != "" {
		cfg.ServerAddr = addr
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if len(allowedOrigins) > 0 {
		cfg.AllowedOrigins = allowedOrigins
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalln("logger:", err)
	}
	defer zlog.Sync()

	dir := directory.Default()
	if cfg.CatalogPath != "" {
		dir, err = directory.LoadFile(cfg.CatalogPath)
		if err != nil {
			zlog.Fatalf("load catalog: %v", err)
		}
	}

	mux := http.NewServeMux()
	statsUpdater := stats.NewStatsUpdater(mux)

	messageStore := store.New(dir)
	session := chat.NewSession(dir, messageStore, &media.SimProvider{}, statsUpdater, zlog)

	sim := call.NewSimulator(dir.CurrentUser(), dir.OnlinePeers(dir.CurrentUser().Id), call.Config{
		ConnectDelay:  cfg.Call.ConnectDelay,
		TeardownDelay: cfg.Call.TeardownDelay,
		TickInterval:  cfg.Call.TickInterval,
		IncomingMin:   cfg.Call.IncomingMin,
		IncomingMax:   cfg.Call.IncomingMax,
	}, statsUpdater, zlog)

	app := gateway.NewApp(mux, zlog, session, sim, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		zlog.Infof("received signal: %s", sig)
	case err := <-errCh:
		zlog.Errorf("server: %v", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := app.Shutdown(shutDownCtx); err != nil {
		zlog.Fatalf("HTTP server shutdown: %v", err)
	}

	zlog.Info("shutting down call simulator...")
	sim.Close()

	zlog.Info("shutdown complete")
}
