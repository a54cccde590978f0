// Command tpa2016d exposes a TPA2016D2 audio amplifier over a small HTTP
// control API. Run with --bus mock to use simulated hardware (no I2C device
// required).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/soundctl/tpa2016-go/internal/api"
	"github.com/soundctl/tpa2016-go/internal/config"
	"github.com/soundctl/tpa2016-go/internal/controller"
	"github.com/soundctl/tpa2016-go/internal/events"
	"github.com/soundctl/tpa2016-go/internal/hardware"
	"github.com/soundctl/tpa2016-go/internal/monitor"
	"github.com/soundctl/tpa2016-go/internal/zeroconf"
)

func main() {
	var (
		cfgPath = flag.String("config", "/etc/tpa2016d.json", "config file path")
		addr    = flag.String("addr", "", "HTTP listen address (overrides config)")
		busName = flag.String("bus", "", "bus backend: i2c, periph or mock (overrides config)")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read config %s: %v\n", *cfgPath, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *busName != "" {
		cfg.Bus = *busName
	}
	if *debug {
		cfg.Debug = true
	}

	// Configure logging; the level is a LevelVar so config reloads can
	// change it at runtime.
	level := new(slog.LevelVar)
	setLogLevel(level, cfg)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus, err := openBus(cfg)
	if err != nil {
		slog.Error("bus initialization failed", "backend", cfg.Bus, "err", err)
		os.Exit(1)
	}

	evts := events.NewBus()
	ctrl := controller.New(hardware.New(bus), evts)

	// Bring-up: pull the device's actual register state into the shadow,
	// then apply the configured startup preset if any.
	if _, appErr := ctrl.Sync(); appErr != nil {
		slog.Warn("initial register sync failed", "err", appErr)
	}
	if cfg.StartupPreset != "" {
		if _, appErr := ctrl.LoadPreset(cfg.StartupPreset); appErr != nil {
			slog.Warn("startup preset failed", "preset", cfg.StartupPreset, "err", appErr)
		} else {
			slog.Info("startup preset applied", "preset", cfg.StartupPreset)
		}
	}

	// Config hot-reload (log level only; bus and listen address need a restart).
	stopWatch, err := config.Watch(*cfgPath, func(newCfg config.Config) {
		setLogLevel(level, newCfg)
	})
	if err != nil {
		slog.Warn("config watch unavailable", "err", err)
	} else {
		defer stopWatch()
	}

	// Background fault monitor
	mon := monitor.New(ctrl, cfg.FaultPollInterval())
	go mon.Start(ctx)

	// Zeroconf mDNS registration
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "tpa2016"
	}
	zc := zeroconf.New(hostname, listenPort(cfg.ListenAddr))
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewRouter(ctrl, evts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("tpa2016d listening", "addr", cfg.ListenAddr, "bus", cfg.Bus)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	// Take the bus handle back from the controller and close it.
	if closer, ok := ctrl.Release().(io.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("bus close error", "err", err)
		}
	}
}

func openBus(cfg config.Config) (hardware.Bus, error) {
	switch cfg.Bus {
	case config.BusMock:
		slog.Info("using mock bus (no hardware)")
		return hardware.NewMockBus(), nil
	case config.BusPeriph:
		return hardware.NewPeriphBus(cfg.PeriphBus)
	case config.BusI2C:
		return hardware.NewI2CBus(cfg.I2CDevice)
	default:
		return nil, fmt.Errorf("unknown bus backend %q", cfg.Bus)
	}
}

func setLogLevel(level *slog.LevelVar, cfg config.Config) {
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// listenPort extracts the port from a listen address for mDNS registration.
func listenPort(addr string) int {
	port := 8090
	if parts := strings.SplitN(addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	return port
}
