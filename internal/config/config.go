// Package config loads the tpa2016d daemon configuration from a JSON file
// and watches it for changes. Device register state is never persisted here;
// the file only carries daemon-level settings.
package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Bus backend names accepted in the "bus" field.
const (
	BusI2C    = "i2c"    // Linux i2c-dev ioctl transport
	BusPeriph = "periph" // periph.io transport
	BusMock   = "mock"   // in-memory mock, no hardware required
)

// Config holds the daemon settings.
type Config struct {
	ListenAddr       string `json:"listen_addr"`
	Bus              string `json:"bus"`
	I2CDevice        string `json:"i2c_device"`         // for bus "i2c"
	PeriphBus        string `json:"periph_bus"`         // for bus "periph", "" = first available
	FaultPollSeconds int    `json:"fault_poll_seconds"` // 0 disables the fault monitor
	StartupPreset    string `json:"startup_preset"`     // applied once at bring-up, "" = none
	Debug            bool   `json:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:       ":8090",
		Bus:              BusI2C,
		I2CDevice:        "/dev/i2c-1",
		FaultPollSeconds: 5,
	}
}

// FaultPollInterval returns the fault monitor period, or 0 when disabled.
func (c Config) FaultPollInterval() time.Duration {
	if c.FaultPollSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FaultPollSeconds) * time.Second
}

// Load reads the config file at path. A missing file yields the defaults;
// a corrupt file logs a warning and yields the defaults, matching the
// behavior of the rest of the daemon's stores.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config: corrupt JSON config, using defaults", "path", path, "err", err)
		return Default(), nil
	}
	return cfg, nil
}

// Watch re-reads the config file whenever it is written or recreated and
// invokes onChange with the new configuration. It blocks until ctx-style
// cancellation via the returned stop function or a watcher failure.
func Watch(path string, onChange func(Config)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					cfg, err := Load(path)
					if err != nil {
						slog.Warn("config: reload failed", "path", path, "err", err)
						continue
					}
					slog.Info("config: reloaded", "path", path)
					onChange(cfg)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config: watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
