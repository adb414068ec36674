package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodtune/apptime/internal/activity"
	"github.com/goodtune/apptime/internal/api"
	"github.com/goodtune/apptime/internal/config"
	"github.com/goodtune/apptime/internal/metrics"
	"github.com/goodtune/apptime/internal/probe"
	"github.com/goodtune/apptime/internal/systemd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start apptime server",
	Long:  `Start sampling the focused application and serve the activity API and metrics endpoints.`,
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting apptime")

	// Check for systemd socket activation
	sdListeners, err := systemd.GetListeners()
	if err != nil {
		return fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if sdListeners.Activated {
		logger.Info().Msg("Running with systemd socket activation")
	}

	// Initialize storage
	store, err := openStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	logger.Info().
		Str("type", cfg.Storage.Type).
		Str("path", cfg.Storage.Path).
		Msg("Storage initialized")

	// Initialize focus probe
	focusProbe, err := probe.New(cfg.Tracking.Probe, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize focus probe: %w", err)
	}

	// Initialize ledger and sampler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := activity.NewLedger(ctx, activity.Options{
		Store: store.Snapshots(),
		Probe: focusProbe,
	}, logger)

	sampler := activity.NewSampler(ledger, parseDuration(cfg.Tracking.SampleInterval, activity.DefaultSampleInterval), logger)
	sampler.Start()

	// Initialize API Server
	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.APIPort)
	apiServer := api.NewServer(apiAddr, ledger, logger)
	if sdListeners.API != nil {
		apiServer.SetListener(sdListeners.API)
	}

	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// Initialize Metrics Server
	metricsAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.MetricsPort)
	metricsServer := metrics.NewServer(metricsAddr, logger)
	if sdListeners.Metrics != nil {
		metricsServer.SetListener(sdListeners.Metrics)
	}

	if err := metricsServer.Start(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	logger.Info().Msg("apptime startup complete")
	logger.Info().Msgf("API: http://%s/api/activity/stats", apiAddr)
	logger.Info().Msgf("Metrics: http://%s/metrics", metricsAddr)

	// Notify systemd that we're ready
	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd ready notification")
	}

	stopWatchdog := startWatchdog(systemd.WatchdogInterval())

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan

		if sig == syscall.SIGHUP {
			logger.Info().Msg("SIGHUP received, sampling now")
			if _, _, err := ledger.Sample(ctx); err != nil {
				logger.Error().Err(err).Msg("Failed to sample activity")
			}
			continue
		}

		logger.Info().Msg("Shutdown signal received, gracefully stopping...")
		break
	}

	// Notify systemd that we're stopping
	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd stopping notification")
	}

	close(stopWatchdog)
	sampler.Stop()

	if err := apiServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping API server")
	}

	if err := metricsServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping metrics server")
	}

	logger.Info().Msg("apptime stopped")

	return nil
}

// startWatchdog pings the systemd watchdog until the returned channel is
// closed. A zero interval disables it.
func startWatchdog(interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	if interval <= 0 {
		return stop
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := systemd.NotifyWatchdog(); err != nil {
					log.Warn().Err(err).Msg("Failed to send systemd watchdog notification")
				}
			case <-stop:
				return
			}
		}
	}()
	return stop
}

// parseDuration parses a duration string with a fallback
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
