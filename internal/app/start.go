package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/pomodoro"
	"github.com/krisk248/flowmode/internal/probe"
	"github.com/krisk248/flowmode/internal/server"
	"github.com/krisk248/flowmode/internal/store"
	"github.com/krisk248/flowmode/internal/tracker"
)

var (
	startDaemon      bool
	startDaemonChild bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Run the tracking daemon",
		Long: `Start the tracker: sample the focused window, record time for
whitelisted applications, and serve the local API used by the other
commands and the dashboard.

Modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: detach into the background, 'flowmode stop' to stop

On startup any segment left open by a crash is closed at its last
flushed duration, so unclean shutdowns never inflate totals.`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  flowmode start

  # Run in the background
  flowmode start --daemon

  # Stop the background daemon
  flowmode stop`,
		RunE: runStart,
	}
)

func init() {
	startCmd.Flags().BoolVar(&startDaemon, "daemon", false, "run as background daemon")
	startCmd.Flags().BoolVar(&startDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	startCmd.Flags().MarkHidden("daemon-child")
}

func runStart(cmd *cobra.Command, args []string) error {
	pidFile, err := pidFilePath()
	if err != nil {
		return err
	}

	if startDaemon {
		logFile, err := logFilePath()
		if err != nil {
			return err
		}
		if err := spawnDaemon(pidFile, logFile); err != nil {
			return err
		}
		fmt.Println("✓ Daemon started")
		fmt.Printf("  PID file: %s\n", pidFile)
		fmt.Printf("  Log file: %s\n", logFile)
		fmt.Println("\nTo stop: flowmode stop")
		return nil
	}

	return runDaemon(pidFile)
}

func runDaemon(pidFile string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// Recover from a previous unclean shutdown.
	orphans, err := st.CloseOrphanSegments()
	if err != nil {
		return fmt.Errorf("close orphan segments: %w", err)
	}
	if orphans > 0 {
		log.Warn().Int("count", orphans).Msg("closed orphan segments from unclean shutdown")
	}

	if !startDaemonChild {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
			return fmt.Errorf("write pid file: %w", err)
		}
	}
	defer os.Remove(pidFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr := tracker.New(st, probe.NewX11(), cfg, log.Logger)

	pm := pomodoro.New()
	pm.OnWorkComplete(func() {
		// Best effort: a failed counter write never stops the timer.
		if err := st.IncrementPomodoroDay(store.DayKey(time.Now())); err != nil {
			log.Warn().Err(err).Msg("record pomodoro completion failed")
		}
	})

	srv := server.New(st, tr, pm, cfg, log.Logger)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	trackerDone := make(chan error, 1)
	httpErr := make(chan error, 1)

	go func() {
		trackerDone <- tr.Run(ctx)
	}()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				pm.Tick(now)
			}
		}
	}()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("api listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	log.Info().Int("rules", len(cfg.Rules)).Msg("flowmode started")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-httpErr:
		log.Error().Err(runErr).Msg("api server failed")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("api shutdown")
	}

	// Wait for the tracker's final flush.
	if err := <-trackerDone; err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// setupLogging configures the global zerolog logger for CLI use.
func setupLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
