package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/loreseek/internal/adapters/driven/config/file"
	"github.com/custodia-labs/loreseek/internal/adapters/driving/api"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// reloadDebounce coalesces the burst of filesystem events a checkpoint
// rebuild produces into a single registry reload.
const reloadDebounce = 2 * time.Second

var flagServeListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval API over HTTP",
	Long: `Serve loads every configured language checkpoint and exposes the
retrieval API. With watch enabled, checkpoint changes on disk trigger a
registry reload without dropping in-flight requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading checkpoints: %w", err)
	}

	addr := cfg.Server.Listen
	if flagServeListen != "" {
		addr = flagServeListen
	}
	server := api.NewServer(addr, registry)

	if cfg.Server.Watch {
		watcher, err := watchCheckpoints(ctx, cfg, server)
		if err != nil {
			return fmt.Errorf("watching checkpoint directory: %w", err)
		}
		defer watcher.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving %d language(s) on %s", registry.Len(), addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Shutdown(context.Background())
}

// watchCheckpoints reloads the registry when checkpoint artifacts change
// on disk. Reloads are debounced; a failed reload keeps the previous
// registry serving.
func watchCheckpoints(ctx context.Context, cfg *file.Config, server *api.Server) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(cfg.CheckpointDir); err != nil {
		watcher.Close()
		return nil, err
	}
	for _, lang := range cfg.ParsedLanguages() {
		// Language dirs may not exist yet; the root watch picks up
		// their creation.
		if err := watcher.Add(cfg.LanguageDir(lang)); err != nil {
			logger.Debug("Not watching %s yet: %v", cfg.LanguageDir(lang), err)
		}
	}

	go func() {
		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Remove) {
					continue
				}
				if strings.HasSuffix(event.Name, ".lock") || strings.Contains(event.Name, "-journal") || strings.Contains(event.Name, "-wal") || strings.Contains(event.Name, "-shm") {
					continue
				}
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				logger.Debug("Checkpoint change: %s", event)
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
					timerCh = timer.C
				} else {
					timer.Reset(reloadDebounce)
				}

			case <-timerCh:
				timer = nil
				timerCh = nil
				registry, err := buildRegistry(ctx, cfg)
				if err != nil {
					logger.Error("Reload failed, keeping previous registry: %v", err)
					continue
				}
				server.SwapRegistry(registry)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Checkpoint watcher: %v", err)
			}
		}
	}()

	return watcher, nil
}
