package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/Xunop/e-library/internal/api/v1"
	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/notify"
	"github.com/Xunop/e-library/internal/server"
	"github.com/Xunop/e-library/internal/storage"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
	"github.com/Xunop/e-library/internal/version"
	"github.com/Xunop/e-library/internal/worker"
)

const (
	greetingBanner = `
███████       ██      ██ ██████  ██████   █████  ██████  ██    ██
██            ██      ██ ██   ██ ██   ██ ██   ██ ██   ██  ██  ██
█████   █████ ██      ██ ██████  ██████  ███████ ██████    ████
██            ██      ██ ██   ██ ██   ██ ██   ██ ██   ██    ██
███████       ███████ ██ ██████  ██   ██ ██   ██ ██   ██    ██
`
	shutdownTimeout = 10 * time.Second
)

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:     "e-library",
		Short:   "E-Library is a library lending system",
		Version: version.GetCurrentVersion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOptions(cmd); err != nil {
				return err
			}
			return run()
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (toml, yaml or json)")
	rootCmd.Flags().StringVar(&host, "host", "", "address to listen on")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	rootCmd.Flags().StringVarP(&data, "data", "d", "", "data directory for the database and covers")
}

// loadOptions applies defaults, then the config file, then the environment,
// then the command line flags.
func loadOptions(cmd *cobra.Command) error {
	config.GetDefaultOptions()
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return err
		}
	}
	if _, err := config.LoadEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		config.Opts.Host = host
	}
	if cmd.Flags().Changed("port") {
		config.Opts.Port = port
	}
	if cmd.Flags().Changed("data") {
		config.Opts.Data = data
	}
	_, err := config.GetConfig()
	return err
}

func run() error {
	log.Logger = log.NewLogger()
	defer log.Logger.Sync()
	fmt.Print(greetingBanner)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		log.Error("Error opening database", zap.Error(err))
		return err
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		log.Error("Error migrating database", zap.Error(err))
		return err
	}

	s := store.NewStore(database.DB)
	if err := s.Ping(); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}

	hub := notify.NewHub()
	go hub.Run(ctx)

	service := lending.NewService(s, lending.WithNotifier(hub))
	pool := worker.NewPool(ctx, s, hub, config.Opts.WorkerPoolSize)
	go worker.NewOverdueScanner(service, pool, config.Opts.OverdueScanInterval).Run(ctx)

	covers := storage.NewLocalStorage(config.Opts.Data, config.Opts.CoverQuality)
	handler := v1.NewHandler(s, service, covers, hub)
	srv, err := server.StartServer(ctx, handler, s)
	if err != nil {
		log.Error("Error starting server", zap.Error(err))
		return err
	}

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
