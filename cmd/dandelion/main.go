package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Roger0222/dandelion/internal/config"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/router"
	"github.com/Roger0222/dandelion/internal/routes"
	"github.com/Roger0222/dandelion/internal/setup"
	"github.com/Roger0222/dandelion/internal/storage/pg"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var (
	configFolder string
	basePath     string
)

var rootCmd = &cobra.Command{
	Use:           "dandelion",
	Short:         "Dandelion campus app server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the login, registration and home pages",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users table in the configured Postgres database",
	Long: `Applies the embedded goose migrations to the database named in private.yaml.
Only needed when profile_store is postgres; serve also migrates on start.`,
	RunE: runMigrate,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the page route table",
	RunE:  runRoutes,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	routesCmd.Flags().StringVar(&basePath, "base_path", "/dandelion", "base path the table is rooted at")

	rootCmd.AddCommand(serveCmd, migrateCmd, routesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFolder)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.Close()

	server := &http.Server{
		Addr:         cfg.Public.ListenAddr,
		Handler:      router.New(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("starting server", "addr", server.Addr, "base_path", cfg.Public.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	storage, err := pg.New(cfg.Private.Pg)
	if err != nil {
		return err
	}
	defer storage.Cleanup()

	if err := storage.Migrate(cmd.Context()); err != nil {
		return err
	}
	logger.Log.Info("migrations applied", "dbname", cfg.Private.Pg.Dbname)
	return nil
}

func runRoutes(cmd *cobra.Command, args []string) error {
	table := routes.New(basePath)
	if err := table.Check(2); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tVIEW\tREDIRECT")
	for _, e := range table.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Path, e.View, e.Target)
	}
	return w.Flush()
}
