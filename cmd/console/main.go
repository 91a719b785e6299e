// console - terminal client for the middleware-manager backend API.
//
// Usage:
//
//	console middlewares list               - list middleware definitions
//	console resources list                 - list proxied resources
//	console services list                  - list service definitions
//	console datasource list                - list configured data sources
//
// Connection settings come from flags or from MMC_* environment variables
// (a .env file in the working directory is honored).
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/store"
)

var (
	flagAPIURL   string
	flagUsername string
	flagPassword string
	flagVerbose  bool
)

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:   "console",
		Short: "Middleware manager console",
		Long: `console - manage the middlewares, services and resources of a
middleware-manager backend from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", envOr("MMC_API_URL", "http://localhost:3456"), "backend API base URL")
	root.PersistentFlags().StringVar(&flagUsername, "username", os.Getenv("MMC_USERNAME"), "basic auth username")
	root.PersistentFlags().StringVar(&flagPassword, "password", os.Getenv("MMC_PASSWORD"), "basic auth password (prompted when a username is set and this is empty)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(middlewaresCmd(), servicesCmd(), resourcesCmd(), datasourceCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the process logger. Debug level is gated behind
// --verbose so normal CLI output stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newTransport builds the backend transport from the connection flags,
// prompting for a password when a username is set without one.
func newTransport() (*client.Transport, *slog.Logger, error) {
	logger := newLogger()
	slog.SetDefault(logger)

	password := flagPassword
	if flagUsername != "" && password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		os.Stderr.WriteString("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		os.Stderr.WriteString("\n")
		if err != nil {
			return nil, nil, err
		}
		password = string(raw)
	}

	transport, err := client.New(client.Config{
		BaseURL:  flagAPIURL,
		Username: flagUsername,
		Password: password,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return transport, logger, nil
}

// stores bundles the entity stores the subcommands operate on.
type stores struct {
	middlewares *store.MiddlewareStore
	services    *store.ServiceStore
	resources   *store.ResourceStore
	datasources *store.DataSourceStore
}

func newStores() (*stores, error) {
	transport, logger, err := newTransport()
	if err != nil {
		return nil, err
	}
	return &stores{
		middlewares: store.NewMiddlewareStore(transport, logger),
		services:    store.NewServiceStore(transport, logger),
		resources:   store.NewResourceStore(transport, logger),
		datasources: store.NewDataSourceStore(transport, logger),
	}, nil
}
