// mockbackend - standalone fake middleware-manager backend for local
// console development. Serves the full API with an in-memory database and
// a handful of seeded entities.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/musram/middleware-manager-sub002/backendtest"
)

func main() {
	godotenv.Load()

	addr := flag.String("addr", envOr("MOCK_BACKEND_ADDR", ":3456"), "listen address")
	uiPath := flag.String("ui", os.Getenv("MOCK_BACKEND_UI"), "path to a static console build to serve at /")
	debug := flag.Bool("debug", false, "enable request logging")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	backend, err := backendtest.New(backendtest.Options{
		Debug:     *debug,
		AllowCORS: true,
		UIPath:    *uiPath,
	})
	if err != nil {
		logger.Error("failed to start backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	if err := seed(backend); err != nil {
		logger.Error("failed to seed sample data", "error", err)
		os.Exit(1)
	}

	logger.Info("mock backend listening", "addr", *addr)
	if err := backend.Run(*addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seed installs a few entities so a fresh console has something to show.
func seed(backend *backendtest.Backend) error {
	authID, err := backend.SeedMiddleware("sample-auth", "basicAuth", map[string]interface{}{
		"users": []interface{}{"admin:$apr1$H6uskkkW$IgXLP6ewTrSuBkTrqE8wj/"},
	})
	if err != nil {
		return err
	}

	if _, err := backend.SeedMiddleware("sample-compress", "compress", map[string]interface{}{}); err != nil {
		return err
	}

	if _, err := backend.SeedService("sample-pool", "loadBalancer", map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{"url": "http://10.0.0.10:8080"},
		},
	}); err != nil {
		return err
	}

	resourceID, err := backend.SeedResource("app.example.com", "active")
	if err != nil {
		return err
	}
	if _, err := backend.SeedResource("old.example.com", "disabled"); err != nil {
		return err
	}

	return backend.AssignSeedMiddleware(resourceID, authID, 100)
}
