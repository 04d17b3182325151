package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jo-hoe/sialiccatalog/internal/backend"
	"github.com/jo-hoe/sialiccatalog/internal/backend/assets"
	"github.com/jo-hoe/sialiccatalog/internal/common"
	"github.com/jo-hoe/sialiccatalog/internal/core"
	frontend "github.com/jo-hoe/sialiccatalog/internal/frontend"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	// A missing workbook or name column panics here, before the port opens
	coreService := core.NewCoreService(config)
	logStartup(config, coreService)

	server := newServer(config, coreService)
	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		log.Printf("shutdown signal received")
	case err := <-serverErr:
		log.Printf("http server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop taking requests first so no handler touches a closed question store
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := coreService.Close(); err != nil {
		log.Printf("core service close error: %v", err)
	}
}

// newServer registers the JSON API and the HTML pages on one echo instance.
func newServer(config *core.ServiceConfig, coreService *core.CoreService) *echo.Echo {
	server := defineServer()

	apiService := backend.NewAPIService(config, coreService)
	apiService.SetRoutes(server)
	frontendService := frontend.NewFrontendService(config, coreService)
	frontendService.SetRoutes(server)

	return server
}

func logStartup(config *core.ServiceConfig, coreService *core.CoreService) {
	catalog := coreService.Catalog()
	log.Printf("catalog %s loaded: %d rows, %d columns, name column %q",
		config.Catalog.Path, catalog.Len(), len(catalog.Columns()), catalog.NameColumn())

	pipeline := make([]string, 0, len(config.Images.Pipeline))
	for _, step := range config.Images.Pipeline {
		pipeline = append(pipeline, step.Name)
	}
	log.Printf("images: driver=%s prefix=%s extension=%s pipeline=%v cache=%t",
		storeDriver(config.Images.Store.Driver), config.Images.URLPrefix, config.Images.Extension,
		pipeline, config.Redis.Address != "")
	log.Printf("downloads: driver=%s", storeDriver(config.Downloads.Store.Driver))
	log.Printf("questions: database=%s mail notifications=%t",
		config.Database.Type, config.Notification.SMTP.Enabled())
}

func storeDriver(driver string) string {
	if driver == "" {
		return string(assets.DriverFilesystem)
	}
	return driver
}

func defineServer() *echo.Echo {
	e := echo.New()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Configure request logger to skip the health check probe
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogHost:      true,
		LogUserAgent: true,
		LogRoutePath: true,
		LogRequestID: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("[%s] %s %s (route=%s) - Status: %d - Latency: %v - Error: %v - RemoteIP: %s - Host: %s - UA: %s",
					v.RequestID,
					v.Method,
					v.URI,
					v.RoutePath,
					v.Status,
					v.Latency,
					v.Error,
					v.RemoteIP,
					v.Host,
					v.UserAgent,
				)
			} else {
				log.Printf("[%s] %s %s (route=%s) - Status: %d - Latency: %v - RemoteIP: %s - Host: %s - UA: %s",
					v.RequestID,
					v.Method,
					v.URI,
					v.RoutePath,
					v.Status,
					v.Latency,
					v.RemoteIP,
					v.Host,
					v.UserAgent,
				)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	return e
}
