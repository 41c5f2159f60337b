package main

import (
	"context"
	stdlog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/pkg/config"
	"github.com/FACorreiaa/go-tripweaver/internal/server"
	"github.com/FACorreiaa/go-tripweaver/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Warning: Error loading .env file, using environment variables")
	}

	// Initialize logger
	if err := logger.Init(zap.InfoLevel, zap.String("service", "tripweaver")); err != nil {
		return err
	}
	log := logger.Log
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize observability
	otelShutdown, err := server.InitObservability("tripweaver", ":9092", log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	// Create server
	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	// Setup router
	router, err := server.SetupRouter(srv.GetDBPool(), cfg, log)
	if err != nil {
		return err
	}
	srv.SetRouter(router)

	// Start pprof server (on separate port, not exposed publicly)
	server.StartPprofServer(":6060", log)

	// Create HTTP server
	httpServer := srv.HTTPServer()

	// Setup graceful shutdown
	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, log, done)

	// Start server
	log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		log.Error("Server error", zap.Error(err))
	}

	// Wait for graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")

	return nil
}
