package main

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/config"
	"github.com/example/xray-analyzer/internal/grpchealth"
	"github.com/example/xray-analyzer/internal/handlers"
	"github.com/example/xray-analyzer/internal/logging"
	"github.com/example/xray-analyzer/internal/usecase"
)

var serveFlags struct {
	httpAddr string
	grpcAddr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health service",
	Long: `Starts the HTTP API (/api/analyze, /api/analysis, /api/report, /health, /metrics)
and the gRPC health service. Both stop gracefully on SIGINT or SIGTERM.

The upstream credential is read from the environment variable named by
token_env (HF_TOKEN by default) on every request, so the server starts
without it and reports a configuration error per request until it is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	f.StringVar(&serveFlags.grpcAddr, "grpc-addr", "", "gRPC health listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveFlags.httpAddr != "" {
		cfg.HTTPAddr = serveFlags.httpAddr
	}
	if serveFlags.grpcAddr != "" {
		cfg.GRPCAddr = serveFlags.grpcAddr
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	uc := newAnalysisUseCase(cfg, usecase.NewMetrics(registry), logger)
	if err := uc.Preflight(); err != nil {
		logger.Warn("upstream credential is not set; analysis requests will fail until it is", zap.String("env", cfg.TokenEnv))
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(logger, cfg.MaxUploadBytes)
	handlers.RegisterRoutes(router, uc, logger, handlers.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Gatherer:       registry,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		httpListener.Close()
		return fmt.Errorf("listen grpc: %w", err)
	}

	logger.Info("xray analyzer listening",
		zap.String("http_addr", httpListener.Addr().String()),
		zap.String("grpc_addr", grpcListener.Addr().String()),
		zap.String("model", uc.Model()),
	)
	return serveWithOptions(cmd.Context(), server, httpListener, grpchealth.New(logger), grpcListener, cfg.ShutdownTimeout, logger, nil)
}
