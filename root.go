package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/config"
	"github.com/example/xray-analyzer/internal/inference"
	"github.com/example/xray-analyzer/internal/usecase"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "xray-analyzer",
	Short: "Dental X-ray analysis proxy",
	Long: "xray-analyzer sends dental radiographs to a hosted image-classification model\n" +
		"and maps the generic labels it returns to dental findings.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: $"+config.PathEnv+")")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.Version = version
}

func newAnalysisUseCase(cfg *config.Config, metrics *usecase.Metrics, logger *zap.Logger) *usecase.AnalysisUseCase {
	client := inference.NewHTTPClient(inference.Options{
		Endpoint: inference.ModelEndpoint(cfg.InferenceURL, cfg.InferenceModel),
		TokenEnv: cfg.TokenEnv,
		Timeout:  cfg.UpstreamTimeout,
	}, logger)
	return usecase.NewAnalysisUseCase(client, cfg.InferenceModel, metrics, logger)
}
