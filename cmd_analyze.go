package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/xray-analyzer/internal/analysis"
	"github.com/example/xray-analyzer/internal/config"
	"github.com/example/xray-analyzer/internal/logging"
)

var analyzeFlags struct {
	report bool
	output string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a local JPEG or PNG radiograph",
	Long: `Sends a local radiograph to the classification model and prints the
normalized analysis as JSON, or as the plain-text report with --report.

When the model cannot be reached or rejects the call, the demo result is
printed instead, flagged with isDemo and an explanatory error.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.BoolVar(&analyzeFlags.report, "report", false, "Print the plain-text report instead of JSON")
	f.StringVarP(&analyzeFlags.output, "output", "o", "", "Write the output to a file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if contentType := http.DetectContentType(image); !analysis.IsSupportedImage(contentType) {
		return fmt.Errorf("%s: unsupported file type %s (expected JPEG or PNG)", path, contentType)
	}

	uc := newAnalysisUseCase(cfg, nil, logger)
	result := uc.Analyze(cmd.Context(), image)

	out := cmd.OutOrStdout()
	if analyzeFlags.output != "" {
		f, err := os.Create(analyzeFlags.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeAnalysis(out, filepath.Base(path), result, analyzeFlags.report, time.Now())
}

func writeAnalysis(w io.Writer, fileName string, result *analysis.AnalysisResult, report bool, at time.Time) error {
	if report {
		_, err := io.WriteString(w, analysis.RenderReport(fileName, result, at))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
