package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/analysis"
	"github.com/example/xray-analyzer/internal/apperror"
	"github.com/example/xray-analyzer/internal/inference"
	"github.com/example/xray-analyzer/internal/logging"
)

const (
	modeReal = "real"
	modeDemo = "demo"
)

// AnalysisUseCase encapsulates the forward and normalize flows.
type AnalysisUseCase struct {
	client  inference.Client
	model   string
	metrics *Metrics
	logger  *zap.Logger
}

// NewAnalysisUseCase constructs a new use case instance. metrics may be nil.
func NewAnalysisUseCase(client inference.Client, model string, metrics *Metrics, logger *zap.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		client:  client,
		model:   model,
		metrics: metrics,
		logger:  logger.Named("analysis_usecase"),
	}
}

// Model returns the model name attached to real results.
func (uc *AnalysisUseCase) Model() string {
	return uc.model
}

// Preflight fails with a configuration error when the client knows its
// credential is missing. Clients that cannot tell always pass.
func (uc *AnalysisUseCase) Preflight() error {
	if checker, ok := uc.client.(inference.CredentialChecker); ok {
		return checker.CheckCredential()
	}
	return nil
}

// Forward sends image to the classifier once and returns its raw JSON answer.
func (uc *AnalysisUseCase) Forward(ctx context.Context, image []byte) ([]byte, error) {
	ctx, requestID := ensureRequestID(ctx)
	opLogger := logging.WithOperation(uc.logger, "usecase.forward", requestID)

	start := time.Now()
	body, err := uc.client.Classify(ctx, image)
	elapsed := time.Since(start)
	if err != nil {
		kind := apperror.KindOf(err)
		uc.metrics.observeUpstream(kind.String(), elapsed)
		wrapped := logging.NewOperationError("usecase.forward", requestID, err)
		if kind == apperror.KindInternal {
			opLogger.Error("classification failed", zap.Error(wrapped))
		} else {
			opLogger.Warn("classification rejected", zap.Error(wrapped), zap.String("kind", kind.String()))
		}
		return nil, wrapped
	}

	uc.metrics.observeUpstream("ok", elapsed)
	opLogger.Info("classification succeeded", zap.Int("image_bytes", len(image)), zap.Duration("latency", elapsed))
	return body, nil
}

// Analyze forwards image and normalizes the answer. Any forwarding failure
// degrades to the demo result instead of being returned.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, image []byte) *analysis.AnalysisResult {
	ctx, requestID := ensureRequestID(ctx)

	body, err := uc.Forward(ctx, image)
	if err != nil {
		logging.WithOperation(uc.logger, "usecase.analyze", requestID).
			Warn("falling back to demo result", zap.Error(err))
		uc.metrics.observeAnalysis(modeDemo)
		return analysis.DemoResult()
	}

	uc.metrics.observeAnalysis(modeReal)
	return analysis.Normalize(body, uc.Model())
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := logging.RequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return logging.ContextWithRequestID(ctx, id), id
}
