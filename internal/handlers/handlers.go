package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/analysis"
	"github.com/example/xray-analyzer/internal/apperror"
	"github.com/example/xray-analyzer/internal/logging"
	"github.com/example/xray-analyzer/internal/usecase"
)

// MaxUploadSize is the default upload limit in bytes.
const MaxUploadSize = 10 << 20

// Options tunes route behavior.
type Options struct {
	MaxUploadBytes int64
	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	// Now stamps exported reports; defaults to time.Now.
	Now func() time.Time
}

type reportRequest struct {
	FileName string                   `json:"fileName"`
	Result   *analysis.AnalysisResult `json:"result" binding:"required"`
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.AnalysisUseCase, logger *zap.Logger, opts Options) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = MaxUploadSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger = logger.Named("handlers")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")

	api.POST("/analyze", func(c *gin.Context) {
		if err := uc.Preflight(); err != nil {
			writeError(c, logger, err)
			return
		}

		data, _, err := readUpload(c, opts.MaxUploadBytes)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		body, err := uc.Forward(c.Request.Context(), data)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	})

	api.POST("/analysis", func(c *gin.Context) {
		data, contentType, err := readUpload(c, opts.MaxUploadBytes)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		if !analysis.IsSupportedImage(contentType) {
			writeError(c, logger, apperror.InputWithStatus(http.StatusUnsupportedMediaType, apperror.MsgUnsupportedType))
			return
		}

		c.JSON(http.StatusOK, uc.Analyze(c.Request.Context(), data))
	})

	api.POST("/report", func(c *gin.Context) {
		var req reportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report request"})
			return
		}

		report := analysis.RenderReport(req.FileName, req.Result, opts.Now())
		c.Header("Content-Disposition", `attachment; filename="`+analysis.ReportFileName+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
	})
}

// readUpload returns the bytes and declared content type of the multipart
// "file" field.
func readUpload(c *gin.Context, limit int64) ([]byte, string, error) {
	if c.Request.ContentLength > limit {
		return nil, "", apperror.InputWithStatus(http.StatusRequestEntityTooLarge, apperror.MsgFileTooLarge)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", apperror.InputWithStatus(http.StatusRequestEntityTooLarge, apperror.MsgFileTooLarge)
		}
		return nil, "", apperror.Input(apperror.MsgNoFile)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return data, file.Header.Get("Content-Type"), nil
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperror.From(err)
	requestID, _ := logging.RequestIDFromContext(c.Request.Context())
	if appErr.Kind == apperror.KindInternal {
		logging.WithOperation(logger, c.FullPath(), requestID).Error("request failed",
			zap.String("failed_operation", logging.OperationOf(err)),
			zap.Error(err),
		)
	}
	c.JSON(appErr.HTTPStatus(), appErr.Body())
}
