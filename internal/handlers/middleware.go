package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/apperror"
	"github.com/example/xray-analyzer/internal/logging"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing a well-formed incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID, _ := logging.RequestIDFromContext(c.Request.Context())
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestID),
		)
	}
}

// NewRouter builds a gin engine with request ids, access logs and panic recovery.
func NewRouter(logger *zap.Logger, maxUploadBytes int64) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadBytes
	router.Use(RequestID(), AccessLog(logger), recovery(logger))
	return router
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := apperror.Internal(fmt.Errorf("panic: %v", recovered))
		requestID, _ := logging.RequestIDFromContext(c.Request.Context())
		logging.WithOperation(logger, c.FullPath(), requestID).Error("handler panicked", zap.Error(err))
		c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
	})
}
