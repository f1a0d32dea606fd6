package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/xray-analyzer/internal/apperror"
	"github.com/example/xray-analyzer/internal/logging"
)

const defaultMaxResponseBytes = 8 << 20

// truncatedMarker ends an upstream error detail that was cut at the size limit.
const truncatedMarker = " [truncated]"

// Options configures an HTTPClient.
type Options struct {
	// Endpoint is the full model URL the image is POSTed to.
	Endpoint string
	// TokenEnv names the environment variable holding the credential. It is
	// also used in the configuration error reported when the token is unset.
	TokenEnv string
	// Token overrides the token lookup; defaults to EnvToken(TokenEnv).
	Token TokenSource
	// Timeout bounds one call. Zero means no timeout beyond the caller's context.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// MaxResponseBytes caps how much of the answer is read. Defaults to 8 MiB.
	MaxResponseBytes int64
}

// HTTPClient forwards raw image bytes to a bearer-authenticated HTTP model endpoint.
type HTTPClient struct {
	endpoint string
	tokenEnv string
	token    TokenSource
	http     *http.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewHTTPClient builds a client from opts.
func NewHTTPClient(opts Options, logger *zap.Logger) *HTTPClient {
	token := opts.Token
	if token == nil {
		token = EnvToken(opts.TokenEnv)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}
	return &HTTPClient{
		endpoint: opts.Endpoint,
		tokenEnv: opts.TokenEnv,
		token:    token,
		http:     httpClient,
		maxBytes: maxBytes,
		logger:   logger.Named("inference_client"),
	}
}

// CheckCredential reports a configuration error when no token is available.
func (c *HTTPClient) CheckCredential() error {
	if c.token() == "" {
		return apperror.Configuration(c.tokenEnv)
	}
	return nil
}

// Classify POSTs image as application/octet-stream and returns the JSON body.
// A non-2xx answer is an upstream error carrying the status and body; a body
// over the size limit is cut and marked as truncated. An oversized success
// body is an internal error rather than a partial JSON document.
func (c *HTTPClient) Classify(ctx context.Context, image []byte) ([]byte, error) {
	requestID, _ := logging.RequestIDFromContext(ctx)
	opLogger := logging.WithOperation(c.logger, "inference.classify", requestID)

	token := c.token()
	if token == "" {
		return nil, apperror.Configuration(c.tokenEnv)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		opLogger.Error("classification request failed", zap.Error(err), zap.String("endpoint", c.endpoint))
		return nil, apperror.Internal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read upstream response: %w", err))
	}
	truncated := int64(len(body)) > c.maxBytes
	if truncated {
		body = body[:c.maxBytes]
	}

	opLogger.Debug("classification response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Bool("truncated", truncated),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		opLogger.Warn("classification service returned an error", zap.Int("status", resp.StatusCode))
		detail := string(body)
		if truncated {
			detail += truncatedMarker
		}
		return nil, apperror.Upstream(resp.StatusCode, detail)
	}

	if truncated {
		return nil, apperror.Internal(fmt.Errorf("upstream response exceeds %d bytes", c.maxBytes))
	}

	if !json.Valid(body) {
		return nil, apperror.Internal(errors.New("upstream returned a non-JSON body"))
	}
	return body, nil
}
