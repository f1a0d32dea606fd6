// Package inference talks to the hosted image-classification model.
package inference

import (
	"context"
	"os"
	"strings"
)

// Client exposes the subset of the classification service used by the analysis flow.
// Classify returns the raw JSON payload of a successful call.
type Client interface {
	Classify(ctx context.Context, image []byte) ([]byte, error)
}

// CredentialChecker is implemented by clients that can tell, without a
// network call, whether their credential is configured.
type CredentialChecker interface {
	CheckCredential() error
}

// TokenSource yields the bearer token for a call. It is consulted on every
// call so the credential can change without a restart.
type TokenSource func() string

// EnvToken reads the token from the named environment variable.
func EnvToken(name string) TokenSource {
	return func() string {
		return strings.TrimSpace(os.Getenv(name))
	}
}

// ModelEndpoint joins the inference base URL and a model id.
func ModelEndpoint(baseURL, model string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(model, "/")
}
