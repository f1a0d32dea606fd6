package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	PathEnv, "HTTP_ADDR", "GRPC_ADDR", "INFERENCE_URL", "INFERENCE_MODEL",
	"INFERENCE_TOKEN_ENV", "LOG_LEVEL", "UPSTREAM_TIMEOUT", "SHUTDOWN_TIMEOUT", "MAX_UPLOAD_BYTES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
http_addr: ":8181"
inference_model: google/vit-base-patch16-224
upstream_timeout: 30s
max_upload_bytes: 2048
`)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.HTTPAddr = ":9999"
	want.InferenceModel = "google/vit-base-patch16-224"
	want.UpstreamTimeout = 30 * time.Second
	want.MaxUploadBytes = 2048
	want.ShutdownTimeout = 5 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUsesPathFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(PathEnv, writeConfig(t, "token_env: HUGGINGFACE_TOKEN\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "HUGGINGFACE_TOKEN", cfg.TokenEnv)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "hf_token: secret\n"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	_, err := Load("")
	require.ErrorContains(t, err, "UPSTREAM_TIMEOUT")

	clearEnv(t)
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	_, err = Load("")
	require.ErrorContains(t, err, "max_upload_bytes must be positive")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestLoadDotenvSkipsMissingFile(t *testing.T) {
	require.NoError(t, loadDotenv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotenvExportsVariables(t *testing.T) {
	t.Setenv("XRAY_DOTENV_VALUE", "")
	os.Unsetenv("XRAY_DOTENV_VALUE")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("XRAY_DOTENV_VALUE=from-file\n"), 0o600))

	require.NoError(t, loadDotenv(path))
	require.Equal(t, "from-file", os.Getenv("XRAY_DOTENV_VALUE"))
}

func TestLoadDotenvRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HF_TOKEN=\"unterminated\n"), 0o600))

	err := loadDotenv(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestLoadRejectsMalformedDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HF_TOKEN=\"unterminated\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load("")
	require.Error(t, err)
}
