// Package config loads analyzer settings from defaults, an optional YAML
// file, a .env file and the process environment, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable pointing at the YAML config file.
const PathEnv = "XRAY_CONFIG"

// Config holds runtime settings. The credential itself is not part of it:
// it is read from the TokenEnv variable on every upstream call.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	InferenceURL    string        `yaml:"inference_url"`
	InferenceModel  string        `yaml:"inference_model"`
	TokenEnv        string        `yaml:"token_env"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// loadDotenv exports the variables of the given files without overriding
// ones already set. Files that do not exist are skipped.
func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		GRPCAddr:        ":9090",
		InferenceURL:    "https://api-inference.huggingface.co/models",
		InferenceModel:  "microsoft/resnet-50",
		TokenEnv:        "HF_TOKEN",
		MaxUploadBytes:  10 << 20,
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
	}
}

// Load builds the configuration. path may be empty, in which case PathEnv is
// consulted; a missing .env file is not an error but a malformed one is.
func Load(path string) (*Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.GRPCAddr, "GRPC_ADDR")
	setString(&c.InferenceURL, "INFERENCE_URL")
	setString(&c.InferenceModel, "INFERENCE_MODEL")
	setString(&c.TokenEnv, "INFERENCE_TOKEN_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")

	if err := setDuration(&c.UpstreamTimeout, "UPSTREAM_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}
	if value := strings.TrimSpace(os.Getenv("MAX_UPLOAD_BYTES")); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc_addr is required"))
	}
	if c.InferenceURL == "" || c.InferenceModel == "" {
		errs = append(errs, errors.New("inference_url and inference_model are required"))
	}
	if c.TokenEnv == "" {
		errs = append(errs, errors.New("token_env is required"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.UpstreamTimeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
