// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for one embedding model backend.
type Config struct {
	// Host is the base URL of the embedding service.
	// Example: "http://localhost:11434" for a local Ollama server.
	Host string

	// Model is the model identifier.
	// Example: "bge-m3", "text-embedding-3-small"
	Model string

	// Dimension is the fixed vector dimension the model declares.
	// A vector of any other length is rejected, never truncated or padded.
	Dimension int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithDimension sets the declared vector dimension.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// DefaultConfig returns a Config with defaults for a local Ollama server.
func DefaultConfig() *Config {
	return &Config{
		Host:      "http://localhost:11434",
		Model:     "bge-m3",
		Dimension: 1024,
	}
}

// NewConfig creates a Config with default values and applies the options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithModel("bge-large"),
//	    ai.WithDimension(1024),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NormalizeOpenAI ensures the host is in the canonical form expected by
// OpenAI-compatible APIs (Ollama's /v1 endpoint, LocalAI, vLLM): the /v1
// suffix is appended if missing.
func (c *Config) NormalizeOpenAI() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Dimension <= 0 {
		return errors.New("ai config: Dimension must be greater than 0")
	}
	return nil
}
