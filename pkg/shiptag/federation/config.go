// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package federation

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

const (
	// DefaultTokenLifetimeSeconds caps the exchanged token at 5 minutes
	DefaultTokenLifetimeSeconds = 300
	// MaxTokenLifetimeSeconds is the provider-enforced ceiling
	MaxTokenLifetimeSeconds = 3600

	iamResourcePrefix = "//iam.googleapis.com/"
)

var validate = validator.New()

// Config identifies the workload identity provider and the service account the
// run impersonates. Supplied by operator configuration; immutable per run.
type Config struct {
	// Provider is the workload identity provider resource,
	// ex: projects/111/locations/global/workloadIdentityPools/ci/providers/github
	Provider string `json:"provider" validate:"required,contains=workloadIdentityPools"`
	// ServiceAccount is the email of the service account to impersonate
	ServiceAccount string `json:"serviceAccount" validate:"required,email"`
	// Project is the cloud project the registry lives in
	Project string `json:"project" validate:"required"`
	// TokenLifetimeSeconds bounds the exchanged token lifetime
	TokenLifetimeSeconds int `json:"tokenLifetimeSeconds,omitempty" validate:"gt=0,lte=3600"`
}

// NewConfigFromPath reads a Config from a YAML file
func NewConfigFromPath(path string) (Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configErrorf("Reading federation config '%s': %s", path, err)
	}

	return NewConfigFromBytes(bs)
}

// NewConfigFromBytes parses a Config, applying the default token lifetime
func NewConfigFromBytes(data []byte) (Config, error) {
	var config Config

	err := yaml.UnmarshalStrict(data, &config)
	if err != nil {
		return Config{}, configErrorf("Unmarshaling federation config: %s", err)
	}

	if config.TokenLifetimeSeconds == 0 {
		config.TokenLifetimeSeconds = DefaultTokenLifetimeSeconds
	}

	return config, nil
}

// Validate checks the config before any exchange is attempted
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return configErrorf("Validating federation config: %s", err)
	}
	return nil
}

// Audience is the STS audience for the configured provider
func (c Config) Audience() string {
	if strings.HasPrefix(c.Provider, iamResourcePrefix) {
		return c.Provider
	}
	return iamResourcePrefix + strings.TrimPrefix(c.Provider, "/")
}

// ImpersonationPath is the generateAccessToken path for the configured service account
func (c Config) ImpersonationPath() string {
	return fmt.Sprintf("/v1/projects/-/serviceAccounts/%s:generateAccessToken", c.ServiceAccount)
}
