// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package federation

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2/google/externalaccount"
)

const (
	defaultSTSTokenURL           = "https://sts.googleapis.com/v1/token"
	defaultImpersonationEndpoint = "https://iamcredentials.googleapis.com"
	subjectTokenTypeJWT          = "urn:ietf:params:oauth:token-type:jwt"
	cloudPlatformScope           = "https://www.googleapis.com/auth/cloud-platform"
)

// AccessToken is the exchanged cloud credential. Owned by the current
// invocation; never persisted, never logged.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// String keeps the token value out of format strings and logs
func (t AccessToken) String() string {
	return "AccessToken(redacted)"
}

// IsZero reports whether no token was obtained
func (t AccessToken) IsZero() bool {
	return t.Value == ""
}

// ExchangeOpts allows overriding the provider endpoints, mainly for tests
type ExchangeOpts struct {
	STSTokenURL           string
	ImpersonationEndpoint string
}

// Exchanger trades the CI-issued identity assertion for a time-boxed cloud
// access token via the workload identity federation provider
type Exchanger struct {
	supplier externalaccount.SubjectTokenSupplier
	opts     ExchangeOpts
}

// NewExchanger builds an Exchanger using the given assertion supplier
func NewExchanger(supplier externalaccount.SubjectTokenSupplier, opts ExchangeOpts) *Exchanger {
	if opts.STSTokenURL == "" {
		opts.STSTokenURL = defaultSTSTokenURL
	}
	if opts.ImpersonationEndpoint == "" {
		opts.ImpersonationEndpoint = defaultImpersonationEndpoint
	}
	return &Exchanger{supplier: supplier, opts: opts}
}

// ObtainToken presents the assertion to the federation provider and returns
// the access token minted for the configured service account. Failures are
// fatal to the run; a rejected credential is never retried.
func (e *Exchanger) ObtainToken(ctx context.Context, config Config) (AccessToken, error) {
	err := config.Validate()
	if err != nil {
		return AccessToken{}, err
	}

	conf := externalaccount.Config{
		Audience:                       config.Audience(),
		SubjectTokenType:               subjectTokenTypeJWT,
		TokenURL:                       e.opts.STSTokenURL,
		ServiceAccountImpersonationURL: e.opts.ImpersonationEndpoint + config.ImpersonationPath(),
		ServiceAccountImpersonationLifetimeSeconds: config.TokenLifetimeSeconds,
		SubjectTokenSupplier:                       e.supplier,
		Scopes:                                     []string{cloudPlatformScope},
	}

	tokenSource, err := externalaccount.NewTokenSource(ctx, conf)
	if err != nil {
		return AccessToken{}, configErrorf("Configuring token exchange: %s", err)
	}

	token, err := tokenSource.Token()
	if err != nil {
		var configErr ConfigError
		if errors.As(err, &configErr) {
			return AccessToken{}, configErr
		}
		return AccessToken{}, authErrorf("Exchanging identity assertion for access token: %s", err)
	}

	return AccessToken{Value: token.AccessToken, ExpiresAt: token.Expiry}, nil
}
