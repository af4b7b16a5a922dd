// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	regauthn "github.com/google/go-containerregistry/pkg/authn"
)

// TokenUsername is the fixed username registries expect when the password is
// an OAuth access token rather than a stored credential
const TokenUsername = "oauth2accesstoken"

// KeychainOpts carries the credentials for the target registry
type KeychainOpts struct {
	Username string
	Password string
	Token    string
	Anon     bool
}

// Keychain resolves credentials for the run. Explicit username/password wins,
// then the federated access token as a bearer password, then anonymous.
func Keychain(opts KeychainOpts) regauthn.Keychain {
	return keychain{opts: opts}
}

type keychain struct {
	opts KeychainOpts
}

var _ regauthn.Keychain = keychain{}

func (k keychain) Resolve(regauthn.Resource) (regauthn.Authenticator, error) {
	switch {
	case len(k.opts.Username) > 0:
		return &regauthn.Basic{Username: k.opts.Username, Password: k.opts.Password}, nil
	case len(k.opts.Token) > 0:
		return &regauthn.Basic{Username: TokenUsername, Password: k.opts.Token}, nil
	case k.opts.Anon:
		return regauthn.Anonymous, nil
	default:
		return regauthn.Anonymous, nil
	}
}
