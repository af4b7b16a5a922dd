// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	regname "github.com/google/go-containerregistry/pkg/name"
	regv1 "github.com/google/go-containerregistry/pkg/v1"
	regremote "github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
)

// Opts configures access to the target registry. The Token field carries the
// federated access token for the current run; it is presented as the password
// for the fixed token username.
type Opts struct {
	CACertPaths []string
	VerifyCerts bool
	Insecure    bool

	Username string
	Password string
	Token    string
	Anon     bool

	RetryCount int

	ResponseHeaderTimeout time.Duration
}

// ImagesWriter is the subset of registry operations the publisher needs
type ImagesWriter interface {
	WriteImage(regname.Reference, regv1.Image, ...regremote.Option) error
	WriteTag(regname.Tag, regremote.Taggable, ...regremote.Option) error
	Digest(regname.Reference) (regv1.Hash, error)
}

// Registry wraps the remote registry API with auth, transport and retry
// behavior suitable for a single release run
type Registry struct {
	opts       []regremote.Option
	refOpts    []regname.Option
	retryCount int
}

var _ ImagesWriter = Registry{}

// NewRegistry builds a Registry from the given Opts
func NewRegistry(opts Opts) (Registry, error) {
	httpTran, err := newHTTPTransport(opts)
	if err != nil {
		return Registry{}, err
	}

	var refOpts []regname.Option
	if opts.Insecure {
		refOpts = append(refOpts, regname.Insecure)
	}

	retryCount := opts.RetryCount
	if retryCount < 1 {
		retryCount = 1
	}

	return Registry{
		opts: []regremote.Option{
			regremote.WithTransport(httpTran),
			regremote.WithAuthFromKeychain(Keychain(KeychainOpts{
				Username: opts.Username,
				Password: opts.Password,
				Token:    opts.Token,
				Anon:     opts.Anon,
			})),
		},
		refOpts:    refOpts,
		retryCount: retryCount,
	}, nil
}

// Digest fetches the digest the registry reports for ref
func (r Registry) Digest(ref regname.Reference) (regv1.Hash, error) {
	overriddenRef, err := regname.ParseReference(ref.String(), r.refOpts...)
	if err != nil {
		return regv1.Hash{}, err
	}

	desc, err := regremote.Head(overriddenRef, r.opts...)
	if err != nil {
		getDesc, err := regremote.Get(overriddenRef, r.opts...)
		if err != nil {
			return regv1.Hash{}, err
		}
		return getDesc.Digest, nil
	}

	return desc.Digest, nil
}

// WriteImage uploads the image and its layers under ref
func (r Registry) WriteImage(ref regname.Reference, img regv1.Image, extra ...regremote.Option) error {
	err := util.Retry(r.retryCount, func() error {
		return r.writeImageOnce(ref, img, extra...)
	})
	if err != nil {
		return fmt.Errorf("Writing image: %s", err)
	}

	return nil
}

func (r Registry) writeImageOnce(ref regname.Reference, img regv1.Image, extra ...regremote.Option) error {
	overriddenRef, err := regname.ParseReference(ref.String(), r.refOpts...)
	if err != nil {
		return err
	}

	return regremote.Write(overriddenRef, img, append(append([]regremote.Option{}, r.opts...), extra...)...)
}

// WriteTag points ref at an already uploaded image
func (r Registry) WriteTag(ref regname.Tag, taggable regremote.Taggable, extra ...regremote.Option) error {
	overriddenRef, err := regname.NewTag(ref.String(), r.refOpts...)
	if err != nil {
		return err
	}

	err = util.Retry(r.retryCount, func() error {
		return regremote.Tag(overriddenRef, taggable, append(append([]regremote.Option{}, r.opts...), extra...)...)
	})
	if err != nil {
		return fmt.Errorf("Tagging image: %s", err)
	}

	return nil
}

func newHTTPTransport(opts Opts) (*http.Transport, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}

	for _, path := range opts.CACertPaths {
		if certs, err := os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("Reading CA certificates from '%s': %s", path, err)
		} else if ok := pool.AppendCertsFromPEM(certs); !ok {
			return nil, fmt.Errorf("Adding CA certificates from '%s': failed", path)
		}
	}

	responseHeaderTimeout := opts.ResponseHeaderTimeout
	if responseHeaderTimeout == 0 {
		responseHeaderTimeout = 30 * time.Second
	}

	// Same defaults as http.DefaultTransport, with our TLS config on top
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: responseHeaderTimeout,
		TLSClientConfig: &tls.Config{
			RootCAs:            pool,
			InsecureSkipVerify: !opts.VerifyCerts,
		},
	}, nil
}
