// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package registry_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	regname "github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/random"
	"github.com/shiptag/shiptag/pkg/shiptag/registry"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
	"github.com/stretchr/testify/require"
)

func TestRegistryWithProgress(t *testing.T) {
	t.Run("uploads the image while draining progress updates", func(t *testing.T) {
		var manifestPuts []string
		server := createServer(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				if strings.HasPrefix(r.URL.Path, "/v2/repo/manifests/") {
					manifestPuts = append(manifestPuts, r.URL.Path)
				}
				w.WriteHeader(http.StatusCreated)
			case http.MethodPost:
				w.Header().Set("Location", "/v2/repo/blobs/uploads/1")
				w.WriteHeader(http.StatusAccepted)
			case http.MethodHead:
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusOK)
			}
		})
		defer server.Close()
		u, err := url.Parse(server.URL)
		require.NoError(t, err)

		delegate, err := registry.NewRegistry(registry.Opts{Token: "federated-token"})
		require.NoError(t, err)
		subject := registry.NewRegistryWithProgress(delegate, util.NewNoopProgressBar())

		img, err := random.Image(512, 1)
		require.NoError(t, err)

		imgRef, err := regname.ParseReference(fmt.Sprintf("%s/repo:0.0.1", u.Host))
		require.NoError(t, err)

		require.NoError(t, subject.WriteImage(imgRef, img))
		require.Equal(t, []string{"/v2/repo/manifests/0.0.1"}, manifestPuts)
	})

	t.Run("retries a transient upload failure with a fresh progress channel", func(t *testing.T) {
		manifestPutAttempts := 0
		server := createServer(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				if strings.HasPrefix(r.URL.Path, "/v2/repo/manifests/") {
					manifestPutAttempts++
					if manifestPutAttempts == 1 {
						w.WriteHeader(http.StatusInternalServerError)
						return
					}
				}
				w.WriteHeader(http.StatusCreated)
			case http.MethodPost:
				w.Header().Set("Location", "/v2/repo/blobs/uploads/1")
				w.WriteHeader(http.StatusAccepted)
			case http.MethodHead:
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusOK)
			}
		})
		defer server.Close()
		u, err := url.Parse(server.URL)
		require.NoError(t, err)

		delegate, err := registry.NewRegistry(registry.Opts{Token: "federated-token", RetryCount: 3})
		require.NoError(t, err)
		subject := registry.NewRegistryWithProgress(delegate, util.NewNoopProgressBar())

		img, err := random.Image(512, 1)
		require.NoError(t, err)

		imgRef, err := regname.ParseReference(fmt.Sprintf("%s/repo:0.0.1", u.Host))
		require.NoError(t, err)

		require.NoError(t, subject.WriteImage(imgRef, img))
		require.Equal(t, 2, manifestPutAttempts)
	})
}
