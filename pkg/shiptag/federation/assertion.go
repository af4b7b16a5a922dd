// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google/externalaccount"
)

const (
	assertionURLEnvVar   = "ACTIONS_ID_TOKEN_REQUEST_URL"
	assertionTokenEnvVar = "ACTIONS_ID_TOKEN_REQUEST_TOKEN"
)

// AssertionSource fetches the short-lived identity assertion the CI system
// issues to the running job. It implements externalaccount.SubjectTokenSupplier.
type AssertionSource struct {
	environFunc func() []string
	client      *http.Client
}

var _ externalaccount.SubjectTokenSupplier = &AssertionSource{}

// NewAssertionSource builds an AssertionSource reading the issuance endpoint
// from the job environment
func NewAssertionSource(environFunc func() []string) *AssertionSource {
	return &AssertionSource{
		environFunc: environFunc,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// SubjectToken requests an assertion scoped to the given audience from the CI
// issuance endpoint
func (s *AssertionSource) SubjectToken(ctx context.Context, options externalaccount.SupplierOptions) (string, error) {
	env := map[string]string{}
	for _, kv := range s.environFunc() {
		pieces := strings.SplitN(kv, "=", 2)
		if len(pieces) == 2 {
			env[pieces[0]] = pieces[1]
		}
	}

	issuanceURL := env[assertionURLEnvVar]
	bearer := env[assertionTokenEnvVar]
	if issuanceURL == "" || bearer == "" {
		return "", configErrorf("Expected %s and %s to be set, is the job allowed to request an identity token?", assertionURLEnvVar, assertionTokenEnvVar)
	}

	reqURL := issuanceURL
	sep := "?"
	if strings.Contains(issuanceURL, "?") {
		sep = "&"
	}
	if options.Audience != "" {
		reqURL = fmt.Sprintf("%s%saudience=%s", issuanceURL, sep, url.QueryEscape(options.Audience))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", configErrorf("Building assertion request: %s", err)
	}
	req.Header.Set("Authorization", "bearer "+bearer)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", authErrorf("Requesting identity assertion: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", authErrorf("Requesting identity assertion: issuance endpoint responded with status %d", resp.StatusCode)
	}

	var payload struct {
		Value string `json:"value"`
	}
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return "", authErrorf("Unmarshaling identity assertion response: %s", err)
	}
	if payload.Value == "" {
		return "", authErrorf("Issuance endpoint returned an empty assertion")
	}

	return payload.Value, nil
}
