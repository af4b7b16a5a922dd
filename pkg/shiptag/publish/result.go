// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// State is where a run ended up
type State string

const (
	StatePending        State = "PENDING"
	StateFilteredOut    State = "FILTERED_OUT"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
	StateBuilding       State = "BUILDING"
	StateBuilt          State = "BUILT"
	StatePushing        State = "PUSHING"
	StatePushed         State = "PUSHED"
	StatePartialPush    State = "PARTIAL_PUSH"
	StateFailed         State = "FAILED"
)

// TagFailure records a registry rejection for one tag
type TagFailure struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
}

// Result is reported back to the invoking CI system
type Result struct {
	State      State        `json:"state"`
	Digest     string       `json:"digest,omitempty"`
	PushedTags []string     `json:"pushedTags,omitempty"`
	FailedTags []TagFailure `json:"failedTags,omitempty"`
}

// Summary renders a short human readable account of the run
func (r Result) Summary() string {
	lines := []string{fmt.Sprintf("State: %s", r.State)}
	if r.Digest != "" {
		lines = append(lines, fmt.Sprintf("Digest: %s", r.Digest))
	}
	if len(r.PushedTags) > 0 {
		lines = append(lines, fmt.Sprintf("Pushed tags: %s", strings.Join(r.PushedTags, ", ")))
	}
	for _, failure := range r.FailedTags {
		lines = append(lines, fmt.Sprintf("Failed tag: %s (%s)", failure.Tag, failure.Reason))
	}
	return strings.Join(lines, "\n")
}

// WriteToPath writes the result as YAML for the invoking CI system to pick up
func (r Result) WriteToPath(path string) error {
	bs, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("Marshaling publish result: %s", err)
	}

	err = os.WriteFile(path, []byte(fmt.Sprintf("---\n%s", bs)), 0600)
	if err != nil {
		return fmt.Errorf("Writing publish result: %s", err)
	}

	return nil
}
