// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/shiptag/shiptag/pkg/shiptag/trigger"
	"github.com/spf13/cobra"
)

type TriggerFlags struct {
	EventKind string
	Ref       string
	Mode      string
}

// Set Registers the flags available to the provided command
func (f *TriggerFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.EventKind, "event-kind", "", "Set event kind: push, tag_push, manual (default taken from $GITHUB_EVENT_NAME)")
	cmd.Flags().StringVar(&f.Ref, "ref", "", "Set event ref, ex: refs/tags/1.2.3 (default taken from $GITHUB_REF)")
	cmd.Flags().StringVar(&f.Mode, "trigger-mode", string(trigger.ModeFilteredPush), "Set trigger mode: any_tag_push, filtered_push")
}

// AsEvent builds the release event, with explicit flags taking precedence
// over the CI environment
func (f TriggerFlags) AsEvent(environFunc func() []string) trigger.Event {
	event := trigger.NewEventFromEnv(environFunc)
	if f.EventKind != "" {
		event.Kind = trigger.Kind(f.EventKind)
	}
	if f.Ref != "" {
		event.Ref = f.Ref
	}
	return event
}

// AsMode validates the configured trigger mode
func (f TriggerFlags) AsMode() (trigger.Mode, error) {
	mode, ok := trigger.NewMode(f.Mode)
	if !ok {
		return "", fmt.Errorf("Expected trigger mode to be one of 'any_tag_push', 'filtered_push', got '%s'", f.Mode)
	}
	return mode, nil
}
