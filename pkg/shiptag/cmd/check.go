// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/shiptag/shiptag/pkg/shiptag/trigger"
	"github.com/spf13/cobra"
)

type CheckOptions struct {
	ui ui.UI

	TriggerFlags TriggerFlags
}

func NewCheckOptions(ui ui.UI) *CheckOptions {
	return &CheckOptions{ui: ui}
}

func NewCheckCmd(o *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the current event qualifies as a tagged release",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
		Example: `
  # Decide inside a workflow whether the publish steps should run
  shiptag check --trigger-mode filtered_push`,
	}
	o.TriggerFlags.Set(cmd)
	return cmd
}

func (o *CheckOptions) Run() error {
	mode, err := o.TriggerFlags.AsMode()
	if err != nil {
		return err
	}

	event := o.TriggerFlags.AsEvent(os.Environ)
	qualifies := trigger.Qualifies(event, mode)

	o.ui.BeginLinef("Event (kind: %s, ref: '%s') qualifies under %s: %t\n", event.Kind, event.Ref, mode, qualifies)

	return nil
}
