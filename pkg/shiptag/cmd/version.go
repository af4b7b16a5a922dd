// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/spf13/cobra"
)

// Version of the shiptag binary
const Version = "0.1.0"

type VersionOptions struct {
	ui ui.UI
}

func NewVersionOptions(ui ui.UI) *VersionOptions {
	return &VersionOptions{ui: ui}
}

func NewVersionCmd(o *VersionOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print shiptag version",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
}

func (o *VersionOptions) Run() error {
	o.ui.BeginLinef("shiptag version %s\n", Version)
	return nil
}
