// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

type OutputFlags struct {
	ResultPath string
}

// Set Registers the flags available to the provided command
func (f *OutputFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ResultPath, "result-output", "", "Location to write a YAML file with the publish result")
}
