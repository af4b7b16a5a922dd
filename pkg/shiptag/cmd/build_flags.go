// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/shiptag/shiptag/pkg/shiptag/build"
	"github.com/spf13/cobra"
)

type BuildFlags struct {
	ContextPath    string
	DockerfilePath string
	Tool           string
}

// Set Registers the flags available to the provided command
func (f *BuildFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ContextPath, "build-context", "f", ".", "Set build context directory")
	cmd.Flags().StringVar(&f.DockerfilePath, "dockerfile", "", "Set Dockerfile path (default: Dockerfile inside the build context)")
	cmd.Flags().StringVar(&f.Tool, "build-tool", build.DefaultTool, "Set container build tool")
}
