// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"context"
	"io"
	"os/exec"
)

// CmdRunner runs the external container build tool
type CmdRunner interface {
	Run(ctx context.Context, output io.Writer, name string, args ...string) error
}

// NewExecRunner builds a CmdRunner backed by os/exec
func NewExecRunner() CmdRunner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, output io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = output
	cmd.Stderr = output
	return cmd.Run()
}
