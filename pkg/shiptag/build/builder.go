// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	regv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
)

// DefaultTool is the container build tool used when none is configured
const DefaultTool = "docker"

// maxReportedOutput bounds how much build output is carried inside an Error
const maxReportedOutput = 4096

// Error signals that the external build tool failed. Carries the trailing
// output so the CI log shows why.
type Error struct {
	Output string
	Err    error
}

func (e Error) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("Building image: %s", e.Err)
	}
	return fmt.Sprintf("Building image: %s\n%s", e.Err, e.Output)
}

// Builder drives the external container build tool to produce exactly one
// local image artifact per run
type Builder struct {
	tool   string
	runner CmdRunner
	logger util.LoggerWithLevels
}

// NewBuilder builds a Builder around the given tool ("docker" compatible CLI)
func NewBuilder(tool string, runner CmdRunner, logger util.LoggerWithLevels) Builder {
	if tool == "" {
		tool = DefaultTool
	}
	return Builder{tool: tool, runner: runner, logger: logger}
}

// BuildAndExport builds the context once under localRef, exports the built
// image and loads it back, returning the loaded image and a cleanup func for
// the export artifact. The returned image is pushed under every release tag
// without ever rebuilding.
func (b Builder) BuildAndExport(ctx context.Context, contextPath, dockerfilePath, localRef string) (regv1.Image, func(), error) {
	noop := func() {}

	args := []string{"build", "-t", localRef}
	if dockerfilePath != "" {
		args = append(args, "-f", dockerfilePath)
	}
	args = append(args, contextPath)

	b.logger.Debugf("Running '%s %s'\n", b.tool, strings.Join(args, " "))

	var output bytes.Buffer
	err := b.runner.Run(ctx, &output, b.tool, args...)
	if err != nil {
		return nil, noop, Error{Output: tailOf(output), Err: err}
	}

	tarDir, err := os.MkdirTemp("", "shiptag-export")
	if err != nil {
		return nil, noop, fmt.Errorf("Creating export dir: %s", err)
	}
	cleanup := func() { os.RemoveAll(tarDir) }
	tarPath := filepath.Join(tarDir, "image.tar")

	output.Reset()
	err = b.runner.Run(ctx, &output, b.tool, "save", "-o", tarPath, localRef)
	if err != nil {
		cleanup()
		return nil, noop, Error{Output: tailOf(output), Err: err}
	}

	img, err := tarball.ImageFromPath(tarPath, nil)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("Loading exported image from '%s': %s", tarPath, err)
	}

	return img, cleanup, nil
}

func tailOf(buf bytes.Buffer) string {
	out := buf.String()
	if len(out) > maxReportedOutput {
		out = out[len(out)-maxReportedOutput:]
	}
	return out
}
