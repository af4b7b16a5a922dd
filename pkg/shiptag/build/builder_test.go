// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package build_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cppforlife/go-cli-ui/ui"
	regname "github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/random"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/shiptag/shiptag/pkg/shiptag/build"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls   [][]string
	failOn  string
	failMsg string
}

func (f *fakeRunner) Run(_ context.Context, output io.Writer, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))

	if len(args) > 0 && args[0] == f.failOn {
		fmt.Fprint(output, f.failMsg)
		return fmt.Errorf("exit status 1")
	}

	// emulate the export step with a real single-image tarball
	if len(args) > 0 && args[0] == "save" {
		tarPath := args[2]
		ref, err := regname.NewTag(args[3])
		if err != nil {
			return err
		}
		img, err := random.Image(1024, 1)
		if err != nil {
			return err
		}
		return tarball.WriteToFile(tarPath, ref, img)
	}

	return nil
}

func testLogger() util.LoggerWithLevels {
	buf := bytes.Buffer{}
	return util.NewUILevelLogger(util.LogWarn, ui.NewWriterUI(&buf, &buf, nil))
}

func TestBuilderBuildAndExport(t *testing.T) {
	t.Run("builds once, exports and loads the image", func(t *testing.T) {
		runner := &fakeRunner{}
		subject := build.NewBuilder("docker", runner, testLogger())

		img, cleanup, err := subject.BuildAndExport(context.Background(), ".", "Dockerfile", "registry.example.com/proj/repo/app:0.0.1")
		require.NoError(t, err)
		defer cleanup()
		require.NotNil(t, img)

		_, err = img.Digest()
		require.NoError(t, err)

		require.Len(t, runner.calls, 2)
		require.Equal(t, []string{"docker", "build", "-t", "registry.example.com/proj/repo/app:0.0.1", "-f", "Dockerfile", "."}, runner.calls[0])
		require.Equal(t, "save", runner.calls[1][1])
	})

	t.Run("omits the dockerfile flag when no dockerfile is given", func(t *testing.T) {
		runner := &fakeRunner{}
		subject := build.NewBuilder("docker", runner, testLogger())

		_, cleanup, err := subject.BuildAndExport(context.Background(), "ctx-dir", "", "example.com/repo/app:1.0.0")
		require.NoError(t, err)
		defer cleanup()

		require.Equal(t, []string{"docker", "build", "-t", "example.com/repo/app:1.0.0", "ctx-dir"}, runner.calls[0])
	})

	t.Run("build failure surfaces as a build error with the tool output", func(t *testing.T) {
		runner := &fakeRunner{failOn: "build", failMsg: "Step 3/7: COPY missing-file\nno such file or directory"}
		subject := build.NewBuilder("docker", runner, testLogger())

		_, _, err := subject.BuildAndExport(context.Background(), ".", "", "example.com/repo/app:1.0.0")
		require.Error(t, err)
		require.IsType(t, build.Error{}, err)
		require.Contains(t, err.Error(), "no such file or directory")
		require.Len(t, runner.calls, 1, "should not attempt export after a failed build")
	})

	t.Run("export failure surfaces as a build error", func(t *testing.T) {
		runner := &fakeRunner{failOn: "save", failMsg: "no space left on device"}
		subject := build.NewBuilder("docker", runner, testLogger())

		_, _, err := subject.BuildAndExport(context.Background(), ".", "", "example.com/repo/app:1.0.0")
		require.Error(t, err)
		require.IsType(t, build.Error{}, err)
		require.Contains(t, err.Error(), "no space left on device")
	})

	t.Run("defaults the build tool to docker", func(t *testing.T) {
		runner := &fakeRunner{}
		subject := build.NewBuilder("", runner, testLogger())

		_, cleanup, err := subject.BuildAndExport(context.Background(), ".", "", "example.com/repo/app:1.0.0")
		require.NoError(t, err)
		defer cleanup()
		require.True(t, strings.HasPrefix(runner.calls[0][0], "docker"))
	})
}
