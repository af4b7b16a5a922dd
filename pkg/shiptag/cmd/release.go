// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/shiptag/shiptag/pkg/shiptag/build"
	"github.com/shiptag/shiptag/pkg/shiptag/federation"
	"github.com/shiptag/shiptag/pkg/shiptag/registry"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
	v1 "github.com/shiptag/shiptag/pkg/shiptag/v1"
	"github.com/spf13/cobra"
)

type ReleaseOptions struct {
	ui ui.UI

	TriggerFlags    TriggerFlags
	FederationFlags FederationFlags
	ImageFlags      ImageFlags
	BuildFlags      BuildFlags
	RegistryFlags   RegistryFlags
	OutputFlags     OutputFlags

	Concurrency int
	Debug       bool
}

func NewReleaseOptions(ui ui.UI) *ReleaseOptions {
	return &ReleaseOptions{ui: ui}
}

func NewReleaseCmd(o *ReleaseOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Publish the container image for a tagged release",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
		Example: `
  # Publish europe-docker.pkg.dev/my-project/my-repo/app:<tag> and :latest on a tagged push
  shiptag release \
    --image-registry-host europe-docker.pkg.dev \
    --image-project my-project --image-repository my-repo --image-name app \
    --federation-provider projects/111/locations/global/workloadIdentityPools/ci/providers/github \
    --federation-service-account releaser@my-project.iam.gserviceaccount.com \
    --federation-project my-project \
    -f .`,
	}
	o.TriggerFlags.Set(cmd)
	o.FederationFlags.Set(cmd)
	o.ImageFlags.Set(cmd)
	o.BuildFlags.Set(cmd)
	o.RegistryFlags.Set(cmd)
	o.OutputFlags.Set(cmd)

	cmd.Flags().IntVar(&o.Concurrency, "concurrency", 3, "Concurrency of tag pushes")
	cmd.Flags().BoolVar(&o.Debug, "release-debug", false, "Log state transitions")
	return cmd
}

func (o *ReleaseOptions) Run() error {
	level := util.LogWarn
	if o.Debug {
		level = util.LogDebug
	}
	logger := util.NewUILevelLogger(level, util.NewUIPrefixedWriter("release | ", o.ui))

	mode, err := o.TriggerFlags.AsMode()
	if err != nil {
		return err
	}

	federationConfig, err := o.FederationFlags.AsConfig()
	if err != nil {
		return err
	}

	// cancellation aborts the in-flight build or push
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exchanger := federation.NewExchanger(federation.NewAssertionSource(os.Environ), federation.ExchangeOpts{})
	builder := build.NewBuilder(o.BuildFlags.Tool, build.NewExecRunner(), logger)

	registryFactory := func(token federation.AccessToken) (registry.ImagesWriter, error) {
		opts := o.RegistryFlags.AsRegistryOpts()
		if opts.Username == "" {
			opts.Token = token.Value
		}
		reg, err := registry.NewRegistry(opts)
		if err != nil {
			return nil, fmt.Errorf("Unable to create a registry with the provided options: %v", err)
		}
		return registry.NewRegistryWithProgress(reg, util.NewProgressBar(logger, "Pushed", "Error pushing")), nil
	}

	result, err := v1.Release(ctx, v1.ReleaseOpts{
		Event:            o.TriggerFlags.AsEvent(os.Environ),
		Mode:             mode,
		Federation:       federationConfig,
		Coordinate:       o.ImageFlags.AsCoordinate(),
		ExtraTags:        o.ImageFlags.ExtraTags,
		BuildContextPath: o.BuildFlags.ContextPath,
		DockerfilePath:   o.BuildFlags.DockerfilePath,
		Concurrency:      o.Concurrency,
	}, exchanger, builder, registryFactory, logger)

	o.ui.BeginLinef("%s\n", result.Summary())

	if o.OutputFlags.ResultPath != "" {
		writeErr := result.WriteToPath(o.OutputFlags.ResultPath)
		if writeErr != nil {
			if err == nil {
				err = writeErr
			} else {
				logger.Errorf("%s\n", writeErr)
			}
		}
	}

	return err
}
