// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/shiptag/shiptag/pkg/shiptag/publish"
	"github.com/spf13/cobra"
)

type ImageFlags struct {
	RegistryHost string
	Project      string
	Repository   string
	Name         string

	ExtraTags []string
}

// Set Registers the flags available to the provided command
func (f *ImageFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.RegistryHost, "image-registry-host", "", "Set registry host, ex: europe-docker.pkg.dev")
	cmd.Flags().StringVar(&f.Project, "image-project", "", "Set registry project")
	cmd.Flags().StringVar(&f.Repository, "image-repository", "", "Set registry repository")
	cmd.Flags().StringVar(&f.Name, "image-name", "", "Set image name")
	cmd.Flags().StringSliceVar(&f.ExtraTags, "image-extra-tag", nil, "Additional tag to push (can be specified multiple times)")
}

// AsCoordinate builds the image coordinate of the release
func (f ImageFlags) AsCoordinate() publish.Coordinate {
	return publish.Coordinate{
		RegistryHost: f.RegistryHost,
		Project:      f.Project,
		Repository:   f.Repository,
		Name:         f.Name,
	}
}
