// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/shiptag/shiptag/pkg/shiptag/federation"
	"github.com/spf13/cobra"
)

type FederationFlags struct {
	ConfigPath string

	Provider             string
	ServiceAccount       string
	Project              string
	TokenLifetimeSeconds int
}

// Set Registers the flags available to the provided command
func (f *FederationFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "federation-config", "", "Read federation configuration from a YAML file")

	cmd.Flags().StringVar(&f.Provider, "federation-provider", "", "Set workload identity provider resource, ex: projects/111/locations/global/workloadIdentityPools/ci/providers/github")
	cmd.Flags().StringVar(&f.ServiceAccount, "federation-service-account", "", "Set service account email to impersonate")
	cmd.Flags().StringVar(&f.Project, "federation-project", "", "Set cloud project")
	cmd.Flags().IntVar(&f.TokenLifetimeSeconds, "federation-token-lifetime", federation.DefaultTokenLifetimeSeconds, "Set exchanged token lifetime in seconds")
}

// AsConfig resolves the federation config, with explicit flags taking
// precedence over the config file
func (f FederationFlags) AsConfig() (federation.Config, error) {
	config := federation.Config{TokenLifetimeSeconds: federation.DefaultTokenLifetimeSeconds}

	if f.ConfigPath != "" {
		fileConfig, err := federation.NewConfigFromPath(f.ConfigPath)
		if err != nil {
			return federation.Config{}, err
		}
		config = fileConfig
	}

	if f.Provider != "" {
		config.Provider = f.Provider
	}
	if f.ServiceAccount != "" {
		config.ServiceAccount = f.ServiceAccount
	}
	if f.Project != "" {
		config.Project = f.Project
	}
	if f.TokenLifetimeSeconds != federation.DefaultTokenLifetimeSeconds {
		config.TokenLifetimeSeconds = f.TokenLifetimeSeconds
	}

	return config, nil
}
