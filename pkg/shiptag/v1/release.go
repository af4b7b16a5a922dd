// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

// Package v1 exposes the release pipeline as a library: filter the trigger,
// exchange the CI identity for a cloud token, build once, push every tag.
package v1

import (
	"context"
	"fmt"
	"time"

	regv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/shiptag/shiptag/pkg/shiptag/federation"
	"github.com/shiptag/shiptag/pkg/shiptag/publish"
	"github.com/shiptag/shiptag/pkg/shiptag/registry"
	"github.com/shiptag/shiptag/pkg/shiptag/trigger"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
)

// TokenSource exchanges the CI-issued identity assertion for a cloud access token
type TokenSource interface {
	ObtainToken(ctx context.Context, config federation.Config) (federation.AccessToken, error)
}

// ImageBuilder produces the single local image artifact for the run
type ImageBuilder interface {
	BuildAndExport(ctx context.Context, contextPath, dockerfilePath, localRef string) (regv1.Image, func(), error)
}

// RegistryFactory builds the registry client once the access token is known
type RegistryFactory func(token federation.AccessToken) (registry.ImagesWriter, error)

// ReleaseOpts is the full, explicit configuration of one run. No ambient
// state: everything a stage needs arrives through here.
type ReleaseOpts struct {
	Event trigger.Event
	Mode  trigger.Mode

	Federation federation.Config

	Coordinate publish.Coordinate
	ExtraTags  []string

	BuildContextPath string
	DockerfilePath   string

	Concurrency int
}

// Release runs the pipeline for a single repository event. A non-qualifying
// event short-circuits to FILTERED_OUT without touching the credential
// exchange. Stage failures end the run with state FAILED; a push where only
// some tags land ends it with state PARTIAL_PUSH.
func Release(ctx context.Context, opts ReleaseOpts, tokenSource TokenSource, builder ImageBuilder, registryFactory RegistryFactory, logger util.LoggerWithLevels) (publish.Result, error) {
	if !trigger.Qualifies(opts.Event, opts.Mode) {
		logger.Logf("Event (kind: %s, ref: '%s') does not qualify as a release, skipping\n", opts.Event.Kind, opts.Event.Ref)
		return publish.Result{State: publish.StateFilteredOut}, nil
	}

	version, ok := trigger.VersionFromRef(opts.Event.Ref)
	if !ok {
		return publish.Result{State: publish.StateFailed}, fmt.Errorf("Expected ref '%s' to carry a tag name", opts.Event.Ref)
	}

	tagSet, err := publish.NewTagSet(version, opts.ExtraTags)
	if err != nil {
		return publish.Result{State: publish.StateFailed}, err
	}

	versionRef, err := publish.VersionRef(opts.Coordinate, tagSet)
	if err != nil {
		return publish.Result{State: publish.StateFailed}, err
	}

	logger.Debugf("State: %s\n", publish.StateAuthenticating)
	token, err := tokenSource.ObtainToken(ctx, opts.Federation)
	if err != nil {
		return publish.Result{State: publish.StateFailed}, err
	}
	logger.Debugf("State: %s\n", publish.StateAuthenticated)

	reg, err := registryFactory(token)
	if err != nil {
		return publish.Result{State: publish.StateFailed}, err
	}

	logger.Debugf("State: %s\n", publish.StateBuilding)
	img, cleanup, err := builder.BuildAndExport(ctx, opts.BuildContextPath, opts.DockerfilePath, versionRef.Name())
	if err != nil {
		return publish.Result{State: publish.StateFailed}, err
	}
	defer cleanup()
	logger.Debugf("State: %s\n", publish.StateBuilt)

	if !token.ExpiresAt.IsZero() && !time.Now().Before(token.ExpiresAt) {
		return publish.Result{State: publish.StateFailed}, publish.TagPushError{
			Tag: tagSet.Version(),
			Err: fmt.Errorf("Access token expired while building, consider a longer token lifetime"),
		}
	}

	logger.Debugf("State: %s\n", publish.StatePushing)
	return publish.NewPublisher(reg, logger, opts.Concurrency).Publish(ctx, img, opts.Coordinate, tagSet)
}
