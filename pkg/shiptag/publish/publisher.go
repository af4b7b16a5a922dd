// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"strings"

	regname "github.com/google/go-containerregistry/pkg/name"
	regv1 "github.com/google/go-containerregistry/pkg/v1"
	regremote "github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/shiptag/shiptag/pkg/shiptag/registry"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
	"golang.org/x/sync/errgroup"
)

// TagPushError records the registry rejecting the push of a single tag
type TagPushError struct {
	Tag string
	Err error
}

func (e TagPushError) Error() string {
	return fmt.Sprintf("Pushing tag '%s': %s", e.Tag, e.Err)
}

// PartialPushError signals that some tags were pushed and some were not.
// The run must surface this distinctly; a half-tagged release is an error.
type PartialPushError struct {
	Failures []TagPushError
}

func (e PartialPushError) Error() string {
	var msgs []string
	for _, failure := range e.Failures {
		msgs = append(msgs, failure.Error())
	}
	return fmt.Sprintf("Partial push, %d tag(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Publisher pushes one built image under every tag of a release
type Publisher struct {
	registry    registry.ImagesWriter
	logger      util.LoggerWithLevels
	concurrency int
}

// NewPublisher builds a Publisher. concurrency bounds how many alias tags are
// pushed in parallel.
func NewPublisher(reg registry.ImagesWriter, logger util.LoggerWithLevels, concurrency int) Publisher {
	if concurrency < 1 {
		concurrency = 1
	}
	return Publisher{registry: reg, logger: logger, concurrency: concurrency}
}

// Publish pushes img under every tag in tagSet. The image and its layers are
// uploaded exactly once, under the version tag; every other tag only points
// the registry at the already uploaded manifest. The version tag goes first
// and latest goes last, so latest never references an image whose version tag
// is absent. Alias failures are collected per tag, never aborting siblings.
func (p Publisher) Publish(ctx context.Context, img regv1.Image, coordinate Coordinate, tagSet TagSet) (Result, error) {
	if tagSet.Len() == 0 {
		return Result{State: StateFailed}, fmt.Errorf("Expected tag set to not be empty")
	}

	refs, err := tagSet.Refs(coordinate)
	if err != nil {
		return Result{State: StateFailed}, err
	}

	digest, err := img.Digest()
	if err != nil {
		return Result{State: StateFailed}, fmt.Errorf("Calculating image digest: %s", err)
	}

	result := Result{
		State:  StatePushing,
		Digest: fmt.Sprintf("%s@%s", coordinate.RepositoryName(), digest),
	}

	versionRef := refs[0]
	p.logger.Logf("Pushing '%s'\n", versionRef.Name())
	err = p.registry.WriteImage(versionRef, img, regremote.WithContext(ctx))
	if err != nil {
		result.State = StateFailed
		for _, ref := range refs {
			result.FailedTags = append(result.FailedTags, TagFailure{Tag: ref.TagStr(), Reason: err.Error()})
		}
		return result, TagPushError{Tag: versionRef.TagStr(), Err: err}
	}
	result.PushedTags = append(result.PushedTags, versionRef.TagStr())

	remoteDigest, err := p.registry.Digest(versionRef)
	switch {
	case err != nil:
		p.logger.Warnf("Unable to confirm digest of '%s': %s\n", versionRef.Name(), err)
	case remoteDigest != digest:
		err := fmt.Errorf("Expected registry digest '%s' to match built image digest '%s'", remoteDigest, digest)
		result.State = StateFailed
		result.PushedTags = nil
		for _, ref := range refs {
			result.FailedTags = append(result.FailedTags, TagFailure{Tag: ref.TagStr(), Reason: err.Error()})
		}
		return result, TagPushError{Tag: versionRef.TagStr(), Err: err}
	default:
		result.Digest = fmt.Sprintf("%s@%s", coordinate.RepositoryName(), remoteDigest)
	}

	aliasRefs := refs[1 : len(refs)-1]
	aliasErrs := make([]error, len(aliasRefs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)
	for i, ref := range aliasRefs {
		i, ref := i, ref
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				aliasErrs[i] = err
				return nil
			}
			p.logger.Logf("Tagging '%s'\n", ref.Name())
			aliasErrs[i] = p.registry.WriteTag(ref, img, regremote.WithContext(groupCtx))
			return nil
		})
	}
	// goroutines only record failures, Wait cannot error here
	group.Wait()

	var failures []TagPushError
	for i, ref := range aliasRefs {
		if aliasErrs[i] != nil {
			failures = append(failures, TagPushError{Tag: ref.TagStr(), Err: aliasErrs[i]})
			result.FailedTags = append(result.FailedTags, TagFailure{Tag: ref.TagStr(), Reason: aliasErrs[i].Error()})
			continue
		}
		result.PushedTags = append(result.PushedTags, ref.TagStr())
	}

	// latest goes last, and only after the version tag made it
	latestRef := refs[len(refs)-1]
	latestErr := ctx.Err()
	if latestErr == nil {
		p.logger.Logf("Tagging '%s'\n", latestRef.Name())
		latestErr = p.registry.WriteTag(latestRef, img, regremote.WithContext(ctx))
	}
	if latestErr != nil {
		failures = append(failures, TagPushError{Tag: latestRef.TagStr(), Err: latestErr})
		result.FailedTags = append(result.FailedTags, TagFailure{Tag: latestRef.TagStr(), Reason: latestErr.Error()})
	} else {
		result.PushedTags = append(result.PushedTags, latestRef.TagStr())
	}

	if len(failures) == 0 {
		result.State = StatePushed
		return result, nil
	}

	result.State = StatePartialPush
	return result, PartialPushError{Failures: failures}
}

// VersionRef resolves the version tag reference for logging and local tagging
func VersionRef(coordinate Coordinate, tagSet TagSet) (regname.Tag, error) {
	refs, err := tagSet.Refs(coordinate)
	if err != nil {
		return regname.Tag{}, err
	}
	return refs[0], nil
}
