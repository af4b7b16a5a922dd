// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"

	regname "github.com/google/go-containerregistry/pkg/name"
	regv1 "github.com/google/go-containerregistry/pkg/v1"
	regremote "github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
)

// NewRegistryWithProgress decorates a Registry so image uploads report
// progress to the given logger
func NewRegistryWithProgress(delegate Registry, logger util.ProgressLogger) *WithProgress {
	return &WithProgress{delegate: delegate, logger: logger}
}

type WithProgress struct {
	delegate Registry
	logger   util.ProgressLogger
}

var _ ImagesWriter = &WithProgress{}

func (w *WithProgress) WriteImage(ref regname.Reference, img regv1.Image, extra ...regremote.Option) error {
	// remote.Write closes the progress channel on every return, so each
	// retry attempt needs its own channel
	err := util.Retry(w.delegate.retryCount, func() error {
		uploadProgress := make(chan regv1.Update)
		w.logger.Start(uploadProgress)
		defer w.logger.End()

		return w.delegate.writeImageOnce(ref, img, append(append([]regremote.Option{}, extra...), regremote.WithProgress(uploadProgress))...)
	})
	if err != nil {
		return fmt.Errorf("Writing image: %s", err)
	}

	return nil
}

func (w *WithProgress) WriteTag(ref regname.Tag, taggable regremote.Taggable, extra ...regremote.Option) error {
	return w.delegate.WriteTag(ref, taggable, extra...)
}

func (w *WithProgress) Digest(ref regname.Reference) (regv1.Hash, error) {
	return w.delegate.Digest(ref)
}
