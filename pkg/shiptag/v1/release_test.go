// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package v1_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cppforlife/go-cli-ui/ui"
	regname "github.com/google/go-containerregistry/pkg/name"
	regv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/random"
	regremote "github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/shiptag/shiptag/pkg/shiptag/federation"
	"github.com/shiptag/shiptag/pkg/shiptag/publish"
	"github.com/shiptag/shiptag/pkg/shiptag/registry"
	"github.com/shiptag/shiptag/pkg/shiptag/trigger"
	"github.com/shiptag/shiptag/pkg/shiptag/util"
	v1 "github.com/shiptag/shiptag/pkg/shiptag/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSource struct {
	calls int
	token federation.AccessToken
	err   error
}

func (f *fakeTokenSource) ObtainToken(context.Context, federation.Config) (federation.AccessToken, error) {
	f.calls++
	return f.token, f.err
}

type fakeBuilder struct {
	calls    int
	localRef string
	err      error
}

func (f *fakeBuilder) BuildAndExport(_ context.Context, _, _, localRef string) (regv1.Image, func(), error) {
	f.calls++
	f.localRef = localRef
	if f.err != nil {
		return nil, func() {}, f.err
	}
	img, err := random.Image(256, 1)
	if err != nil {
		return nil, func() {}, err
	}
	return img, func() {}, nil
}

type recordingWriter struct {
	writes  []string
	tags    []string
	tagErrs map[string]error
	digest  regv1.Hash
}

func (r *recordingWriter) WriteImage(ref regname.Reference, img regv1.Image, _ ...regremote.Option) error {
	r.writes = append(r.writes, ref.String())
	r.digest, _ = img.Digest()
	return nil
}

func (r *recordingWriter) Digest(regname.Reference) (regv1.Hash, error) {
	return r.digest, nil
}

func (r *recordingWriter) WriteTag(ref regname.Tag, _ regremote.Taggable, _ ...regremote.Option) error {
	r.tags = append(r.tags, ref.String())
	if r.tagErrs != nil {
		return r.tagErrs[ref.String()]
	}
	return nil
}

func releaseOpts(event trigger.Event, mode trigger.Mode) v1.ReleaseOpts {
	return v1.ReleaseOpts{
		Event: event,
		Mode:  mode,
		Federation: federation.Config{
			Provider:             "projects/111/locations/global/workloadIdentityPools/ci/providers/github",
			ServiceAccount:       "releaser@my-project.iam.gserviceaccount.com",
			Project:              "my-project",
			TokenLifetimeSeconds: 300,
		},
		Coordinate: publish.Coordinate{
			RegistryHost: "europe-docker.pkg.dev",
			Project:      "my-project",
			Repository:   "my-repo",
			Name:         "app",
		},
		BuildContextPath: ".",
		Concurrency:      2,
	}
}

func releaseLogger() util.LoggerWithLevels {
	buf := bytes.Buffer{}
	return util.NewUILevelLogger(util.LogWarn, ui.NewWriterUI(&buf, &buf, nil))
}

func validToken() federation.AccessToken {
	return federation.AccessToken{Value: "tok", ExpiresAt: time.Now().Add(5 * time.Minute)}
}

func TestRelease(t *testing.T) {
	t.Run("pushes version and latest for a qualifying push of a tag", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: validToken()}
		builder := &fakeBuilder{}
		writer := &recordingWriter{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/tags/0.0.1"}, trigger.ModeFilteredPush),
			tokenSource, builder,
			func(token federation.AccessToken) (registry.ImagesWriter, error) {
				require.Equal(t, "tok", token.Value)
				return writer, nil
			},
			releaseLogger())

		require.NoError(t, err)
		assert.Equal(t, publish.StatePushed, result.State)
		assert.Equal(t, []string{"0.0.1", "latest"}, result.PushedTags)
		assert.Equal(t, 1, tokenSource.calls)
		assert.Equal(t, 1, builder.calls)
		assert.Equal(t, "europe-docker.pkg.dev/my-project/my-repo/app:0.0.1", builder.localRef)
		assert.Equal(t, []string{"europe-docker.pkg.dev/my-project/my-repo/app:0.0.1"}, writer.writes)
		assert.Equal(t, []string{"europe-docker.pkg.dev/my-project/my-repo/app:latest"}, writer.tags)
	})

	t.Run("a branch push is filtered out before any credential exchange", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: validToken()}
		builder := &fakeBuilder{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/heads/main"}, trigger.ModeFilteredPush),
			tokenSource, builder,
			func(federation.AccessToken) (registry.ImagesWriter, error) {
				t.Fatal("registry must not be touched for a filtered out event")
				return nil, nil
			},
			releaseLogger())

		require.NoError(t, err)
		assert.Equal(t, publish.StateFilteredOut, result.State)
		assert.Equal(t, 0, tokenSource.calls, "no token may be requested for a filtered out event")
		assert.Equal(t, 0, builder.calls)
	})

	t.Run("a rejected assertion fails the run before any build", func(t *testing.T) {
		tokenSource := &fakeTokenSource{err: federation.AuthError{Msg: "attribute mapping did not match"}}
		builder := &fakeBuilder{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/tags/0.0.1"}, trigger.ModeFilteredPush),
			tokenSource, builder,
			func(federation.AccessToken) (registry.ImagesWriter, error) { return &recordingWriter{}, nil },
			releaseLogger())

		require.Error(t, err)
		require.IsType(t, federation.AuthError{}, err)
		assert.Equal(t, publish.StateFailed, result.State)
		assert.Equal(t, 0, builder.calls, "no build may be attempted after a rejected exchange")
	})

	t.Run("a failed build fails the run", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: validToken()}
		builder := &fakeBuilder{err: fmt.Errorf("exit status 1")}
		writer := &recordingWriter{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/tags/0.0.1"}, trigger.ModeFilteredPush),
			tokenSource, builder,
			func(federation.AccessToken) (registry.ImagesWriter, error) { return writer, nil },
			releaseLogger())

		require.Error(t, err)
		assert.Equal(t, publish.StateFailed, result.State)
		assert.Empty(t, writer.writes)
	})

	t.Run("a failed latest push surfaces as a partial push", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: validToken()}
		writer := &recordingWriter{tagErrs: map[string]error{
			"europe-docker.pkg.dev/my-project/my-repo/app:latest": fmt.Errorf("network partition"),
		}}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/tags/0.0.1"}, trigger.ModeFilteredPush),
			tokenSource, &fakeBuilder{},
			func(federation.AccessToken) (registry.ImagesWriter, error) { return writer, nil },
			releaseLogger())

		require.Error(t, err)
		var partialErr publish.PartialPushError
		require.ErrorAs(t, err, &partialErr)
		assert.Equal(t, publish.StatePartialPush, result.State)
		assert.Equal(t, []string{"0.0.1"}, result.PushedTags)
		require.Len(t, result.FailedTags, 1)
		assert.Equal(t, "latest", result.FailedTags[0].Tag)
	})

	t.Run("an expired token after the build is a fatal push error", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: federation.AccessToken{Value: "tok", ExpiresAt: time.Now().Add(-1 * time.Second)}}
		writer := &recordingWriter{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindPush, Ref: "refs/tags/0.0.1"}, trigger.ModeFilteredPush),
			tokenSource, &fakeBuilder{},
			func(federation.AccessToken) (registry.ImagesWriter, error) { return writer, nil },
			releaseLogger())

		require.Error(t, err)
		require.IsType(t, publish.TagPushError{}, err)
		assert.Equal(t, publish.StateFailed, result.State)
		assert.Empty(t, writer.writes, "no push may be attempted with an expired token")
	})

	t.Run("manual runs qualify under any_tag_push when pointed at a tag", func(t *testing.T) {
		tokenSource := &fakeTokenSource{token: validToken()}
		writer := &recordingWriter{}

		result, err := v1.Release(context.Background(),
			releaseOpts(trigger.Event{Kind: trigger.KindManual, Ref: "refs/tags/v1.0.0"}, trigger.ModeAnyTagPush),
			tokenSource, &fakeBuilder{},
			func(federation.AccessToken) (registry.ImagesWriter, error) { return writer, nil },
			releaseLogger())

		require.NoError(t, err)
		assert.Equal(t, publish.StatePushed, result.State)
		assert.Equal(t, []string{"v1.0.0", "latest"}, result.PushedTags)
	})
}
