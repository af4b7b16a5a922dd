// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"strings"

	regname "github.com/google/go-containerregistry/pkg/name"
)

// LatestTag is the floating alias applied to every published release
const LatestTag = "latest"

// Coordinate is the fully-qualified address of the pushable image
type Coordinate struct {
	RegistryHost string
	Project      string
	Repository   string
	Name         string
}

// Validate checks every coordinate segment is present
func (c Coordinate) Validate() error {
	for _, piece := range []struct {
		name  string
		value string
	}{
		{"registry host", c.RegistryHost},
		{"project", c.Project},
		{"repository", c.Repository},
		{"image name", c.Name},
	} {
		if piece.value == "" {
			return fmt.Errorf("Expected image coordinate to have a %s", piece.name)
		}
	}
	return nil
}

// RepositoryName is the registry path images are pushed under,
// ex: europe-docker.pkg.dev/my-project/my-repo/app
func (c Coordinate) RepositoryName() string {
	return strings.Join([]string{c.RegistryHost, c.Project, c.Repository, c.Name}, "/")
}

// TagSet is the ordered set of tags a release is pushed under. The version
// tag always comes first and the latest alias always comes last, so a
// cancelled or failed run never leaves latest pointing at an image whose
// version tag was not pushed.
type TagSet struct {
	tags []string
}

// NewTagSet builds a TagSet from the version derived from the release ref and
// any extra operator-supplied tags. Duplicates are collapsed preserving order.
func NewTagSet(version string, extraTags []string) (TagSet, error) {
	if version == "" {
		return TagSet{}, fmt.Errorf("Expected a version tag derived from the release ref, got none")
	}
	if version == LatestTag {
		return TagSet{}, fmt.Errorf("Expected version tag to not be '%s'", LatestTag)
	}

	seen := map[string]struct{}{version: {}, LatestTag: {}}
	tags := []string{version}
	for _, tag := range extraTags {
		if tag == "" {
			continue
		}
		if _, found := seen[tag]; found {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	tags = append(tags, LatestTag)

	return TagSet{tags: tags}, nil
}

// Tags returns the tags in push order
func (ts TagSet) Tags() []string {
	return append([]string{}, ts.tags...)
}

// Version is the version-derived tag
func (ts TagSet) Version() string {
	if len(ts.tags) == 0 {
		return ""
	}
	return ts.tags[0]
}

// Len is the number of tags pushed for the release
func (ts TagSet) Len() int {
	return len(ts.tags)
}

// Refs resolves every tag against the coordinate repository
func (ts TagSet) Refs(coordinate Coordinate, opts ...regname.Option) ([]regname.Tag, error) {
	err := coordinate.Validate()
	if err != nil {
		return nil, err
	}

	var refs []regname.Tag
	for _, tag := range ts.tags {
		ref, err := regname.NewTag(fmt.Sprintf("%s:%s", coordinate.RepositoryName(), tag), opts...)
		if err != nil {
			return nil, fmt.Errorf("Parsing tag '%s': %s", tag, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
