// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package trigger

import (
	"strings"
)

// TagRefPrefix is the ref namespace that identifies tag references
const TagRefPrefix = "refs/tags/"

// Kind identifies what started the run
type Kind string

const (
	KindPush    Kind = "push"
	KindTagPush Kind = "tag_push"
	KindManual  Kind = "manual"
)

// Event captures the repository event that started the run. It is built once,
// at process start, and is read-only from then on.
type Event struct {
	Kind Kind
	Ref  string
}

// IsTag reports whether the event ref lives in the tag namespace
func (e Event) IsTag() bool {
	return strings.HasPrefix(e.Ref, TagRefPrefix)
}

// NewEventFromEnv builds the Event from the environment the CI system provides
// to the job (GITHUB_EVENT_NAME, GITHUB_REF)
func NewEventFromEnv(environFunc func() []string) Event {
	env := map[string]string{}
	for _, kv := range environFunc() {
		pieces := strings.SplitN(kv, "=", 2)
		if len(pieces) == 2 {
			env[pieces[0]] = pieces[1]
		}
	}

	return Event{
		Kind: kindFromEventName(env["GITHUB_EVENT_NAME"]),
		Ref:  env["GITHUB_REF"],
	}
}

func kindFromEventName(name string) Kind {
	switch name {
	case "push":
		return KindPush
	case "tag_push":
		return KindTagPush
	default:
		// workflow_dispatch or anything else operator initiated
		return KindManual
	}
}

// VersionFromRef extracts the version a tag ref points at.
// Returns false when the ref is not a tag reference.
func VersionFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, TagRefPrefix) {
		return "", false
	}
	version := strings.TrimPrefix(ref, TagRefPrefix)
	if version == "" {
		return "", false
	}
	return version, true
}
