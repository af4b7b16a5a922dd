// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package trigger

// Mode selects how an event is judged to be a qualifying release
type Mode string

const (
	// ModeAnyTagPush qualifies any event whose ref is a tag reference
	ModeAnyTagPush Mode = "any_tag_push"
	// ModeFilteredPush qualifies only push events whose ref is a tag reference
	ModeFilteredPush Mode = "filtered_push"
)

// NewMode validates a mode name coming from operator input
func NewMode(name string) (Mode, bool) {
	switch Mode(name) {
	case ModeAnyTagPush, ModeFilteredPush:
		return Mode(name), true
	}
	return "", false
}

// Qualifies reports whether the event represents a tagged release that should
// be published. Pure function; malformed refs simply evaluate to false.
func Qualifies(event Event, mode Mode) bool {
	switch mode {
	case ModeAnyTagPush:
		return event.IsTag()
	case ModeFilteredPush:
		return event.Kind == KindPush && event.IsTag()
	}
	return false
}
