// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"bytes"
	"fmt"
	"sync"

	goui "github.com/cppforlife/go-cli-ui/ui"
)

// NewUIPrefixedWriter builds a UI that applies prefix to every line it emits
func NewUIPrefixedWriter(prefix string, ui goui.UI) *UIPrefixWriter {
	return &UIPrefixWriter{UI: ui, prefix: []byte(prefix)}
}

// UIPrefixWriter prints a prefix in front of each line of every message
type UIPrefixWriter struct {
	goui.UI
	prefix []byte
	lock   sync.Mutex
}

// BeginLinef writes a formatted message with the prefix applied per line
func (w *UIPrefixWriter) BeginLinef(msg string, args ...interface{}) {
	w.Write([]byte(fmt.Sprintf(msg, args...)))
}

func (w *UIPrefixWriter) Write(data []byte) (int, error) {
	lines := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))

	block := make([]byte, 0, len(data)+len(lines)*len(w.prefix)+1)
	for _, line := range lines {
		block = append(block, w.prefix...)
		block = append(block, line...)
		block = append(block, '\n')
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	w.PrintBlock(block)

	// callers see the original length, the prefix is presentation only
	return len(data), nil
}
