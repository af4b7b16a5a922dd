// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"io"
	"log"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"
	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/shiptag/shiptag/pkg/shiptag/cmd"
	"github.com/shiptag/shiptag/pkg/shiptag/publish"
)

const (
	exitCodeFailed      = 1
	exitCodePartialPush = 2
)

func main() {
	log.SetOutput(io.Discard)

	confUI := ui.NewConfUI(ui.NewNoopLogger())

	command := cmd.NewDefaultShiptagCmd(confUI)

	err := command.Execute()
	if err != nil {
		confUI.ErrorLinef("shiptag: Error: %v", uierrs.NewMultiLineError(err))
		confUI.Flush()

		var partialErr publish.PartialPushError
		if errors.As(err, &partialErr) {
			os.Exit(exitCodePartialPush)
		}
		os.Exit(exitCodeFailed)
	}

	confUI.Flush()
}
