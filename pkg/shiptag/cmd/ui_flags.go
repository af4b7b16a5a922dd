// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/spf13/cobra"
)

type UIFlags struct {
	TTY   bool
	Debug bool
}

func (f *UIFlags) Set(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&f.TTY, "tty", false, "Force TTY-like output")
	cmd.PersistentFlags().BoolVar(&f.Debug, "debug", false, "Include debug output")
}

func (f *UIFlags) ConfigureUI(ui *ui.ConfUI) {
	if f.TTY {
		ui.EnableTTY(f.TTY)
	}
}
