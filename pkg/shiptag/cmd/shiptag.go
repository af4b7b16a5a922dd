// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"

	"github.com/cppforlife/cobrautil"
	"github.com/cppforlife/go-cli-ui/ui"
	"github.com/spf13/cobra"
)

type ShiptagOptions struct {
	ui *ui.ConfUI

	UIFlags UIFlags
}

func NewShiptagOptions(ui *ui.ConfUI) *ShiptagOptions {
	return &ShiptagOptions{ui: ui}
}

func NewDefaultShiptagCmd(ui *ui.ConfUI) *cobra.Command {
	return NewShiptagCmd(NewShiptagOptions(ui))
}

func NewShiptagCmd(o *ShiptagOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "shiptag",
		Short:             "shiptag publishes container images for tagged releases",
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Version:           Version,
	}

	cmd.SetOutput(uiBlockWriter{o.ui}) // setting output for cmd.Help()

	o.UIFlags.Set(cmd)

	cmd.AddCommand(NewReleaseCmd(NewReleaseOptions(o.ui)))
	cmd.AddCommand(NewCheckCmd(NewCheckOptions(o.ui)))
	cmd.AddCommand(NewVersionCmd(NewVersionOptions(o.ui)))

	// Last one runs first
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd)
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureLeafCmds())

	cobrautil.VisitCommands(cmd, cobrautil.WrapRunEForCmd(func(*cobra.Command, []string) error {
		o.UIFlags.ConfigureUI(o.ui)
		return nil
	}))

	cobrautil.VisitCommands(cmd, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}

type uiBlockWriter struct {
	ui ui.UI
}

var _ io.Writer = uiBlockWriter{}

func (w uiBlockWriter) Write(p []byte) (n int, err error) {
	w.ui.PrintBlock(p)
	return len(p), nil
}
