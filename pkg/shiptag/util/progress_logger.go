// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"context"
	"fmt"
	"os"

	pb "github.com/cheggaaa/pb/v3"
	goui "github.com/cppforlife/go-cli-ui/ui"
	regv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/mattn/go-isatty"
)

// ProgressLogger consumes registry upload updates for one write attempt.
// Start/End pairs may be repeated on the same logger.
type ProgressLogger interface {
	Start(progress <-chan regv1.Update)
	End()
}

// NewProgressBar builds a ProgressLogger responsible for printing out a progress bar using updates when
// writing to a registry via ggcr
func NewProgressBar(ui goui.UI, finalMessage, errorMessagePrefix string) ProgressLogger {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return &ProgressBarLogger{ui: ui, finalMessage: finalMessage, errorMessagePrefix: errorMessagePrefix}
	}

	return &ProgressBarNoTTYLogger{ui: ui, finalMessage: finalMessage}
}

type ProgressBarLogger struct {
	cancelFunc         context.CancelFunc
	bar                *pb.ProgressBar
	ui                 goui.UI
	finalMessage       string
	errorMessagePrefix string
}

func (l *ProgressBarLogger) Start(progressChan <-chan regv1.Update) {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancelFunc = cancel

	// Add a new empty line to separate the progress bar from prior output
	fmt.Println()
	l.bar = pb.New64(0)
	l.bar.Set(pb.Bytes, true)
	bar := l.bar
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-progressChan:
				if update.Error != nil {
					l.ui.ErrorLinef("%s: %s\n", l.errorMessagePrefix, update.Error)
					continue
				}

				if update.Total == 0 {
					return
				}
				if bar.Total() == 0 {
					bar.SetTotal(update.Total)
					bar.Start()
				}
				bar.SetCurrent(update.Complete)
			}
		}
	}()
}

func (l *ProgressBarLogger) End() {
	if l.cancelFunc != nil {
		l.cancelFunc()
	}
	if l.bar != nil {
		l.bar.Finish()
	}
	l.ui.BeginLinef("%s", l.finalMessage)
}

type ProgressBarNoTTYLogger struct {
	cancelFunc   context.CancelFunc
	ui           goui.UI
	finalMessage string
}

func (l *ProgressBarNoTTYLogger) Start(progressChan <-chan regv1.Update) {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancelFunc = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-progressChan:
			}
		}
	}()
}

func (l *ProgressBarNoTTYLogger) End() {
	if l.cancelFunc != nil {
		l.cancelFunc()
	}
	if l.ui != nil && l.finalMessage != "" {
		l.ui.BeginLinef(l.finalMessage)
	}
}

// NewNoopProgressBar constructs a Noop Progress bar that does not do anything
func NewNoopProgressBar() ProgressLogger {
	return &ProgressBarNoTTYLogger{}
}
