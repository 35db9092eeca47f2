package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 200 * time.Millisecond

type spinner struct {
	bar *progressbar.ProgressBar
}

func newSpinner(w io.Writer, description string) *spinner {
	return &spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSpinnerType(14),
		),
	}
}

// run spins until fn returns.
func (s *spinner) run(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		t := time.NewTicker(spinnerInterval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = s.bar.Add(1)
			}
		}
	}()

	err := fn()
	cancel()

	_ = s.bar.Clear()

	return err
}
