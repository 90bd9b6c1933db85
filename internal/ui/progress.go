package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar counts the package steps of one install plan. A nil
// *ProgressBar is valid and draws nothing, which is how --quiet runs.
type ProgressBar struct {
	bar    *progressbar.ProgressBar
	done   int
	failed int
}

// NewStepProgressBar draws a bar over total planned steps on w
func NewStepProgressBar(w io.Writer, total int, description string) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Step advances past pkg. Failed steps still advance; they are counted and
// marked in the description.
func (p *ProgressBar) Step(pkg string, failed bool) error {
	if p == nil {
		return nil
	}
	p.done++
	if failed {
		p.failed++
		p.bar.Describe(fmt.Sprintf("✗ %s", pkg))
	} else {
		p.bar.Describe(pkg)
	}
	return p.bar.Add(1)
}

func (p *ProgressBar) Finish() error {
	if p == nil {
		return nil
	}
	return p.bar.Finish()
}

// Current returns the number of completed steps
func (p *ProgressBar) Current() int {
	if p == nil {
		return 0
	}
	return p.done
}

// Failed returns how many completed steps reported a backend error
func (p *ProgressBar) Failed() int {
	if p == nil {
		return 0
	}
	return p.failed
}

func (p *ProgressBar) IsFinished() bool {
	return p != nil && p.bar.IsFinished()
}
