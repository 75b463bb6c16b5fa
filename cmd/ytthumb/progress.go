/*
DESCRIPTION
  progress.go implements a single-line terminal progress bar sized to the
  terminal width, the ProgressReporter implementation cmd/ytthumb hands to
  the pipeline session, grounded on IntuitionEngine's use of
  golang.org/x/term for its own console sizing.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultTermWidth = 80
	minBarWidth      = 10
)

// termProgress renders one progress bar line per stage to w, rewriting it in
// place when w is a terminal and falling back to one line per update
// otherwise (e.g. when output is redirected to a file).
type termProgress struct {
	w        io.Writer
	isTerm   bool
	lastLine string
}

func newTermProgress(w io.Writer) *termProgress {
	isTerm := false
	if f, ok := w.(*os.File); ok {
		isTerm = term.IsTerminal(int(f.Fd()))
	}
	return &termProgress{w: w, isTerm: isTerm}
}

// Report implements session.ProgressReporter.
func (p *termProgress) Report(stage string, value, max int, detail string) {
	width := p.termWidth()
	line := p.formatLine(stage, value, max, detail, width)

	if p.isTerm {
		fmt.Fprintf(p.w, "\r%s", padTo(line, width))
		if max > 0 && value >= max {
			fmt.Fprintln(p.w)
		}
	} else {
		fmt.Fprintln(p.w, line)
	}
	p.lastLine = line
}

func (p *termProgress) termWidth() int {
	f, ok := p.w.(*os.File)
	if !ok {
		return defaultTermWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

func (p *termProgress) formatLine(stage string, value, max int, detail string, width int) string {
	if max <= 0 {
		if detail == "" {
			return fmt.Sprintf("%s...", stage)
		}
		return fmt.Sprintf("%s: %s", stage, detail)
	}

	barWidth := width - len(stage) - 20
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	filled := barWidth * value / max
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	return fmt.Sprintf("%s [%s] %d/%d", stage, bar, value, max)
}

func padTo(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
