/*
DESCRIPTION
  chart.go renders the optional score-timeline debug chart: final score
  against sample time for every analyzed frame, with top picks marked,
  grounded on the teacher's declared-but-unused gonum.org/v1/plot dependency
  (see SPEC_FULL.md §4.10) — this is the first real consumer of that
  dependency in this codebase's tradition of leaning on the gonum stack.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/daverage/yt-thumb/metrics"
)

// scoreChartName is the fixed filename written alongside manifest.json.
const scoreChartName = "manifest_scores.png"

// WriteScoreChart renders manifest_scores.png into outDir: score against
// sample time for every analyzed frame, with the selected top picks marked
// separately. A charting failure is never fatal to a run; callers should log
// and continue (see SPEC_FULL.md §4.10).
func WriteScoreChart(outDir string, all []*metrics.Frame, top []*metrics.Frame) error {
	p := plot.New()
	p.Title.Text = "score by sample time"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "score"

	allPts := make(plotter.XYs, len(all))
	for i, f := range all {
		allPts[i].X = f.T
		allPts[i].Y = f.Score
	}
	allLine, err := plotter.NewLine(allPts)
	if err != nil {
		return fmt.Errorf("could not build score line: %w", err)
	}
	p.Add(allLine)
	p.Legend.Add("all frames", allLine)

	if len(top) > 0 {
		topPts := make(plotter.XYs, len(top))
		for i, f := range top {
			topPts[i].X = f.T
			topPts[i].Y = f.Score
		}
		topScatter, err := plotter.NewScatter(topPts)
		if err != nil {
			return fmt.Errorf("could not build top-pick scatter: %w", err)
		}
		p.Add(topScatter)
		p.Legend.Add("top picks", topScatter)
	}

	dst := filepath.Join(outDir, scoreChartName)
	if err := p.Save(8*vg.Inch, 4*vg.Inch, dst); err != nil {
		return fmt.Errorf("could not save score chart: %w", err)
	}
	return nil
}
