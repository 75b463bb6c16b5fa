/*
DESCRIPTION
  preset.go defines the read-only inputs the core pipeline consumes: the
  scoring preset and the per-session options. Loading a preset from JSON,
  merging presets, and applying inline weight overrides are all external
  collaborators' concerns (handled by a GUI/CLI layer); this package only
  defines the shape those collaborators populate and validates it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package preset defines PresetDefinition, its nested weight/threshold/zone
// types, and the per-session options the pipeline needs beyond the preset.
package preset

import (
	"errors"
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/daverage/yt-thumb/internal/nooplog"
)

// SamplingMode selects how SamplingPolicy.Value is interpreted.
type SamplingMode int

const (
	// FPS: Value is a frames-per-second sample rate directly.
	FPS SamplingMode = iota
	// FPM: Value is frames-per-minute; the effective rate is Value/60.
	FPM
)

// SamplingPolicy describes the preset's preferred sample rate, used only
// when a session does not supply an explicit rate.
type SamplingPolicy struct {
	Mode  SamplingMode
	Value float64 // > 0.
}

// Weights are the ten pass-through coefficients combined into the final
// score. They are not renormalized; callers are responsible for choosing
// values that produce a meaningful score range.
type Weights struct {
	Sharpness    float64
	Exposure     float64
	Contrast     float64
	Colorfulness float64
	Face         float64
	Centrality   float64
	Clutter      float64
	OverlaySafe  float64
	Motion       float64
	TimePrior    float64
}

// Thresholds are the hard-gate and diversity parameters.
type Thresholds struct {
	SharpMin          float64
	Lmin              float64
	Lmax              float64
	TemporalMinGapSec float64
	AppearanceMinDist float64
}

// OverlayZone is a rectangle in normalized [0,1]x[0,1] image coordinates
// where a future text/graphic overlay is expected to sit.
type OverlayZone struct {
	X, Y, W, H float64
}

// Preset is the read-only scoring configuration for one pipeline run.
type Preset struct {
	Name         string
	RequireFace  bool
	Sampling     SamplingPolicy
	Weights      Weights
	Thresholds   Thresholds
	OverlayZones []OverlayZone
}

// Default returns a conservative, generally-reasonable preset, used when a
// caller hasn't loaded one of its own. Threshold units are in the raw metric
// domain (see DESIGN.md's "Open Question" note): sharpMin/Lmin/Lmax are
// compared against raw Sharpness/Exposure, never the normalized values.
func Default() Preset {
	return Preset{
		Name:        "default",
		RequireFace: false,
		Sampling:    SamplingPolicy{Mode: FPS, Value: 2},
		Weights: Weights{
			Sharpness:    0.2,
			Exposure:     0.1,
			Contrast:     0.1,
			Colorfulness: 0.1,
			Face:         0.15,
			Centrality:   0.1,
			Clutter:      0.1,
			OverlaySafe:  0.05,
			Motion:       0.05,
			TimePrior:    0.05,
		},
		Thresholds: Thresholds{
			SharpMin:          50,
			Lmin:              15,
			Lmax:              240,
			TemporalMinGapSec: 2,
			AppearanceMinDist: 0.15,
		},
	}
}

// Validate checks the preset for internal consistency, mirroring
// config.Config.Validate/LogInvalidField in the teacher. A negative
// TemporalMinGapSec or AppearanceMinDist is logged as a warning and replaced
// with 0; a non-positive sampling value, Lmin > Lmax, or an overlay zone with
// non-positive extent is returned as an error.
func (p *Preset) Validate(log logging.Logger) error {
	if log == nil {
		log = nooplog.Logger{}
	}

	if p.Sampling.Value <= 0 {
		return errors.New("preset sampling value must be > 0")
	}
	if p.Thresholds.Lmin > p.Thresholds.Lmax {
		return fmt.Errorf("preset thresholds invalid: Lmin (%v) > Lmax (%v)", p.Thresholds.Lmin, p.Thresholds.Lmax)
	}
	if p.Thresholds.TemporalMinGapSec < 0 {
		p.logInvalidField(log, "TemporalMinGapSec", 0.0)
		p.Thresholds.TemporalMinGapSec = 0
	}
	if p.Thresholds.AppearanceMinDist < 0 {
		p.logInvalidField(log, "AppearanceMinDist", 0.0)
		p.Thresholds.AppearanceMinDist = 0
	}
	for i, z := range p.OverlayZones {
		if z.W <= 0 || z.H <= 0 {
			return fmt.Errorf("overlay zone %d has non-positive extent: %+v", i, z)
		}
	}
	return nil
}

// logInvalidField logs a field being defaulted, mirroring
// config.Config.LogInvalidField in the teacher.
func (p *Preset) logInvalidField(log logging.Logger, name string, def interface{}) {
	log.Warning(name+" bad or unset, defaulting", name, def)
}

// ResolveSampleRate computes the effective sample rate in Hz per §4.9's
// resolution order: an explicit override wins, then the preset's own
// sampling policy, then a fallback derived from the video's own frame rate.
func ResolveSampleRate(explicit float64, p Preset, videoFPS float64) float64 {
	if explicit > 0 {
		return explicit
	}
	switch p.Sampling.Mode {
	case FPS:
		if p.Sampling.Value > 0 {
			return p.Sampling.Value
		}
	case FPM:
		if p.Sampling.Value > 0 {
			return p.Sampling.Value / 60
		}
	}
	if videoFPS < 2.0 {
		return videoFPS
	}
	return 2.0
}
