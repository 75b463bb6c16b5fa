/*
DESCRIPTION
  session.go implements the Pipeline Session: the single-run orchestrator
  composing the video source, sampler, metrics engine, ranker, neighbor
  fetcher, and manifest writer, and owning progress reporting and resource
  lifetime, grounded on the stage-sequencing and logging discipline of
  revid/pipeline.go and revid/revid.go in the teacher.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package session implements the Pipeline Session: the orchestrator that
// composes every other package into one run, from opening a video through
// writing its manifest.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ausocean/utils/logging"

	"github.com/daverage/yt-thumb/internal/nooplog"
	"github.com/daverage/yt-thumb/manifest"
	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/neighbor"
	"github.com/daverage/yt-thumb/preset"
	"github.com/daverage/yt-thumb/ranker"
	"github.com/daverage/yt-thumb/sampler"
	"github.com/daverage/yt-thumb/video"
)

// Stage names, used verbatim in progress events, per spec §4.9.
const (
	StageOpeningVideo      = "Opening video"
	StageSamplingFrames    = "Sampling frames"
	StageScoringFrames     = "Scoring frames"
	StageSelectingTop      = "Selecting top candidates"
	StageFetchingNeighbors = "Fetching neighbors"
	StageWritingManifest   = "Writing manifest"
	StageCompleted         = "Completed"
	StageConfigurationWarn = "Configuration warning"
)

// ErrConfigInvalid, ErrSourceUnopenable, and ErrWriteFailure are the fatal
// error-kind sentinels from spec §7. DecodeSkip and DetectorMissing are
// local recoveries and never surface as returned errors; they are logged
// and/or reported as progress warnings instead.
var (
	ErrConfigInvalid    = errors.New("config invalid")
	ErrSourceUnopenable = errors.New("video source unopenable")
	ErrWriteFailure     = errors.New("write failure")
)

// ProgressReporter receives the pipeline's stage-by-stage progress tuples.
// max <= 0 signals indeterminate progress within that stage.
type ProgressReporter interface {
	Report(stage string, value, max int, detail string)
}

// noopProgress discards every event.
type noopProgress struct{}

func (noopProgress) Report(string, int, int, string) {}

// Options are the per-session inputs beyond the preset and the injected
// capabilities (§6).
type Options struct {
	OutputDir       string
	TopK            int
	NeighborCount   int
	NeighborOffsets []int // Optional explicit override; DefaultOffsets(NeighborCount) if nil.
	SampleRate      float64 // Optional explicit override; 0 means "use the preset".
	PresetName      string
}

// Session is the Pipeline Session. Construct with New; run with Run.
type Session struct {
	src      video.Source
	eng      *metrics.Engine
	preset   preset.Preset
	opts     Options
	progress ProgressReporter
	log      logging.Logger
	runID    string
	reg      prometheus.Registerer
	counters *runCounters
}

type runCounters struct {
	sampled  prometheus.Counter
	rejected prometheus.Counter
	selected prometheus.Counter
}

func newRunCounters(reg prometheus.Registerer) *runCounters {
	c := &runCounters{
		sampled:  prometheus.NewCounter(prometheus.CounterOpts{Name: "ytthumb_frames_sampled_total", Help: "Frames sampled from the source video."}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{Name: "ytthumb_frames_rejected_total", Help: "Frames eliminated by hard rejection."}),
		selected: prometheus.NewCounter(prometheus.CounterOpts{Name: "ytthumb_frames_selected_total", Help: "Frames selected as thumbnail candidates."}),
	}
	if reg != nil {
		reg.MustRegister(c.sampled, c.rejected, c.selected)
	}
	return c
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithProgress sets the session's progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(s *Session) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithLogger sets the session's structured logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegisterer enables Prometheus run counters, registering them against
// reg. Omit this option to run without metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Session) { s.reg = reg }
}

// WithRunID overrides the session's generated RunID (used by tests that
// need a deterministic value).
func WithRunID(id string) Option {
	return func(s *Session) { s.runID = id }
}

// New returns a Session ready to Run. eng must already be constructed with
// the face detector bank and overlay zones the caller wants (see
// metrics.New); src must already be open.
func New(src video.Source, eng *metrics.Engine, p preset.Preset, opts Options, optFns ...Option) *Session {
	s := &Session{
		src:      src,
		eng:      eng,
		preset:   p,
		opts:     opts,
		progress: noopProgress{},
		log:      nooplog.Logger{},
		runID:    uuid.NewString(),
	}
	for _, fn := range optFns {
		fn(s)
	}
	if s.reg != nil {
		s.counters = newRunCounters(s.reg)
	}
	return s
}

// Run executes the full pipeline: sampling, scoring, selection, neighbor
// fetch, and manifest write, in that order, per spec §2/§4.9. It returns the
// written manifest and its path. On any fatal error all frame buffers
// gathered so far are released before returning.
func (s *Session) Run() (*manifest.Manifest, string, error) {
	if err := s.validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	meta := s.src.Metadata()
	sampleRate := preset.ResolveSampleRate(s.opts.SampleRate, s.preset, meta.FPS)

	s.progress.Report(StageOpeningVideo, 0, 0, meta.Path)

	frames, err := s.sample(meta, sampleRate)
	if err != nil {
		return nil, "", err
	}
	if len(frames) == 0 {
		closeFrames(frames)
		return nil, "", fmt.Errorf("%w: no frames could be sampled", ErrConfigInvalid)
	}

	s.progress.Report(StageScoringFrames, 0, 0, "")
	s.logDiagnostics(StageScoringFrames)
	metrics.Normalize(frames)
	eligible := make([]*metrics.Frame, 0, len(frames))
	for _, f := range frames {
		metrics.Combine(f, s.preset.Weights)
		if metrics.HardReject(f, s.preset.Thresholds, s.preset.RequireFace) {
			if s.counters != nil {
				s.counters.rejected.Inc()
			}
			continue
		}
		eligible = append(eligible, f)
	}

	s.progress.Report(StageSelectingTop, 0, 0, "")
	top := ranker.Select(eligible, s.preset.Thresholds, s.opts.TopK)
	if s.counters != nil {
		s.counters.selected.Add(float64(len(top)))
	}

	offsets := s.opts.NeighborOffsets
	if offsets == nil {
		offsets = neighbor.DefaultOffsets(s.opts.NeighborCount)
	}

	s.progress.Report(StageFetchingNeighbors, 0, len(top), "")
	s.logDiagnostics(StageFetchingNeighbors)
	groups := neighbor.Fetch(s.src, s.eng, top, offsets, sampleRate, meta.Duration)

	s.progress.Report(StageWritingManifest, 0, 0, "")
	params := manifest.Parameters{
		FPS:       sampleRate,
		Top:       s.opts.TopK,
		Neighbors: s.opts.NeighborCount,
		RunID:     s.runID,
	}
	manifestPath, err := manifest.Write(s.opts.OutputDir, meta, s.opts.PresetName, params, frames, top, groups)
	if err != nil {
		s.releaseAll(frames, groups)
		return nil, "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if chartErr := manifest.WriteScoreChart(s.opts.OutputDir, frames, top); chartErr != nil {
		s.log.Warning("could not write score timeline chart", "err", chartErr)
	}

	m, loadErr := manifest.Load(manifestPath)
	s.releaseAll(frames, groups)
	if loadErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrWriteFailure, loadErr)
	}

	s.progress.Report(StageCompleted, 0, 0, manifestPath)
	return m, manifestPath, nil
}

func (s *Session) validate() error {
	if s.opts.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if s.opts.TopK <= 0 {
		return errors.New("top K must be > 0")
	}
	if s.opts.NeighborCount < 0 {
		return errors.New("neighbor count must be >= 0")
	}

	before := s.preset.Thresholds
	if err := s.preset.Validate(s.log); err != nil {
		return err
	}
	if before != s.preset.Thresholds {
		s.progress.Report(StageConfigurationWarn, 0, 0, "one or more threshold fields were defaulted")
	}
	return nil
}

// sample walks the sampler's timestamp sequence, seeking and scoring each
// one. A seek-and-read failure is a DecodeSkip: it is dropped silently and
// counted only against progress, never returned as an error.
func (s *Session) sample(meta video.Metadata, sampleRate float64) ([]*metrics.Frame, error) {
	timestamps := sampler.Generate(meta.Duration, sampleRate)
	frames := make([]*metrics.Frame, 0, len(timestamps))

	s.progress.Report(StageSamplingFrames, 0, len(timestamps), "")
	for i, t := range timestamps {
		img, ok := s.src.SeekAndRead(t)
		if !ok {
			s.progress.Report(StageSamplingFrames, i+1, len(timestamps), "skipped decode failure")
			continue
		}
		f := s.eng.Evaluate(img, t, meta.Duration)
		img.Close()
		frames = append(frames, f)
		if s.counters != nil {
			s.counters.sampled.Inc()
		}
		s.progress.Report(StageSamplingFrames, i+1, len(timestamps), "")
	}
	return frames, nil
}

// releaseAll closes every sampled frame's buffers plus every fetched
// neighbor's buffers; selected top-pick frames are a subset of frames and
// are closed exactly once via that slice.
func (s *Session) releaseAll(frames []*metrics.Frame, groups []neighbor.Group) {
	closeFrames(frames)
	for _, g := range groups {
		for _, n := range g.Neighbors {
			n.Frame.Close()
		}
	}
}

func closeFrames(frames []*metrics.Frame) {
	for _, f := range frames {
		f.Close()
	}
}
