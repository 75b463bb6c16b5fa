/*
DESCRIPTION
  ytthumb is a command-line tool that picks a small set of visually strong,
  mutually diverse thumbnail candidates from a video file using classical
  image-analysis heuristics, offline and without any learned model.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the ytthumb command-line entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"gocv.io/x/gocv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/daverage/yt-thumb/facebank"
	"github.com/daverage/yt-thumb/metrics"
	"github.com/daverage/yt-thumb/preset"
	"github.com/daverage/yt-thumb/session"
	"github.com/daverage/yt-thumb/video"
)

// Logging configuration, mirroring cmd/rv/main.go's own lumberjack setup.
const (
	logPath      = "ytthumb.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

const pkg = "ytthumb: "

func main() {
	// Primary flags, stdlib flag, matching cmd/rv/main.go's own primary set.
	in := flag.String("in", "", "input video file path")
	out := flag.String("out", "", "output directory")
	presetName := flag.String("preset", "default", "preset name (recorded in the manifest)")
	topK := flag.Int("top", 5, "number of thumbnail candidates to select")
	neighbors := flag.Int("neighbors", 2, "number of neighbor frames to fetch per candidate")
	sampleRate := flag.Float64("rate", 0, "explicit sample rate in Hz (0 = use preset)")
	requireFace := flag.Bool("require-face", false, "reject frames with no detected face")
	frontalCascade := flag.String("cascade-frontal", "", "path to a frontal-face Haar cascade XML file")
	profileCascade := flag.String("cascade-profile", "", "path to a profile-face Haar cascade XML file")
	showVersion := flag.Bool("version", false, "show version")

	// Power-user long-form flags, spf13/pflag, grounded on govship's own CLI.
	workers := pflag.Int("workers", 1, "reserved for future parallel neighbor fetching")
	metricsAddr := pflag.String("metrics-addr", "", "if set, serve Prometheus run counters on this address")

	// Merge the stdlib flag set into pflag's so both flag styles parse off
	// the same argv in one pass; pflag.Parse is authoritative here.
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	_ = workers

	if *showVersion {
		fmt.Println("ytthumb v0.1.0")
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *in == "" || *out == "" {
		log.Fatal(pkg + "-in and -out are required")
	}

	var reg prometheus.Registerer
	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warning(pkg+"metrics server stopped", "error", err.Error())
			}
		}()
	}

	src, err := video.Open(*in)
	if err != nil {
		log.Fatal(pkg+"could not open video source", "error", err.Error())
	}
	defer src.Close()

	bank := facebank.New(loadClassifiers(log, *frontalCascade, *profileCascade), log)
	eng := metrics.New(bank, nil)
	defer eng.Close()

	p := preset.Default()
	p.Name = *presetName
	p.RequireFace = *requireFace

	opts := session.Options{
		OutputDir:     *out,
		TopK:          *topK,
		NeighborCount: *neighbors,
		SampleRate:    *sampleRate,
		PresetName:    p.Name,
	}

	progress := newTermProgress(os.Stderr)
	sess := session.New(src, eng, p, opts,
		session.WithProgress(progress),
		session.WithLogger(log),
		session.WithRegisterer(reg),
	)

	log.Info(pkg+"starting run", "input", *in, "output", *out)
	_, manifestPath, err := sess.Run()
	if err != nil {
		log.Fatal(pkg+"run failed", "error", err.Error())
	}
	log.Info(pkg+"run complete", "manifest", manifestPath)
}

// loadClassifiers opens whatever cascade files the caller pointed at,
// leaving the rest nil (facebank degrades those modes to warnings, never
// fatal errors, per spec §4.3). Cascade file discovery proper is an external
// concern; this is just the thinnest possible loader.
func loadClassifiers(log logging.Logger, frontalPath, profilePath string) facebank.Classifiers {
	var c facebank.Classifiers
	if frontalPath != "" {
		cc := gocv.NewCascadeClassifier()
		if cc.Load(frontalPath) {
			c.Frontal = &cc
		} else {
			log.Warning(pkg+"could not load frontal cascade", "path", frontalPath)
		}
	}
	if profilePath != "" {
		cc := gocv.NewCascadeClassifier()
		if cc.Load(profilePath) {
			c.Profile = &cc
		} else {
			log.Warning(pkg+"could not load profile cascade", "path", profilePath)
		}
	}
	return c
}
