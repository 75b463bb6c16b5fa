package preset

import "testing"

func TestResolveSampleRate(t *testing.T) {
	p := Default()

	if got := ResolveSampleRate(5, p, 30); got != 5 {
		t.Errorf("explicit override: got %v, want 5", got)
	}

	p.Sampling = SamplingPolicy{Mode: FPS, Value: 3}
	if got := ResolveSampleRate(0, p, 30); got != 3 {
		t.Errorf("fps mode: got %v, want 3", got)
	}

	p.Sampling = SamplingPolicy{Mode: FPM, Value: 120}
	if got := ResolveSampleRate(0, p, 30); got != 2 {
		t.Errorf("fpm mode: got %v, want 2", got)
	}

	p.Sampling = SamplingPolicy{}
	if got := ResolveSampleRate(0, p, 1.0); got != 1.0 {
		t.Errorf("fallback with low fps: got %v, want 1.0", got)
	}
	if got := ResolveSampleRate(0, p, 60); got != 2.0 {
		t.Errorf("fallback with high fps: got %v, want 2.0", got)
	}
}

func TestValidateDefaults(t *testing.T) {
	p := Default()
	if err := p.Validate(nil); err != nil {
		t.Fatalf("Validate() on default preset: %v", err)
	}

	bad := Default()
	bad.Thresholds.Lmin = 250
	bad.Thresholds.Lmax = 10
	if err := bad.Validate(nil); err == nil {
		t.Error("Validate() with Lmin > Lmax: want error, got nil")
	}

	neg := Default()
	neg.Thresholds.TemporalMinGapSec = -1
	if err := neg.Validate(nil); err != nil {
		t.Fatalf("Validate() with negative gap: %v", err)
	}
	if neg.Thresholds.TemporalMinGapSec != 0 {
		t.Errorf("negative TemporalMinGapSec not defaulted: got %v", neg.Thresholds.TemporalMinGapSec)
	}
}

func TestValidateBadZone(t *testing.T) {
	p := Default()
	p.OverlayZones = []OverlayZone{{X: 0, Y: 0, W: 0, H: 0.1}}
	if err := p.Validate(nil); err == nil {
		t.Error("Validate() with zero-width zone: want error, got nil")
	}
}
