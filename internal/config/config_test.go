package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Variant:         VariantTimed,
		HTTPPort:        8080,
		MetricsPort:     9090,
		PrefsBackend:    "memory",
		CountdownTarget: "2025-02-06T23:59:59",
		LogLevel:        "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown variant", func(c *Config) { c.Variant = "swipe" }, true},
		{"port out of range", func(c *Config) { c.HTTPPort = 70000 }, true},
		{"same ports", func(c *Config) { c.MetricsPort = c.HTTPPort }, true},
		{"unknown backend", func(c *Config) { c.PrefsBackend = "etcd" }, true},
		{"file without path", func(c *Config) { c.PrefsBackend = "file"; c.PrefsPath = "" }, true},
		{"bad target", func(c *Config) { c.CountdownTarget = "tomorrow" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestTargetIsLocalTime(t *testing.T) {
	cfg := validConfig()
	target, err := cfg.Target()
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	want := time.Date(2025, time.February, 6, 23, 59, 59, 0, time.Local)
	if !target.Equal(want) {
		t.Errorf("Expected %v, got %v", want, target)
	}
}

func TestProfiles(t *testing.T) {
	for _, v := range Variants() {
		p, ok := ProfileFor(v)
		if !ok {
			t.Fatalf("Missing profile for %s", v)
		}
		if p.ParticlesNarrow >= p.ParticlesWide {
			t.Errorf("%s: narrow count %d should be below wide count %d", v, p.ParticlesNarrow, p.ParticlesWide)
		}
		if p.MinDuration >= p.MaxDuration {
			t.Errorf("%s: bad duration range %.1f-%.1f", v, p.MinDuration, p.MaxDuration)
		}
	}

	click, _ := ProfileFor(VariantClick)
	if click.CanvasHeight != 1800 || click.Filename != "pergamino-reyes-magos.png" || !click.Countdown {
		t.Errorf("Unexpected click profile: %+v", click)
	}
	timed, _ := ProfileFor(VariantTimed)
	if timed.CanvasHeight != 1600 || timed.Filename != "vale-dia-spa-reyes-magos.png" {
		t.Errorf("Unexpected timed profile: %+v", timed)
	}
}
