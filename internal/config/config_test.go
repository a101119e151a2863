package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"casemark/internal/texture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: casemark-test
  environment: staging
server:
  address: ":9090"
  read_timeout: 5s
  write_timeout: 45s
logging:
  level: debug
imaging:
  texture_mode: fast
  firing_pin_max_dim: 1200
  striation_min_line_length: 40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "casemark-test" || cfg.App.Environment != "staging" {
		t.Errorf("app section = %+v", cfg.App)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q, want :9090", cfg.Server.Address)
	}
	if cfg.Server.ReadTimeout.Std() != 5*time.Second {
		t.Errorf("read timeout = %v, want 5s", cfg.Server.ReadTimeout.Std())
	}
	if cfg.Server.WriteTimeout.Std() != 45*time.Second {
		t.Errorf("write timeout = %v, want 45s", cfg.Server.WriteTimeout.Std())
	}
	// Unset field falls back to the default.
	if cfg.Server.IdleTimeout.Std() != 60*time.Second {
		t.Errorf("idle timeout = %v, want default 60s", cfg.Server.IdleTimeout.Std())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := writeConfig(t, "server:\n  read_timeout: soon\n")
	if _, err := Load(path); err == nil {
		t.Error("invalid duration accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.App.Name != "casemark" {
		t.Errorf("name = %q, want casemark", cfg.App.Name)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Output != "console" {
		t.Errorf("logging section = %+v", cfg.Logging)
	}
	if cfg.Imaging.TextureMode != string(texture.ModeFull) {
		t.Errorf("texture mode = %q, want full", cfg.Imaging.TextureMode)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Imaging.TextureMode = string(texture.ModeFast)
	cfg.Imaging.FiringPinMaxDim = 1000
	cfg.Imaging.FiringPinMinRadius = 12
	cfg.Imaging.StriationMaxLineGap = 25

	opts := cfg.PipelineOptions()

	if opts.Texture.Mode != texture.ModeFast {
		t.Errorf("texture mode = %q, want fast", opts.Texture.Mode)
	}
	if opts.FiringPin.MaxDimPx != 1000 {
		t.Errorf("firing pin max dim = %d, want 1000", opts.FiringPin.MaxDimPx)
	}
	if opts.FiringPin.MinRadiusPx != 12 {
		t.Errorf("min radius = %d, want 12", opts.FiringPin.MinRadiusPx)
	}
	if opts.Striation.MaxLineGap != 25 {
		t.Errorf("max line gap = %v, want 25", opts.Striation.MaxLineGap)
	}

	// Untouched tunings keep their stage defaults.
	def := Default().PipelineOptions()
	if opts.Striation.MinLineLength != def.Striation.MinLineLength {
		t.Errorf("min line length changed unexpectedly: %v", opts.Striation.MinLineLength)
	}
}
