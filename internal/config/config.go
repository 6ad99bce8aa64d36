package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gbuffer-denoise/internal/composite"
	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/imageio"
)

// Config holds all configurable paths and pass settings.
type Config struct {
	// Paths
	InputDir  string             `json:"input_dir"`
	OutputDir string             `json:"output_dir"`
	Planes    imageio.PlaneNames `json:"planes"`

	// Denoise settings
	Schedule     []int `json:"schedule"`
	GroupSize    int   `json:"group_size"`
	QuantizeBits int   `json:"quantize_bits"`

	// Output settings
	Format        string `json:"format"`
	Tonemap       string `json:"tonemap"`
	PreviewSize   int    `json:"preview_size"`
	WriteDenoised bool   `json:"write_denoised"`
	WriteRaw      bool   `json:"write_raw"`

	Workers      int `json:"workers"`
	FrameWorkers int `json:"frame_workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Schedule  []int
	Format    string
	Tonemap   string
	Workers   int
}

// Resolve applies CLI overrides and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if len(flags.Schedule) > 0 {
		c.Schedule = flags.Schedule
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Tonemap != "" {
		c.Tonemap = flags.Tonemap
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Output goes next to the input unless told otherwise
	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = filepath.Join(c.InputDir, "denoised")
	}

	c.Planes = c.Planes.WithDefaults()

	if len(c.Schedule) == 0 {
		c.Schedule = []int{1}
	}
	if c.GroupSize <= 0 {
		c.GroupSize = dispatch.DefaultGroupSize
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Tonemap == "" {
		c.Tonemap = "clamp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FrameWorkers <= 0 {
		c.FrameWorkers = 1
	}
}

// Validate rejects settings the passes cannot run with.
func (c *Config) Validate() error {
	for i, s := range c.Schedule {
		if s < 1 {
			return fmt.Errorf("config: schedule[%d] = %d, steps must be >= 1", i, s)
		}
	}
	if c.GroupSize < 1 {
		return fmt.Errorf("config: group_size %d must be >= 1", c.GroupSize)
	}
	switch c.QuantizeBits {
	case 0, 8, 16:
	default:
		return fmt.Errorf("config: quantize_bits %d must be 0, 8 or 16", c.QuantizeBits)
	}
	if !imageio.KnownFormat(c.Format) {
		return fmt.Errorf("config: unknown format %q (want one of %v)", c.Format, imageio.Formats)
	}
	if _, err := composite.TonemapByName(c.Tonemap); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PreviewSize < 0 {
		return fmt.Errorf("config: preview_size %d must be >= 0", c.PreviewSize)
	}
	return nil
}
