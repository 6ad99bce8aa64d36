package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gbuffer-denoise/internal/batch"
	"gbuffer-denoise/internal/composite"
	"gbuffer-denoise/internal/config"
	"gbuffer-denoise/internal/denoise"
	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/logging"
	"gbuffer-denoise/internal/pipeline"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Frame directory, or a directory of frame directories")
	outputDir := flag.String("output", "", "Output directory (default: <input>/denoised)")
	schedule := flag.String("schedule", "", "Comma-separated denoise step sizes (default: 1)")
	atrous := flag.Bool("atrous", false, "Use the full a-trous schedule 1,2,4,8,8,16")
	format := flag.String("format", "", "Output format: webp, png or tga (default: webp)")
	tonemap := flag.String("tonemap", "", "Display mapping: clamp or aces (default: clamp)")
	workers := flag.Int("workers", 0, "Number of tile worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Process only first N frames for testing")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	steps, err := parseSchedule(*schedule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *atrous {
		steps = denoise.AtrousSchedule
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Schedule:  steps,
		Format:    *format,
		Tonemap:   *tonemap,
		Workers:   *workers,
	})

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input directory. Use -input flag or config.json.")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	frames, err := batch.Discover(cfg.InputDir, cfg.Planes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(frames) {
		frames = frames[:*testN]
	}
	if len(frames) == 0 {
		fmt.Println("No frames to process.")
		os.Exit(0)
	}

	tm, _ := composite.TonemapByName(cfg.Tonemap)
	pool := dispatch.NewPool(cfg.Workers, cfg.GroupSize)
	defer pool.Close()
	p := pipeline.New(denoise.Options{
		Schedule:     cfg.Schedule,
		QuantizeBits: cfg.QuantizeBits,
	}, pool, tm)

	fmt.Printf("G-buffer denoise → %s\n", strings.ToUpper(cfg.Format))
	fmt.Printf("Frames: %d, Schedule: %v, Workers: %d\n", len(frames), cfg.Schedule, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		OutputDir:     cfg.OutputDir,
		Planes:        cfg.Planes,
		Pipeline:      p,
		Format:        cfg.Format,
		PreviewSize:   cfg.PreviewSize,
		WriteDenoised: cfg.WriteDenoised,
		WriteRaw:      cfg.WriteRaw,
		Workers:       cfg.FrameWorkers,
	}, frames)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, failed := batch.Summary(results)
	fmt.Printf("Processed: %d/%d\n", success, len(frames))
	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
			if shown++; shown == 20 {
				break
			}
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		pool.Close()
		os.Exit(1)
	}
}

func parseSchedule(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var steps []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad -schedule %q: %w", s, err)
		}
		steps = append(steps, n)
	}
	return steps, nil
}
