package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gbuffer-denoise/internal/composite"
	"gbuffer-denoise/internal/imageio"
	"gbuffer-denoise/internal/logging"
	"gbuffer-denoise/internal/pipeline"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Planes        imageio.PlaneNames
	Pipeline      *pipeline.Pipeline
	Format        string
	PreviewSize   int
	WriteDenoised bool
	WriteRaw      bool
	Workers       int
}

// FrameRef names one frame directory.
type FrameRef struct {
	Name string
	Dir  string
}

// Result holds the outcome of processing one frame.
type Result struct {
	Name    string
	Width   int
	Height  int
	Outputs []string // paths relative to the output directory
	Elapsed time.Duration
	Success bool
	Error   string
}

// Discover lists the frames under inputDir. If inputDir itself holds a
// lighting plane it is the only frame; otherwise every subdirectory that
// holds one is a frame. Frames are sorted by name.
func Discover(inputDir string, planes imageio.PlaneNames) ([]FrameRef, error) {
	planes = planes.WithDefaults()
	if _, err := os.Stat(filepath.Join(inputDir, planes.Lighting)); err == nil {
		return []FrameRef{{Name: filepath.Base(filepath.Clean(inputDir)), Dir: inputDir}}, nil
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", inputDir, err)
	}
	var frames []FrameRef
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(inputDir, e.Name())
		if _, err := os.Stat(filepath.Join(dir, planes.Lighting)); err != nil {
			continue
		}
		frames = append(frames, FrameRef{Name: e.Name(), Dir: dir})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Name < frames[j].Name })
	return frames, nil
}

// Run processes all frames using a worker pool. Frames not yet started when
// ctx is cancelled are reported as failed.
func Run(ctx context.Context, cfg Config, frames []FrameRef) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	start := time.Now()
	log := logging.Logger()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("batch progress", "done", p, "total", total, "frames_per_sec", rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(ctx, cfg, frames[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func processFrame(ctx context.Context, cfg Config, ref FrameRef) Result {
	start := time.Now()
	res := Result{Name: ref.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Elapsed = time.Since(start)
		logging.Logger().Warn("frame failed", "frame", ref.Name, "err", err)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	frame, err := imageio.LoadFrame(ref.Dir, cfg.Planes)
	if err != nil {
		return fail(err)
	}
	res.Width, res.Height = frame.Width(), frame.Height()

	img, out, err := cfg.Pipeline.Render(ctx, frame)
	if err != nil {
		return fail(err)
	}

	outDir := filepath.Join(cfg.OutputDir, ref.Name)
	save := func(name string, write func(path string) error) error {
		path := filepath.Join(outDir, name)
		if err := write(path); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, filepath.ToSlash(filepath.Join(ref.Name, name)))
		return nil
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fail(fmt.Errorf("batch: mkdir %s: %w", outDir, err))
	}

	ext := "." + cfg.Format
	if err := save("final"+ext, func(p string) error { return imageio.Save(p, img) }); err != nil {
		return fail(err)
	}
	if cfg.WriteDenoised {
		den := composite.ToNRGBA(out.Denoised, cfg.Pipeline.Tonemap())
		if err := save("denoised"+ext, func(p string) error { return imageio.Save(p, den) }); err != nil {
			return fail(err)
		}
	}
	if cfg.PreviewSize > 0 {
		preview := imageio.Downscale(img, cfg.PreviewSize)
		if err := save("preview"+ext, func(p string) error { return imageio.Save(p, preview) }); err != nil {
			return fail(err)
		}
	}
	if cfg.WriteRaw {
		for _, r := range []struct {
			name string
			dump func(string) error
		}{
			{"lighting.dat", func(p string) error { return imageio.WriteRaw(p, frame.Lighting) }},
			{"denoised.dat", func(p string) error { return imageio.WriteRaw(p, out.Denoised) }},
			{"final.dat", func(p string) error { return imageio.WriteRaw(p, out.Final) }},
		} {
			if err := save(r.name, r.dump); err != nil {
				return fail(err)
			}
		}
	}

	res.Success = true
	res.Elapsed = time.Since(start)
	logging.Logger().Info("frame done", "frame", ref.Name,
		"width", res.Width, "height", res.Height, "elapsed", res.Elapsed)
	return res
}
