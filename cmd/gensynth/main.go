package main

import (
	"flag"
	"fmt"
	"os"

	"gbuffer-denoise/internal/imageio"
	"gbuffer-denoise/internal/synth"
)

func main() {
	outputDir := flag.String("output", "synth_frame", "Frame directory to write")
	width := flag.Int("width", 256, "Frame width")
	height := flag.Int("height", 160, "Frame height")
	noise := flag.Float64("noise", 0.15, "Lighting noise amplitude")
	seed := flag.Uint64("seed", 1, "Noise seed")
	flag.Parse()

	if *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -width and -height must be positive")
		os.Exit(2)
	}

	f := synth.Frame(synth.Options{Width: *width, Height: *height, Noise: *noise, Seed: *seed})
	if err := imageio.SaveFrame(*outputDir, imageio.PlaneNames{}, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %dx%d frame to %s\n", *width, *height, *outputDir)
}
