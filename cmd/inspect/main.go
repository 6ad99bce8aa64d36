package main

import (
	"flag"
	"fmt"
	"os"

	"gbuffer-denoise/internal/denoise"
	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/imageio"
)

func main() {
	rawFile := flag.String("raw", "", "Inspect a .dat buffer dump instead of a frame directory")
	flag.Parse()

	if *rawFile != "" {
		buf, err := imageio.ReadRaw(*rawFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %dx%d\n", *rawFile, buf.Width, buf.Height)
		printStats("buffer", buf)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-raw file.dat] <frame-dir>")
		os.Exit(2)
	}
	dir := flag.Arg(0)
	frame, err := imageio.LoadFrame(dir, imageio.PlaneNames{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Frame %s: %dx%d (%d pixels)\n", dir, frame.Width(), frame.Height(), frame.Lighting.Len())
	printStats("lighting", frame.Lighting)
	printStats("normal", frame.Normal)
	printStats("albedo", frame.Albedo)
	printStats("emission", frame.Emission)

	lo, hi := frame.Distance.DistanceRange()
	fmt.Printf("  distance  range [%.3f, %.3f]\n", lo, hi)
	fmt.Printf("  mask      %.1f%% of pixels denoised\n", 100*frame.Normal.MaskCoverage(denoise.MaskThreshold))
}

func printStats(name string, b *gbuffer.Buffer) {
	s := b.ComputeStats()
	fmt.Printf("  %-9s min (%.3f %.3f %.3f %.3f)\n", name, s.Min[0], s.Min[1], s.Min[2], s.Min[3])
	fmt.Printf("  %-9s max (%.3f %.3f %.3f %.3f)\n", "", s.Max[0], s.Max[1], s.Max[2], s.Max[3])
	fmt.Printf("  %-9s mean (%.3f %.3f %.3f %.3f)\n", "", s.Mean[0], s.Mean[1], s.Mean[2], s.Mean[3])
}
