package imageio

import (
	"fmt"
	"os"
	"path/filepath"

	"gbuffer-denoise/internal/gbuffer"
)

// PlaneNames holds the file name of each plane inside a frame directory.
type PlaneNames struct {
	Lighting string `json:"lighting"`
	Normal   string `json:"normal"`
	Distance string `json:"distance"`
	Albedo   string `json:"albedo"`
	Emission string `json:"emission"`
}

// DefaultPlaneNames returns the standard plane file names.
func DefaultPlaneNames() PlaneNames {
	return PlaneNames{
		Lighting: "lighting.png",
		Normal:   "normal.png",
		Distance: "distance.png",
		Albedo:   "albedo.png",
		Emission: "emission.png",
	}
}

// WithDefaults fills empty names from DefaultPlaneNames.
func (n PlaneNames) WithDefaults() PlaneNames {
	d := DefaultPlaneNames()
	if n.Lighting == "" {
		n.Lighting = d.Lighting
	}
	if n.Normal == "" {
		n.Normal = d.Normal
	}
	if n.Distance == "" {
		n.Distance = d.Distance
	}
	if n.Albedo == "" {
		n.Albedo = d.Albedo
	}
	if n.Emission == "" {
		n.Emission = d.Emission
	}
	return n
}

type planeFile struct {
	name  string
	plane Plane
	dst   **gbuffer.Buffer
}

func framePlanes(f *gbuffer.Frame, names PlaneNames) []planeFile {
	return []planeFile{
		{names.Lighting, PlaneColor, &f.Lighting},
		{names.Normal, PlaneNormal, &f.Normal},
		{names.Distance, PlaneDistance, &f.Distance},
		{names.Albedo, PlaneColor, &f.Albedo},
		{names.Emission, PlaneColor, &f.Emission},
	}
}

// LoadFrame reads all five planes of the frame stored in dir and validates
// that their sizes agree.
func LoadFrame(dir string, names PlaneNames) (*gbuffer.Frame, error) {
	names = names.WithDefaults()
	f := &gbuffer.Frame{}
	for _, p := range framePlanes(f, names) {
		img, _, err := Decode(filepath.Join(dir, p.name))
		if err != nil {
			return nil, err
		}
		*p.dst = BufferFromImage(img, p.plane)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("imageio: frame %s: %w", dir, err)
	}
	return f, nil
}

// SaveFrame writes all five planes of f into dir as 8-bit images.
func SaveFrame(dir string, names PlaneNames, f *gbuffer.Frame) error {
	names = names.WithDefaults()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("imageio: mkdir %s: %w", dir, err)
	}
	for _, p := range framePlanes(f, names) {
		if *p.dst == nil {
			return fmt.Errorf("imageio: frame plane %s is nil", p.name)
		}
		if err := Save(filepath.Join(dir, p.name), ImageFromBuffer(*p.dst, p.plane)); err != nil {
			return err
		}
	}
	return nil
}
