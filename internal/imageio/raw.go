package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gbuffer-denoise/internal/gbuffer"
)

// rawMagic starts every raw buffer dump.
var rawMagic = [4]byte{'G', 'B', 'U', 'F'}

// ErrBadRaw is returned for files that are not raw buffer dumps.
var ErrBadRaw = errors.New("imageio: not a raw buffer dump")

// rawHeader precedes the little-endian float32 samples, 4 per pixel, row-major.
type rawHeader struct {
	Magic    [4]byte
	Width    uint32
	Height   uint32
	Channels uint32
}

// WriteRaw dumps buf at float32 precision, for offline denoiser training
// and inspection.
func WriteRaw(path string, buf *gbuffer.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	err = writeRaw(w, buf)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return nil
}

func writeRaw(w io.Writer, buf *gbuffer.Buffer) error {
	hdr := rawHeader{
		Magic:    rawMagic,
		Width:    uint32(buf.Width),
		Height:   uint32(buf.Height),
		Channels: gbuffer.Channels,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	var sample [4]byte
	for _, v := range buf.Pix {
		binary.LittleEndian.PutUint32(sample[:], math.Float32bits(float32(v)))
		if _, err := w.Write(sample[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadRaw loads a dump written by WriteRaw.
func ReadRaw(path string) (*gbuffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var hdr rawHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", path, err)
	}
	if hdr.Magic != rawMagic || hdr.Channels != gbuffer.Channels {
		return nil, fmt.Errorf("%w: %s", ErrBadRaw, path)
	}

	buf := gbuffer.NewBuffer(int(hdr.Width), int(hdr.Height))
	var sample [4]byte
	for i := range buf.Pix {
		if _, err := io.ReadFull(r, sample[:]); err != nil {
			return nil, fmt.Errorf("imageio: read %s: %w", path, err)
		}
		buf.Pix[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(sample[:])))
	}
	return buf, nil
}
