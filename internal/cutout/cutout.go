// Package cutout removes a near-uniform background from product photos by
// chroma keying against a color sampled from the image corners.
package cutout

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"math"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
)

// Channel weights approximate luma sensitivity when measuring color
// distance.
const (
	weightR = 0.30
	weightG = 0.59
	weightB = 0.11
)

// Apply returns a copy of src with pixels close to the sampled background
// color made transparent. threshold is the distance below which a pixel is
// fully cut out; feather is the width of the band over which alpha ramps
// back up to opaque. Alpha is only ever reduced, never increased.
func Apply(src image.Image, threshold, feather float64) *image.NRGBA {
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return out
	}

	bgR, bgG, bgB := sampleBackground(out)

	for y := 0; y < bounds.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+bounds.Dx()*4]
		for x := 0; x < bounds.Dx(); x++ {
			px := row[x*4 : x*4+4]
			d := distance(px[0], px[1], px[2], bgR, bgG, bgB)
			switch {
			case d <= threshold:
				px[3] = 0
			case feather > 0 && d <= threshold+feather:
				ramp := (d - threshold) / feather * 255
				if a := uint8(math.Round(ramp)); a < px[3] {
					px[3] = a
				}
			}
		}
	}
	return out
}

// Process decodes data, applies the cutout and re-encodes as PNG. The
// second return reports whether the cutout ran; on any failure (unknown
// format, zero-sized image, encode error) it returns the original bytes
// unchanged and false.
func Process(data []byte, threshold, feather float64) ([]byte, bool) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	if src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return data, false
	}

	out := Apply(src, threshold, feather)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}

// sampleBackground estimates the background color from four corner blocks,
// taking the per-channel median over all sampled pixels. Block side is about
// 1% of the smaller dimension, at least 4px, clamped to the image.
func sampleBackground(img *image.NRGBA) (uint8, uint8, uint8) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	side := min(w, h) / 100
	if side < 4 {
		side = 4
	}
	if side > w {
		side = w
	}
	if side > h {
		side = h
	}

	var rs, gs, bs []uint8
	corners := [][2]int{
		{0, 0},
		{w - side, 0},
		{0, h - side},
		{w - side, h - side},
	}
	for _, c := range corners {
		for y := c[1]; y < c[1]+side; y++ {
			for x := c[0]; x < c[0]+side; x++ {
				i := y*img.Stride + x*4
				rs = append(rs, img.Pix[i])
				gs = append(gs, img.Pix[i+1])
				bs = append(bs, img.Pix[i+2])
			}
		}
	}
	return median(rs), median(gs), median(bs)
}

func median(v []uint8) uint8 {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
	return v[len(v)/2]
}

func distance(r, g, b, bgR, bgG, bgB uint8) float64 {
	dr := float64(r) - float64(bgR)
	dg := float64(g) - float64(bgG)
	db := float64(b) - float64(bgB)
	return math.Sqrt(weightR*dr*dr + weightG*dg*dg + weightB*db*db)
}
