package fraud

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"checklens/internal/config"
	"checklens/internal/domain"
	"checklens/internal/extract"
)

// Histogram binning for the HSV color distribution: 50 hue x 60 saturation
// x 60 value buckets.
const (
	hueBins = 50
	satBins = 60
	valBins = 60
)

// edgeThreshold is the Sobel gradient magnitude above which a pixel counts
// as an edge.
const edgeThreshold = 255.0

// DetectTampering computes the visual tamper statistics for one check image:
// the fraction of pixels on a gray-scale edge map, and the variance of a
// binned HSV color histogram. High edge density suggests pasted-in regions;
// a spiky color distribution suggests recoloring. Both thresholds are ad hoc
// heuristics, not calibrated detectors.
func DetectTampering(imageBytes []byte, cfg config.FraudConfig) (*domain.TamperingResult, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("image too small for edge analysis: %dx%d", w, h)
	}

	gray := make([]float64, w*h)
	hist := make([]float64, hueBins*satBins*valBins)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rf, gf, bf := float64(r>>8), float64(g>>8), float64(b>>8)

			gray[y*w+x] = 0.299*rf + 0.587*gf + 0.114*bf

			hue, sat, val := rgbToHSV(rf, gf, bf)
			hi := binIndex(hue/360, hueBins)
			si := binIndex(sat, satBins)
			vi := binIndex(val/255, valBins)
			hist[(hi*satBins+si)*valBins+vi]++
		}
	}

	density := edgeDensity(gray, w, h)
	variance := histVariance(hist)

	score := 0.0
	if density > cfg.EdgeDensityThreshold {
		score += 30
	}
	if variance > cfg.ColorVarianceThreshold {
		score += 20
	}

	return &domain.TamperingResult{
		TamperingScore: extract.Clamp(score, 0, 100),
		EdgeDensity:    density,
		ColorVariance:  variance,
	}, nil
}

// edgeDensity runs a Sobel operator over the luma plane and returns the
// fraction of pixels whose gradient magnitude clears edgeThreshold. Border
// pixels are not flagged.
func edgeDensity(gray []float64, w, h int) float64 {
	edges := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := gray[(y-1)*w+x+1] + 2*gray[y*w+x+1] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[y*w+x-1] - gray[(y+1)*w+x-1]
			gy := gray[(y+1)*w+x-1] + 2*gray[(y+1)*w+x] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[(y-1)*w+x] - gray[(y-1)*w+x+1]
			if math.Hypot(gx, gy) > edgeThreshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(w*h)
}

// histVariance is the population variance over all histogram buckets.
func histVariance(hist []float64) float64 {
	n := float64(len(hist))
	mean := 0.0
	for _, v := range hist {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range hist {
		d := v - mean
		variance += d * d
	}
	return variance / n
}

func rgbToHSV(r, g, b float64) (hue, sat, val float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	val = maxC
	if maxC > 0 {
		sat = delta / maxC
	}
	if delta == 0 {
		return 0, sat, val
	}

	switch maxC {
	case r:
		hue = math.Mod((g-b)/delta, 6)
	case g:
		hue = (b-r)/delta + 2
	default:
		hue = (r-g)/delta + 4
	}
	hue *= 60
	if hue < 0 {
		hue += 360
	}
	return hue, sat, val
}

func binIndex(normalized float64, bins int) int {
	idx := int(normalized * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
