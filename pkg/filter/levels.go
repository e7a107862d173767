package filter

import "math"

// NegateRaster replaces every sample s with 255 - s.
func NegateRaster(r *Raster) {
	for _, row := range r.Rows {
		for i, s := range row {
			row[i] = 255 - s
		}
	}
}

// BrightnessRaster scales every sample by percent/100 and clamps:
// s' = clamp(s + percent/100*s). Negative percent darkens.
func BrightnessRaster(r *Raster, percent float64) {
	if percent == 0 {
		return
	}
	f := percent / 100
	for _, row := range r.Rows {
		for i, s := range row {
			v := float64(s)
			row[i] = clampSample(v + f*v)
		}
	}
}

// ContrastRaster scales the deviation from mid-gray by multiplier:
// s' = clamp(multiplier*(s-127) + 127).
func ContrastRaster(r *Raster, multiplier float64) {
	if multiplier == 1 {
		return
	}
	for _, row := range r.Rows {
		for i, s := range row {
			row[i] = clampSample(multiplier*(float64(s)-127) + 127)
		}
	}
}

// clampSample bounds v to [0,255], truncating toward zero in range. NaN maps to 0.
func clampSample(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
