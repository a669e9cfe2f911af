package heuristic

import (
	"image"
	"image/color"
	"math"
)

// Phone-like bounding boxes are taller than wide, with width/height between
// these bounds. Covers portrait phones held upright or slightly tilted.
const (
	minPhoneAspect = 0.4
	maxPhoneAspect = 0.7
)

var maskOn = color.Gray{Y: 255}

type component struct {
	rect image.Rectangle
	area int
}

func phoneLikeAspect(r image.Rectangle) bool {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return false
	}
	ratio := float64(w) / float64(h)
	return ratio >= minPhoneAspect && ratio <= maxPhoneAspect
}

// sobelMask computes the Sobel gradient magnitude of gray and returns a binary
// mask of pixels whose magnitude exceeds threshold.
func sobelMask(gray *image.Gray, threshold float64) *image.Gray {
	b := gray.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			p00 := int(gray.GrayAt(x-1, y-1).Y)
			p01 := int(gray.GrayAt(x, y-1).Y)
			p02 := int(gray.GrayAt(x+1, y-1).Y)
			p10 := int(gray.GrayAt(x-1, y).Y)
			p12 := int(gray.GrayAt(x+1, y).Y)
			p20 := int(gray.GrayAt(x-1, y+1).Y)
			p21 := int(gray.GrayAt(x, y+1).Y)
			p22 := int(gray.GrayAt(x+1, y+1).Y)

			gx := (p02 + 2*p12 + p22) - (p00 + 2*p10 + p20)
			gy := (p20 + 2*p21 + p22) - (p00 + 2*p01 + p02)
			if math.Sqrt(float64(gx*gx+gy*gy)) > threshold {
				mask.SetGray(x, y, maskOn)
			}
		}
	}
	return mask
}

// dilate grows the on-pixels of a binary mask using a square kernel, applied
// iterations times. Used to close gaps between edge fragments before
// connected-component labeling.
func dilate(mask *image.Gray, kernelSize, iterations int) *image.Gray {
	if kernelSize < 3 {
		kernelSize = 3
	}
	radius := kernelSize / 2
	src := mask
	b := mask.Bounds()
	for i := 0; i < iterations; i++ {
		dst := image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if src.GrayAt(x, y).Y == 0 {
					continue
				}
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						px, py := x+dx, y+dy
						if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
							continue
						}
						dst.SetGray(px, py, maskOn)
					}
				}
			}
		}
		src = dst
	}
	return src
}

// components labels 4-connected regions of on-pixels and returns each region's
// bounding box and pixel count.
func components(mask *image.Gray) []component {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	idx := func(x, y int) int { return (y-b.Min.Y)*w + (x - b.Min.X) }

	var out []component
	stack := make([]image.Point, 0, 256)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if visited[idx(x, y)] || mask.GrayAt(x, y).Y == 0 {
				continue
			}
			comp := component{rect: image.Rect(x, y, x+1, y+1)}
			stack = append(stack[:0], image.Pt(x, y))
			visited[idx(x, y)] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.area++
				comp.rect = comp.rect.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
				for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					if visited[idx(nx, ny)] || mask.GrayAt(nx, ny).Y == 0 {
						continue
					}
					visited[idx(nx, ny)] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}
			out = append(out, comp)
		}
	}
	return out
}

// otsuThreshold picks the binarization threshold that maximizes between-class
// variance of the grayscale histogram.
func otsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 128
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, count := range hist {
		sum += float64(i) * float64(count)
	}

	var (
		sumBack    float64
		weightBack int
		bestVar    float64
		best       uint8
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t) * float64(hist[t])
		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		betweenVar := float64(weightBack) * float64(weightFore) * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			best = uint8(t)
		}
	}
	return best
}

// rgbToHSV converts 8-bit RGB to OpenCV-style HSV: H in [0,180), S and V in
// [0,255].
func rgbToHSV(r, g, b uint8) (float64, float64, float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case max == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max
	}
	return h / 2, s * 255, max * 255
}
