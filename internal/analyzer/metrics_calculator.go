package analyzer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

var errNoInteriorPixels = errors.New("image too small for a 3x3 neighbourhood")

// metricsCalculator implements MetricsCalculator. Rows are processed in parallel
// strips and reduced in row order, so results do not depend on scheduling.
type metricsCalculator struct {
	workers int
}

// NewMetricsCalculator creates a calculator that uses one goroutine per CPU
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{workers: runtime.NumCPU()}
}

// SharpnessScore maps average edge energy onto [0,100]
func (mc *metricsCalculator) SharpnessScore(img image.Image) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = DefaultMetricScore, apperrors.NewMetricDegradedError(StageSharpness, fmt.Errorf("panic: %v", r))
		}
	}()
	if img == nil {
		return DefaultMetricScore, apperrors.NewMetricDegradedError(StageSharpness, errors.New("no decoded image"))
	}

	energy, err := mc.EdgeEnergy(toGray(img))
	if err != nil {
		return DefaultMetricScore, apperrors.NewMetricDegradedError(StageSharpness, err)
	}
	return math.Min(100, energy/255*100), nil
}

// EdgeEnergy returns the mean absolute 4-neighbour Laplacian over interior pixels
func (mc *metricsCalculator) EdgeEnergy(gray *image.Gray) (float64, error) {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0, errNoInteriorPixels
	}

	stride := gray.Stride
	pix := gray.Pix
	interior := width - 2

	// Kernel: [0, -1, 0; -1, 4, -1; 0, -1, 0]
	rowMeans := make([]float64, height-2)
	err := mc.forEachRow(height-2, func(i int) {
		y := i + 1
		row := y * stride
		var sum int64
		for x := 1; x < width-1; x++ {
			center := int64(pix[row+x])
			top := int64(pix[row-stride+x])
			bottom := int64(pix[row+stride+x])
			left := int64(pix[row+x-1])
			right := int64(pix[row+x+1])

			edge := 4*center - top - bottom - left - right
			if edge < 0 {
				edge = -edge
			}
			sum += edge
		}
		rowMeans[i] = float64(sum) / float64(interior)
	})
	if err != nil {
		return 0, err
	}

	// Every row has the same number of samples, so the mean of row means is the global mean
	return stat.Mean(rowMeans, nil), nil
}

// ColorStatistics derives colour complexity and brightness variance from
// per-channel range and standard deviation
func (mc *metricsCalculator) ColorStatistics(img image.Image) (scores ColorScores, err error) {
	defer func() {
		if r := recover(); r != nil {
			scores, err = defaultColorScores(), apperrors.NewMetricDegradedError(StageColor, fmt.Errorf("panic: %v", r))
		}
	}()
	if img == nil {
		return defaultColorScores(), apperrors.NewMetricDegradedError(StageColor, errors.New("no decoded image"))
	}

	channels, err := mc.ChannelStatistics(toNRGBA(img))
	if err != nil {
		return defaultColorScores(), apperrors.NewMetricDegradedError(StageColor, err)
	}

	var complexity float64
	for _, ch := range channels {
		rangeScore := float64(ch.Max-ch.Min) / 255 * 50
		spreadScore := ch.StdDev / 255 * 50
		complexity += rangeScore + spreadScore
	}
	complexity /= float64(len(channels))

	return ColorScores{
		Channels:           channels,
		Complexity:         clamp(complexity, 0, 100),
		BrightnessVariance: clamp(channels[0].StdDev/255*100, 0, 100),
	}, nil
}

type rowStats struct {
	min, max       [3]uint8
	mean, variance [3]float64
}

// ChannelStatistics computes min, max, mean and population standard deviation for R, G and B
func (mc *metricsCalculator) ChannelStatistics(img *image.NRGBA) ([3]ChannelStats, error) {
	var out [3]ChannelStats
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return out, errors.New("image has no pixels")
	}

	rows := make([]rowStats, height)
	err := mc.forEachRow(height, func(y int) {
		line := img.Pix[y*img.Stride : y*img.Stride+width*4]
		var rs rowStats
		var sum, sumSq [3]uint64
		for c := 0; c < 3; c++ {
			rs.min[c] = 255
		}
		for x := 0; x < len(line); x += 4 {
			for c := 0; c < 3; c++ {
				v := line[x+c]
				if v < rs.min[c] {
					rs.min[c] = v
				}
				if v > rs.max[c] {
					rs.max[c] = v
				}
				sum[c] += uint64(v)
				sumSq[c] += uint64(v) * uint64(v)
			}
		}
		n := float64(width)
		for c := 0; c < 3; c++ {
			mean := float64(sum[c]) / n
			rs.mean[c] = mean
			rs.variance[c] = math.Max(0, float64(sumSq[c])/n-mean*mean)
		}
		rows[y] = rs
	})
	if err != nil {
		return out, err
	}

	means := make([]float64, height)
	variances := make([]float64, height)
	for c := 0; c < 3; c++ {
		lo, hi := uint8(255), uint8(0)
		for y, rs := range rows {
			lo = min(lo, rs.min[c])
			hi = max(hi, rs.max[c])
			means[y] = rs.mean[c]
			variances[y] = rs.variance[c]
		}
		// Equal-sized rows: total variance = mean within-row variance + variance of row means
		mean, between := stat.PopMeanVariance(means, nil)
		within := stat.Mean(variances, nil)
		out[c] = ChannelStats{
			Min:    lo,
			Max:    hi,
			Mean:   mean,
			StdDev: math.Sqrt(math.Max(0, within+between)),
		}
	}
	return out, nil
}

// forEachRow runs fn for rows [0,n) in contiguous strips. A panic in any strip
// is returned as an error instead of crashing the process.
func (mc *metricsCalculator) forEachRow(n int, fn func(row int)) error {
	numWorkers := mc.workers
	if n < numWorkers {
		numWorkers = n
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	rowsPerWorker := (n + numWorkers - 1) / numWorkers // ceil division

	var (
		wg       sync.WaitGroup
		once     sync.Once
		stripErr error
	)
	for start := 0; start < n; start += rowsPerWorker {
		end := min(start+rowsPerWorker, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { stripErr = fmt.Errorf("row strip %d-%d panicked: %v", start, end, r) })
				}
			}()
			for row := start; row < end; row++ {
				fn(row)
			}
		}(start, end)
	}
	wg.Wait()
	return stripErr
}

// toGray converts to 8-bit intensity. JPEG luma is used directly when available.
func toGray(img image.Image) *image.Gray {
	switch src := img.(type) {
	case *image.Gray:
		return src
	case *image.YCbCr:
		bounds := src.Bounds()
		gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		for y := 0; y < bounds.Dy(); y++ {
			offset := src.YOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+bounds.Dx()], src.Y[offset:offset+bounds.Dx()])
		}
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// toNRGBA converts to non-premultiplied 8-bit RGBA anchored at the origin
func toNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok && src.Rect.Min == (image.Point{}) {
		return src
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
