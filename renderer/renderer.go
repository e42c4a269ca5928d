// Package renderer drives the render: it forks independent workers that each
// estimate the full frame, then reduces their estimates into the final
// radiance image.
package renderer

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Nexuapex/Akuna/log"
	"github.com/Nexuapex/Akuna/scene"
	"github.com/Nexuapex/Akuna/tracer/integrator"
	"github.com/Nexuapex/Akuna/types"
)

var logger = log.New("renderer")

type Renderer struct {
	scene  *scene.Scene
	camera *scene.Camera
	opts   Options
	stats  FrameStats
}

func New(sc *scene.Scene, camera *scene.Camera, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrBadFrameDims
	}
	if opts.SamplesPerPixel == 0 {
		return nil, ErrBadSampleCount
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkerCount()
	}

	return &Renderer{
		scene:  sc,
		camera: camera,
		opts:   opts,
	}, nil
}

// Render produces the frame as row-major linear radiance. The scene is
// shared read-only across workers; each worker owns its accumulator and its
// random generator, so the hot loop takes no locks.
func (r *Renderer) Render() ([]types.RGB, error) {
	start := time.Now()
	workers := r.opts.NumWorkers

	logger.Infof("rendering %dx%d, %d spp on %d workers", r.opts.FrameW, r.opts.FrameH, r.opts.SamplesPerPixel, workers)

	accums := make([][]types.RGB, workers)
	stats := make([]WorkerStat, workers)

	var wg sync.WaitGroup
	for idx := 0; idx < workers; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			workerStart := time.Now()
			rng := rand.New(rand.NewSource(r.opts.Seed + int64(idx)))
			accums[idx] = r.renderWorker(rng)
			stats[idx] = WorkerStat{
				ID:         idx,
				Samples:    uint64(r.opts.FrameW) * uint64(r.opts.FrameH) * uint64(r.opts.SamplesPerPixel),
				RenderTime: time.Since(workerStart),
			}
		}(idx)
	}
	wg.Wait()

	frame := reduce(accums)

	r.stats = FrameStats{
		Workers:    stats,
		RenderTime: time.Since(start),
	}
	return frame, nil
}

func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// One worker's estimate of the whole frame: every pixel, SamplesPerPixel
// camera samples, accumulated at 1/S weight.
func (r *Renderer) renderWorker(rng *rand.Rand) []types.RGB {
	width := int(r.opts.FrameW)
	height := int(r.opts.FrameH)
	samples := int(r.opts.SamplesPerPixel)
	weight := 1 / float32(samples)

	pt := integrator.NewPathTracer(r.scene)
	accum := make([]types.RGB, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var pixel types.RGB
			for n := 0; n < samples; n++ {
				ray := r.camera.SampleRay(x, y, width, height, rng.Float32(), rng.Float32())
				pixel = pixel.Add(pt.Trace(ray, rng).Scale(weight))
			}
			accum[y*width+x] = pixel
		}
	}
	return accum
}

// Element-wise mean of the worker estimates. Addition order is fixed by
// worker index, so the reduction does not depend on completion order.
func reduce(accums [][]types.RGB) []types.RGB {
	frame := make([]types.RGB, len(accums[0]))
	for _, accum := range accums {
		for i, pixel := range accum {
			frame[i] = frame[i].Add(pixel)
		}
	}
	scale := 1 / float32(len(accums))
	for i := range frame {
		frame[i] = frame[i].Scale(scale)
	}
	return frame
}
