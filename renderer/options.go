package renderer

import "runtime"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// The number of camera samples per traced pixel, per worker.
	SamplesPerPixel uint32

	// Number of render workers; 0 selects DefaultWorkerCount.
	NumWorkers int

	// Root seed; worker k draws from a generator seeded with Seed+k.
	Seed int64
}

// DefaultWorkerCount caps the hardware thread count at 16 and leaves one
// thread for the driver, so the pool holds between 1 and 15 workers.
func DefaultWorkerCount() int {
	workers := runtime.NumCPU()
	if workers > 16 {
		workers = 16
	}
	workers--
	if workers < 1 {
		workers = 1
	}
	return workers
}
