package renderer

import "time"

type WorkerStat struct {
	// The worker index.
	ID int

	// Total camera samples traced by this worker.
	Samples uint64

	// Render time for the worker's full image estimate.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total render time for the frame, including the reduction.
	RenderTime time.Duration
}
