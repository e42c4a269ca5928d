package renderer

import (
	"math/rand"
	"testing"

	"github.com/Nexuapex/Akuna/asset/mesh"
	"github.com/Nexuapex/Akuna/scene"
	"github.com/Nexuapex/Akuna/types"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	m := &mesh.Mesh{
		Vertices: []types.Vec3{
			{-2, -2, -1},
			{-2, 2, -1},
			{2, -2, -1},
			{2, 2, -1},
		},
		Groups: []mesh.Group{
			{
				Name:    "panel",
				Indices: []uint32{0, 1, 2, 1, 3, 2},
				Material: mesh.Material{
					Emissive:  types.NewRGB(1, 0.5, 0.25),
					IOR:       1,
					Roughness: 1,
				},
			},
		},
	}
	s, err := scene.Build(m, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewValidatesOptions(t *testing.T) {
	s := testScene(t)
	camera := scene.NewCamera(types.XYZ(0, 0, 0))

	cases := []struct {
		name string
		sc   *scene.Scene
		cam  *scene.Camera
		opts Options
		want error
	}{
		{"no scene", nil, camera, Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 1}, ErrSceneNotDefined},
		{"no camera", s, nil, Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 1}, ErrCameraNotDefined},
		{"zero dims", s, camera, Options{SamplesPerPixel: 1}, ErrBadFrameDims},
		{"zero spp", s, camera, Options{FrameW: 4, FrameH: 4}, ErrBadSampleCount},
	}
	for _, tc := range cases {
		if _, err := New(tc.sc, tc.cam, tc.opts); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewDefaultsWorkerCount(t *testing.T) {
	r, err := New(testScene(t), scene.NewCamera(types.XYZ(0, 0, 0)), Options{
		FrameW: 2, FrameH: 2, SamplesPerPixel: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.opts.NumWorkers != DefaultWorkerCount() {
		t.Errorf("workers %d, want default %d", r.opts.NumWorkers, DefaultWorkerCount())
	}
	if DefaultWorkerCount() < 1 || DefaultWorkerCount() > 16 {
		t.Errorf("default worker count %d out of range", DefaultWorkerCount())
	}
}

func TestParallelReductionMatchesSequential(t *testing.T) {
	// The reduced frame from K concurrent workers must equal the mean of
	// the same K worker estimates computed sequentially with the same
	// seeds: the reducer is oblivious to completion order.
	s := testScene(t)
	camera := scene.NewCamera(types.XYZ(0, 0, 0))
	opts := Options{
		FrameW:          8,
		FrameH:          8,
		SamplesPerPixel: 4,
		NumWorkers:      3,
		Seed:            7,
	}

	r, err := New(s, camera, opts)
	if err != nil {
		t.Fatal(err)
	}
	frame, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}

	sequential := make([][]types.RGB, opts.NumWorkers)
	for idx := range sequential {
		rng := rand.New(rand.NewSource(opts.Seed + int64(idx)))
		sequential[idx] = r.renderWorker(rng)
	}
	want := reduce(sequential)

	if len(frame) != len(want) {
		t.Fatalf("frame length %d, want %d", len(frame), len(want))
	}
	for i := range frame {
		if frame[i] != want[i] {
			t.Fatalf("pixel %d: %v != %v", i, frame[i], want[i])
		}
	}
}

func TestRenderEmptySceneIsBlack(t *testing.T) {
	s, err := scene.New(nil, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(s, scene.NewCamera(types.XYZ(0, 0, 0)), Options{
		FrameW: 4, FrameH: 4, SamplesPerPixel: 1, NumWorkers: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	frame, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	for i, pixel := range frame {
		if !pixel.IsBlack() {
			t.Errorf("pixel %d: %v, want black", i, pixel)
		}
	}
}

func TestRenderEmissivePanel(t *testing.T) {
	// Every primary ray lands on the panel, so every pixel reads exactly
	// the emitted radiance.
	s := testScene(t)
	r, err := New(s, scene.NewCamera(types.XYZ(0, 0, 0)), Options{
		FrameW: 4, FrameH: 4, SamplesPerPixel: 8, NumWorkers: 2, Seed: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	frame, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	want := types.NewRGB(1, 0.5, 0.25)
	for i, pixel := range frame {
		if types.Abs(pixel.R-want.R) > 1e-4 || types.Abs(pixel.G-want.G) > 1e-4 || types.Abs(pixel.B-want.B) > 1e-4 {
			t.Errorf("pixel %d: %v, want %v", i, pixel, want)
		}
	}
}

func TestRenderRecordsStats(t *testing.T) {
	s := testScene(t)
	opts := Options{FrameW: 4, FrameH: 4, SamplesPerPixel: 2, NumWorkers: 2}
	r, err := New(s, scene.NewCamera(types.XYZ(0, 0, 0)), opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(); err != nil {
		t.Fatal(err)
	}

	stats := r.Stats()
	if len(stats.Workers) != 2 {
		t.Fatalf("worker stats %d, want 2", len(stats.Workers))
	}
	wantSamples := uint64(4 * 4 * 2)
	for _, ws := range stats.Workers {
		if ws.Samples != wantSamples {
			t.Errorf("worker %d samples %d, want %d", ws.ID, ws.Samples, wantSamples)
		}
	}
	if stats.RenderTime <= 0 {
		t.Error("frame render time not recorded")
	}
}
