package scene

import (
	"github.com/Nexuapex/Akuna/tracer/geom"
	"github.com/Nexuapex/Akuna/types"
)

// Scale applied to the normalized device coordinates of the image plane;
// smaller values narrow the field of view.
const DefaultPlaneScale float32 = 0.25

// Camera is a pinhole camera at a fixed position looking down -z with +y up.
type Camera struct {
	Position   types.Vec3
	PlaneScale float32
}

func NewCamera(position types.Vec3) *Camera {
	return &Camera{
		Position:   position,
		PlaneScale: DefaultPlaneScale,
	}
}

// SampleRay maps a jittered sample inside pixel (x, y) to a primary ray.
// The y axis is flipped so that image row 0 is the top of the frame.
func (c *Camera) SampleRay(x, y, width, height int, u1, u2 float32) geom.Ray {
	sx := (float32(x)+u1)/float32(width)*2 - 1
	sy := -((float32(y)+u2)/float32(height)*2 - 1)

	dir := types.XYZ(sx*c.PlaneScale, sy*c.PlaneScale, -1)
	return geom.NewRay(c.Position, dir)
}
