package scene

import (
	"fmt"
	"sort"

	"github.com/Nexuapex/Akuna/types"
)

// EnvironmentMap is an equirectangular radiance image. Column x covers
// azimuth phi = (x+0.5)*2pi/W, row y covers polar angle theta = (y+0.5)*pi/H.
// When the image acts as a light, two unnormalized cumulative distributions
// are precomputed over luminance*sin(theta) so that the inverse CDF draws
// texels proportionally to their power per solid angle.
type EnvironmentMap struct {
	Width  int
	Height int

	// Row-major linear radiance.
	Pixels []types.RGB

	// Marginal CDF over columns, length Width.
	cdfU []float32

	// Per-column conditional CDF over rows, column-major, length Width*Height.
	cdfV []float32
}

func NewEnvironmentMap(width, height int, pixels []types.RGB) (*EnvironmentMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("environment: invalid dimensions %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("environment: %d pixels for %dx%d image", len(pixels), width, height)
	}

	env := &EnvironmentMap{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
	env.precomputeCDF()
	return env, nil
}

func (e *EnvironmentMap) precomputeCDF() {
	width := e.Width
	height := e.Height
	e.cdfU = make([]float32, width)
	e.cdfV = make([]float32, width*height)

	thetaStep := types.Pi / float32(height)

	var sumU float32
	for x := 0; x < width; x++ {
		var sumV float32
		column := e.cdfV[x*height : (x+1)*height]
		for y := 0; y < height; y++ {
			lum := e.Pixels[y*width+x].Luminance()
			theta := (float32(y) + 0.5) * thetaStep
			sumV += lum * types.Sin(theta)
			column[y] = sumV
		}
		sumU += sumV
		e.cdfU[x] = sumU
	}
}

// Total of the luminance*sin(theta) weights; zero for an all-black image.
func (e *EnvironmentMap) TotalWeight() float32 {
	return e.cdfU[e.Width-1]
}

// Texel column containing a wrapped u coordinate.
func (e *EnvironmentMap) texelU(u float32) int {
	x := (u - types.Floor(u)) * float32(e.Width)
	return int(x) % e.Width
}

// Texel row containing a wrapped v coordinate.
func (e *EnvironmentMap) texelV(v float32) int {
	y := (v - types.Floor(v)) * float32(e.Height)
	return int(y) % e.Height
}

// Fetch the image with bilinear filtering, wrapping on both axes.
func (e *EnvironmentMap) Fetch(u, v float32) types.RGB {
	width := e.Width
	height := e.Height

	x := (u - types.Floor(u)) * float32(width)
	y := (v - types.Floor(v)) * float32(height)

	x0 := int(x) % width
	y0 := int(y) % height
	x1 := (x0 + 1) % width
	y1 := (y0 + 1) % height

	m00 := e.Pixels[y0*width+x0]
	m01 := e.Pixels[y0*width+x1]
	m10 := e.Pixels[y1*width+x0]
	m11 := e.Pixels[y1*width+x1]

	tx := x - types.Floor(x)
	ty := y - types.Floor(y)

	m0 := m00.Scale(1 - tx).Add(m01.Scale(tx))
	m1 := m10.Scale(1 - tx).Add(m11.Scale(tx))
	return m0.Scale(1 - ty).Add(m1.Scale(ty))
}

// Map a world direction to wrapped equirectangular coordinates.
func directionToUV(dir types.Vec3) (u, v float32) {
	u = types.Atan2(dir[2], dir[0]) * types.Inv2Pi
	v = types.Acos(dir[1]) * types.InvPi
	return u, v
}

// Radiance looked up along a direction.
func (e *EnvironmentMap) Radiance(dir types.Vec3) types.RGB {
	u, v := directionToUV(dir)
	return e.Fetch(u, v)
}

// First index whose cumulative value reaches target.
func lowerBound(cdf []float32, target float32) int {
	idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] >= target })
	if idx == len(cdf) {
		idx = len(cdf) - 1
	}
	return idx
}

// SampleTexel inverts the two CDFs for a pair of uniform variates.
func (e *EnvironmentMap) SampleTexel(u1, u2 float32) (x, y int) {
	x = lowerBound(e.cdfU, u1*e.cdfU[e.Width-1])
	column := e.cdfV[x*e.Height : (x+1)*e.Height]
	y = lowerBound(column, u2*column[e.Height-1])
	return x, y
}

// Direction through the center of a texel.
func (e *EnvironmentMap) TexelDirection(x, y int) types.Vec3 {
	phi := (float32(x) + 0.5) * (2 * types.Pi) / float32(e.Width)
	theta := (float32(y) + 0.5) * types.Pi / float32(e.Height)
	sinTheta := types.Sin(theta)
	return types.XYZ(sinTheta*types.Cos(phi), types.Cos(theta), sinTheta*types.Sin(phi))
}

// Discrete texel probability converted to solid angle and then to area on
// the bounding sphere of the given radius.
func (e *EnvironmentMap) pdfTexel(x, y int, radius float32) float32 {
	width := e.Width
	height := e.Height

	thetaStep := types.Pi / float32(height)
	normalization := (2 * types.Pi * types.Pi) / float32(width*height)
	sphereArea := 4 * types.Pi * radius * radius

	cdfU := e.cdfU
	column := e.cdfV[x*height : (x+1)*height]

	if cdfU[width-1] == 0 || column[height-1] == 0 {
		return 0
	}

	pu := cdfU[x]
	if x > 0 {
		pu -= cdfU[x-1]
	}
	pu /= cdfU[width-1]

	pv := column[y]
	if y > 0 {
		pv -= column[y-1]
	}
	pv /= column[height-1]

	theta := (float32(y) + 0.5) * thetaStep
	return (pu * pv * types.Sin(theta)) / (normalization * sphereArea)
}

// PDF of the sampler having produced the given direction, in the area domain
// of the bounding sphere.
func (e *EnvironmentMap) PDF(dir types.Vec3, radius float32) float32 {
	u, v := directionToUV(dir)
	return e.pdfTexel(e.texelU(u), e.texelV(v), radius)
}
