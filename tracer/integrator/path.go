// Package integrator holds the light transport core: an unidirectional path
// tracer combining BSDF sampling and direct light sampling with multiple
// importance sampling under the power heuristic.
package integrator

import (
	"math/rand"

	"github.com/Nexuapex/Akuna/scene"
	"github.com/Nexuapex/Akuna/tracer/bsdf"
	"github.com/Nexuapex/Akuna/tracer/geom"
	"github.com/Nexuapex/Akuna/types"
)

const (
	// Bounces after which russian roulette may terminate the path.
	rouletteStart = 3

	// Survival probability of the roulette; survivors are scaled by its
	// reciprocal to keep the estimator unbiased.
	rouletteSurvival float32 = 0.8
)

// PowerHeuristic weighs two estimators of the same integral by the squares of
// their sampling densities. Degenerates cleanly to 0 when both densities
// vanish.
func PowerHeuristic(f, g float32) float32 {
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return f * f / denom
}

// PathTracer estimates incoming radiance along primary rays for one scene.
// It is a total function of (ray, generator state): numeric degeneracies cut
// paths short instead of erroring.
type PathTracer struct {
	Scene *scene.Scene
}

func NewPathTracer(s *scene.Scene) *PathTracer {
	return &PathTracer{Scene: s}
}

// The surface scattering model: a uniform mixture of a Lambert diffuse lobe
// and a GGX/Smith microfacet specular lobe.
func surfaceBSDF(material scene.Material) bsdf.Mixture {
	return bsdf.NewMixture(
		bsdf.Lambert{Albedo: material.Diffuse},
		bsdf.GGX{Tint: material.Specular, IOR: material.IOR, Alpha: material.Roughness},
	)
}

// MIS weight for radiance found by following a BSDF sample into a light.
// forwardPDF is the solid-angle density that generated the ray; the geometry
// term converts it into the light's area domain.
func implicitWeight(forwardPDF float32, ray geom.Ray, lightPoint, lightNormal types.Vec3, lightPDF float32) float32 {
	toLight := lightPoint.Sub(ray.Origin)
	distSqr := toLight.LenSqr()
	if distSqr == 0 {
		return 0
	}
	g := types.Max(0, ray.Dir.Neg().Dot(lightNormal)) / distSqr
	return PowerHeuristic(forwardPDF*g, lightPDF)
}

// Trace estimates the radiance arriving along the given primary ray.
func (pt *PathTracer) Trace(ray geom.Ray, rng *rand.Rand) types.RGB {
	s := pt.Scene
	light := s.Light()

	var radiance types.RGB
	throughput := types.NewRGB(1, 1, 1)
	var lastForwardPDF float32

	for pathLength := 0; ; pathLength++ {
		hit := s.Intersect(ray, 0)

		if !hit.Valid() {
			// The ray escaped; the skydome, if any, is the implicit
			// emissive source. The primary ray takes the emission at
			// full weight, later bounces MIS-weight it against the
			// light sampler.
			if light != nil {
				if emission, ok := light.Radiance(ray.Dir); ok {
					weight := float32(1)
					if pathLength > 0 {
						weight = implicitWeight(lastForwardPDF, ray, emission.Point, emission.Normal, light.PDF(ray.Dir))
					}
					radiance = radiance.Add(throughput.Mul(emission.Radiance).Scale(weight))
				}
			}
			break
		}

		material := s.MaterialAt(hit.Triangle)

		// Emissive geometry acts as the implicit source only when no
		// skydome is present; a scene gets exactly one implicit emissive
		// source, otherwise direct hits would be counted twice.
		if s.Env == nil && material.IsLight && light != nil {
			weight := float32(1)
			if pathLength > 0 {
				weight = implicitWeight(lastForwardPDF, ray, hit.Point, hit.Normal, light.PDF(ray.Dir))
			}
			radiance = radiance.Add(throughput.Mul(material.Emissive).Scale(weight))
		}

		lobes := surfaceBSDF(material)
		wo := ray.Dir.Neg()
		surfacePoint := hit.Point.Add(hit.Normal.Mul(s.ShadowBias))

		if light != nil {
			direct := pt.directLight(light, lobes, hit, wo, surfacePoint, rng)
			radiance = radiance.Add(throughput.Mul(direct))
		}

		if pathLength > rouletteStart {
			if rng.Float32() >= rouletteSurvival {
				break
			}
			throughput = throughput.Scale(1 / rouletteSurvival)
		}

		// Extend the path with a BSDF sample.
		smp := lobes.Sample(wo, hit.Normal, hit.Tangent, rng)
		if smp.PDF <= 0 {
			break
		}
		cos := hit.Normal.Dot(smp.Direction)
		if cos <= 0 {
			break
		}
		throughput = throughput.Mul(smp.Reflectance).Scale(cos / smp.PDF)
		if throughput.IsBlack() {
			break
		}

		ray = geom.Ray{Origin: surfacePoint, Dir: smp.Direction}
		lastForwardPDF = smp.PDF
	}

	return radiance
}

// One explicit next-event estimate: sample the light, trace a shadow ray from
// the biased surface point and weigh the contribution against the BSDF
// sampling density.
func (pt *PathTracer) directLight(light scene.Light, lobes bsdf.Mixture, hit geom.Intersection, wo, surfacePoint types.Vec3, rng *rand.Rand) types.RGB {
	ls := light.Sample(rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32())
	if ls.PDF <= 0 {
		return types.RGB{}
	}

	toLight := ls.Point.Sub(surfacePoint)
	distSqr := toLight.LenSqr()
	if distSqr == 0 {
		return types.RGB{}
	}
	wi := toLight.Normalize()

	cosSurface := hit.Normal.Dot(wi)
	cosLight := wi.Neg().Dot(ls.Normal)
	if cosSurface <= 0 || cosLight <= 0 {
		return types.RGB{}
	}

	// Visible when nothing is hit (skydome samples) or when the closest hit
	// is the sampled emissive triangle itself.
	shadowRay := geom.Ray{Origin: surfacePoint, Dir: wi}
	occluder := pt.Scene.Intersect(shadowRay, 0)
	if occluder.Valid() && occluder.Triangle != ls.Triangle {
		return types.RGB{}
	}

	g := cosLight / distSqr
	reflectance := lobes.Eval(wo, wi, hit.Normal)
	bsdfPDF := lobes.PDF(wo, wi, hit.Normal)
	weight := PowerHeuristic(ls.PDF, bsdfPDF*g)

	return reflectance.Mul(ls.Radiance).Scale(cosSurface * weight * g / ls.PDF)
}
