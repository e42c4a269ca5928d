package scene

import (
	"github.com/Nexuapex/Akuna/types"
)

// Material is a value object describing how a surface scatters and emits
// light. IsLight is set iff Emissive is non-zero.
type Material struct {
	// Diffuse reflectance of the Lambert lobe.
	Diffuse types.RGB

	// Tint of the microfacet specular lobe.
	Specular types.RGB

	// Emitted radiance.
	Emissive types.RGB

	// Index of refraction, >= 1.
	IOR float32

	// GGX roughness in [0, 1].
	Roughness float32

	IsLight bool
}
