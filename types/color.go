package types

// Linear RGB color. Component values are open-ended radiance, not display
// values.
type RGB struct {
	R, G, B float32
}

func NewRGB(r, g, b float32) RGB {
	return RGB{R: r, G: g, B: b}
}

// Component-wise sum.
func (c RGB) Add(c2 RGB) RGB {
	return RGB{c.R + c2.R, c.G + c2.G, c.B + c2.B}
}

// Component-wise product.
func (c RGB) Mul(c2 RGB) RGB {
	return RGB{c.R * c2.R, c.G * c2.G, c.B * c2.B}
}

// Scale all components.
func (c RGB) Scale(s float32) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Rec. 709 luminance.
func (c RGB) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func (c RGB) MaxComponent() float32 {
	return Max(c.R, Max(c.G, c.B))
}

func (c RGB) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}
