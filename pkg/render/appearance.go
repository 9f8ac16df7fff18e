package render

// Appearance describes a surface by its semantic parameters. It is
// comparable and serves as the material cache key.
type Appearance struct {
	Color             string  `json:"color"`
	Emissive          string  `json:"emissive,omitempty"`
	EmissiveIntensity float64 `json:"emissive_intensity,omitempty"`
	Opacity           float64 `json:"opacity"`
	Metalness         float64 `json:"metalness,omitempty"`
	Roughness         float64 `json:"roughness"`
	Texture           string  `json:"texture,omitempty"`
	RepeatU           float64 `json:"repeat_u,omitempty"`
	RepeatV           float64 `json:"repeat_v,omitempty"`
	DoubleSided       bool    `json:"double_sided,omitempty"`
}

// Solid returns an opaque, untextured appearance of color.
func Solid(color string) Appearance {
	return Appearance{Color: color, Opacity: 1, Roughness: 0.8}
}

// Glowing returns an appearance that emits its own color.
func Glowing(color string, intensity float64) Appearance {
	a := Solid(color)
	a.Emissive = color
	a.EmissiveIntensity = intensity
	return a
}

// WithRepeat returns base with the texture tiled u times across and v
// times down. The base appearance is not modified.
func WithRepeat(base Appearance, u, v float64) Appearance {
	base.RepeatU = u
	base.RepeatV = v
	return base
}

// HasTexture reports whether the appearance samples a texture.
func (a Appearance) HasTexture() bool {
	return a.Texture != ""
}
