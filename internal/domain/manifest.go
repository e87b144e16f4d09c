package domain

// SizeConstraints bounds a brick's size on one breakpoint. Zero means unbounded.
type SizeConstraints struct {
	MinWidth  float64 `json:"minWidth,omitempty" yaml:"minWidth,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	MinHeight float64 `json:"minHeight,omitempty" yaml:"minHeight,omitempty"`
	MaxHeight float64 `json:"maxHeight,omitempty" yaml:"maxHeight,omitempty"`
}

// Clamp bounds w and h by the constraints.
func (c SizeConstraints) Clamp(w, h float64) (float64, float64) {
	return clamp(w, c.MinWidth, c.MaxWidth), clamp(h, c.MinHeight, c.MaxHeight)
}

func clamp(v, lo, hi float64) float64 {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

// Manifest declares the capabilities of a brick type.
type Manifest struct {
	Type         string                         `json:"type" yaml:"type"`
	Name         string                         `json:"name" yaml:"name"`
	Category     string                         `json:"category,omitempty" yaml:"category,omitempty"`
	IsContainer  bool                           `json:"isContainer" yaml:"isContainer"`
	Resizable    bool                           `json:"resizable" yaml:"resizable"`
	Movable      bool                           `json:"movable" yaml:"movable"`
	Deletable    bool                           `json:"deletable" yaml:"deletable"`
	Duplicatable bool                           `json:"duplicatable" yaml:"duplicatable"`
	Sizes        map[Breakpoint]SizeConstraints `json:"sizes,omitempty" yaml:"sizes,omitempty"`
}

// ManifestLookup resolves a brick type to its manifest.
type ManifestLookup interface {
	Lookup(brickType string) (Manifest, bool)
}
