// Package dice declares the die type registry: one immutable spec per die
// kind bundling its geometry generator, face-grouping strategy, and the
// value labeling of its physical faces.
package dice

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Faultbox/dice-arena/internal/geometry"
)

// Kind enumerates the supported die types. KindTens and KindUnits are the
// two physical halves of a percentile (d100) roll; they share the d10's
// geometry and grouping but carry their own value functions.
type Kind int

const (
	KindD4 Kind = iota
	KindD6
	KindD8
	KindD10
	KindD12
	KindD20
	KindD100
	KindTens
	KindUnits
)

// ErrUnknownKind indicates a die tag with no registry entry.
var ErrUnknownKind = errors.New("unknown die kind")

// ReadMode selects which physical face carries a resting die's result.
type ReadMode int

const (
	// ReadTop reads the face pointing up. The default.
	ReadTop ReadMode = iota

	// ReadBottom reads the face touching the ground. Used by the d4,
	// whose numerals sit against the table.
	ReadBottom
)

// Spec is the immutable declarative record for one die kind.
type Spec struct {
	Kind      Kind
	Name      string
	Generate  func() *geometry.Mesh
	Group     geometry.GroupFunc
	Value     func(group, groups int) int
	Label     func(group, groups int) string
	MaxValue  int
	Scale     float64
	Color     string
	LabelSize float64
	ReadMode  ReadMode
}

// Faces builds the spec's canonical mesh and physical face grouping.
func (s *Spec) Faces() (*geometry.Mesh, []geometry.FaceGroup, error) {
	m := s.Generate()
	groups, err := s.Group(m)
	if err != nil {
		return nil, nil, fmt.Errorf("grouping %s faces: %w", s.Name, err)
	}
	return m, groups, nil
}

// NumericValue maps one random fraction in [0,1) to a face value over the
// kind's inclusive numeric range. This is the purely numeric path used for
// network-synchronized rolls; it is independent of the physical
// settle-detection mapping.
func (s *Spec) NumericValue(frac float64) int {
	min, max := s.numericRange()
	v := int(math.Floor(frac*float64(max-min+1))) + min
	// d10-style faces run 0..9; a raw 10 wraps to the 0 face.
	if v == 10 && min == 0 {
		v = 0
	}
	if s.Kind == KindTens {
		v *= 10
	}
	return v
}

func (s *Spec) numericRange() (min, max int) {
	switch s.Kind {
	case KindD10, KindTens, KindUnits:
		return 0, 9
	default:
		return 1, s.MaxValue
	}
}

// PercentileValue combines a tens and units pair into the 1..100 result.
// Double zero is the conventional 100.
func PercentileValue(tens, units int) int {
	if tens == 0 && units == 0 {
		return 100
	}
	return tens + units
}

// sequentialValue labels faces 1..N in the grouping engine's emission
// order. Emission order is generation order, not a physically meaningful
// numbering; changing it would alter observable die values.
func sequentialValue(group, _ int) int {
	return group + 1
}

func sequentialLabel(group, groups int) string {
	return strconv.Itoa(sequentialValue(group, groups))
}

func tensValue(group, _ int) int {
	return (group % 10) * 10
}

func tensLabel(group, groups int) string {
	v := tensValue(group, groups)
	if v == 0 {
		return "00"
	}
	return strconv.Itoa(v)
}

func unitsValue(group, _ int) int {
	return group % 10
}

func unitsLabel(group, groups int) string {
	return strconv.Itoa(unitsValue(group, groups))
}

var registry = map[Kind]*Spec{
	KindD4: {
		Kind:      KindD4,
		Name:      "d4",
		Generate:  geometry.Tetrahedron,
		Group:     geometry.GroupByNormal,
		Value:     sequentialValue,
		Label:     sequentialLabel,
		MaxValue:  4,
		Scale:     1.2,
		Color:     "#93b4bf",
		LabelSize: 0.65,
		ReadMode:  ReadBottom,
	},
	KindD6: {
		Kind:      KindD6,
		Name:      "d6",
		Generate:  geometry.Cube,
		Group:     geometry.GroupByNormal,
		Value:     sequentialValue,
		Label:     sequentialLabel,
		MaxValue:  6,
		Scale:     0.9,
		Color:     "#d4552a",
		LabelSize: 0.9,
		ReadMode:  ReadTop,
	},
	KindD8: {
		Kind:      KindD8,
		Name:      "d8",
		Generate:  geometry.Octahedron,
		Group:     geometry.GroupByNormal,
		Value:     sequentialValue,
		Label:     sequentialLabel,
		MaxValue:  8,
		Scale:     1.1,
		Color:     "#47a24e",
		LabelSize: 0.8,
		ReadMode:  ReadTop,
	},
	KindD10: {
		Kind:      KindD10,
		Name:      "d10",
		Generate:  geometry.Trapezohedron,
		Group:     geometry.GroupTrapezohedron,
		Value:     unitsValue,
		Label:     unitsLabel,
		MaxValue:  10,
		Scale:     1.1,
		Color:     "#9351a6",
		LabelSize: 0.75,
		ReadMode:  ReadTop,
	},
	KindD12: {
		Kind:      KindD12,
		Name:      "d12",
		Generate:  geometry.Dodecahedron,
		Group:     geometry.GroupByNormal,
		Value:     sequentialValue,
		Label:     sequentialLabel,
		MaxValue:  12,
		Scale:     0.95,
		Color:     "#b89732",
		LabelSize: 0.7,
		ReadMode:  ReadTop,
	},
	KindD20: {
		Kind:      KindD20,
		Name:      "d20",
		Generate:  geometry.Icosahedron,
		Group:     geometry.GroupByNormal,
		Value:     sequentialValue,
		Label:     sequentialLabel,
		MaxValue:  20,
		Scale:     1.0,
		Color:     "#3d6fd4",
		LabelSize: 0.55,
		ReadMode:  ReadTop,
	},
	KindTens: {
		Kind:      KindTens,
		Name:      "d100",
		Generate:  geometry.Trapezohedron,
		Group:     geometry.GroupTrapezohedron,
		Value:     tensValue,
		Label:     tensLabel,
		MaxValue:  90,
		Scale:     1.1,
		Color:     "#9351a6",
		LabelSize: 0.6,
		ReadMode:  ReadTop,
	},
	KindUnits: {
		Kind:      KindUnits,
		Name:      "d10",
		Generate:  geometry.Trapezohedron,
		Group:     geometry.GroupTrapezohedron,
		Value:     unitsValue,
		Label:     unitsLabel,
		MaxValue:  9,
		Scale:     1.1,
		Color:     "#9351a6",
		LabelSize: 0.75,
		ReadMode:  ReadTop,
	},
}

// Get returns the registry entry for a kind. KindD100 has no single
// physical spec: it is realized as a tens/units pair.
func Get(kind Kind) (*Spec, error) {
	if kind == KindD100 {
		return nil, fmt.Errorf("%w: d100 is a tens/units composite", ErrUnknownKind)
	}
	s, ok := registry[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return s, nil
}

// Parse maps a notation tag like "d20" to its kind.
func Parse(tag string) (Kind, error) {
	switch tag {
	case "d4":
		return KindD4, nil
	case "d6":
		return KindD6, nil
	case "d8":
		return KindD8, nil
	case "d10":
		return KindD10, nil
	case "d12":
		return KindD12, nil
	case "d20":
		return KindD20, nil
	case "d100":
		return KindD100, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Tag returns the notation tag for a kind.
func (k Kind) Tag() string {
	switch k {
	case KindD4:
		return "d4"
	case KindD6:
		return "d6"
	case KindD8:
		return "d8"
	case KindD10, KindUnits:
		return "d10"
	case KindD12:
		return "d12"
	case KindD20:
		return "d20"
	case KindD100, KindTens:
		return "d100"
	}
	return "?"
}
