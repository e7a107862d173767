// Package filter: registry of the filters understood by Apply.
//
// This file mirrors the switch in Apply (engine.go). Keep both in sync so the
// CLI help text and flag usage read from a single source.

package filter

import "strings"

// ArgSpec describes a parameter consumed by a filter. Fields are textual and
// meant for help output rather than machine-enforced typing.
type ArgSpec struct {
	Flag        string // long flag name on the command line
	Type        string // "float", "enum"
	Default     string // textual default (for help only)
	Description string
}

// Spec defines a single filter and the parameters it reads from a Request.
type Spec struct {
	Name        Filter
	Args        []ArgSpec
	Usage       string
	Description string
}

// Filters is the authoritative list of filters implemented by Apply.
var Filters = []Spec{
	{
		Name:        Negate,
		Args:        []ArgSpec{},
		Usage:       "negate",
		Description: "Invert every sample (255 - s).",
	},
	{
		Name:        Brightness,
		Args:        []ArgSpec{{"percent", "float", "0", "brightness change in percent"}},
		Usage:       "brightness --percent <p>",
		Description: "Scale samples by p percent and clamp to [0,255].",
	},
	{
		Name:        Contrast,
		Args:        []ArgSpec{{"times", "float", "1", "contrast multiplier"}},
		Usage:       "contrast --times <m>",
		Description: "Scale the distance from mid-gray (127) by m and clamp.",
	},
	{
		Name:        Flip,
		Args:        []ArgSpec{{"axis", "enum", "y", "x (top/bottom) or y (left/right)"}},
		Usage:       "flip --axis <x|y>",
		Description: "Mirror the image across an axis.",
	},
	{
		Name:        Rotate,
		Args:        []ArgSpec{{"direction", "enum", "right", "left or right"}},
		Usage:       "rotate --direction <left|right>",
		Description: "Rotate the image by 90 degrees.",
	},
}

// Lookup returns the spec registered under name.
func Lookup(name Filter) (Spec, bool) {
	for _, s := range Filters {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns the registered filter names joined by ", ".
func Names() string {
	names := make([]string, 0, len(Filters))
	for _, s := range Filters {
		names = append(names, string(s.Name))
	}
	return strings.Join(names, ", ")
}
