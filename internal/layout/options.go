package layout

import "log/slog"

// Options holds the spacing constants of the layout, in canvas pixels.
type Options struct {
	// OriginX and OriginY are the top-left corner of the first box or card.
	OriginX float64
	OriginY float64

	// HStep and VStep space ungrouped service cards.
	HStep float64
	VStep float64

	// CardWidth and CardHeight size a service card inside a group; GapX and
	// GapY separate cards in the group's column grid.
	CardWidth  float64
	CardHeight float64
	GapX       float64
	GapY       float64
	// MaxColumns caps the columns of a group's service grid.
	MaxColumns int

	// Group box padding around its content.
	PadX      float64
	PadTop    float64
	PadBottom float64
	// NestedGap separates the service area from nested groups and nested
	// groups from each other.
	NestedGap float64

	MinCardWidth   float64
	MinGroupWidth  float64
	MinGroupHeight float64

	// RootGap separates top-level group boxes.
	RootGap float64
	// UngroupedMargin is the space between the grouped region and the
	// ungrouped services placed below it.
	UngroupedMargin float64

	// StubIcon is the icon for services that did not resolve.
	StubIcon string

	Logger *slog.Logger
}

// DefaultOptions returns the spacing used by the canvas.
func DefaultOptions() Options {
	return Options{
		OriginX:         100,
		OriginY:         100,
		HStep:           250,
		VStep:           150,
		CardWidth:       180,
		CardHeight:      90,
		GapX:            40,
		GapY:            40,
		MaxColumns:      3,
		PadX:            40,
		PadTop:          60,
		PadBottom:       40,
		NestedGap:       40,
		MinCardWidth:    220,
		MinGroupWidth:   280,
		MinGroupHeight:  180,
		RootGap:         80,
		UngroupedMargin: 120,
		StubIcon:        "/icons/ai-detected.svg",
	}
}
