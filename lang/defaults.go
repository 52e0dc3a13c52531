package lang

// Default vocabulary.
var (
	defaultBreakpoints = map[string]Number{
		"phone":   {Value: 320, Unit: "px"},
		"tablet":  {Value: 768, Unit: "px"},
		"desktop": {Value: 1024, Unit: "px"},
	}

	defaultExpressions = map[string]string{
		"screen":    "screen",
		"print":     "print",
		"handheld":  "handheld",
		"all":       "all",
		"landscape": "(orientation: landscape)",
		"portrait":  "(orientation: portrait)",
		"retina2x": "(-webkit-min-device-pixel-ratio: 2), " +
			"(min-resolution: 192dpi), (min-resolution: 2dppx)",
		"retina3x": "(-webkit-min-device-pixel-ratio: 3), " +
			"(min-resolution: 350dpi), (min-resolution: 3dppx)",
	}

	defaultIntervals = map[string]float64{
		"px":  1,
		"em":  0.01,
		"rem": 0.1,
		"":    0,
	}

	defaultStaticExpressions = []string{"screen", "portrait", "landscape"}

	defaultPredicates = map[string]string{
		"max": "fallback <= bound",
		"min": "fallback > bound",
	}
)

const (
	// DefaultMediaSupport reports whether media queries are emitted by default.
	DefaultMediaSupport = true

	// DefaultFallback is the breakpoint assumed in static mode.
	DefaultFallback = "desktop"
)
