// README: Per-size and per-floor lookups with built-in fallbacks.
package tariff

// SizeHandlingMinutes resolves handling minutes for a dwelling size: the
// configured entry first, then the built-in table, then 120/90.
func SizeHandlingMinutes(size string, cfg Config) Handling {
	if h, ok := cfg.SizeHandling[size]; ok {
		return h
	}
	if h, ok := builtinSizes[size]; ok {
		return h
	}
	return Handling{Load: FallbackLoadMinutes, Unload: FallbackUnloadMinutes}
}

// FloorMultiplier resolves the handling multiplier for a floor code,
// defaulting to 1.0 for unknown codes.
func FloorMultiplier(floor string, cfg Config) float64 {
	if m, ok := cfg.FloorMultipliers[floor]; ok {
		return m
	}
	if m, ok := builtinFloors[floor]; ok {
		return m
	}
	return 1.0
}

func SizeLabel(size string) string {
	if l, ok := sizeLabels[size]; ok {
		return l
	}
	return size
}

func FloorLabel(floor string) string {
	if l, ok := floorLabels[floor]; ok {
		return l
	}
	return floor
}

// KnownSizes lists built-in dwelling size codes in display order.
func KnownSizes() []string {
	return []string{
		SizeOneAndHalf, SizeTwoAndHalf, SizeThreeAndHalf, SizeFourAndHalf,
		SizeFiveAndHalf, SizeHouse, SizeCommercial, SizeOther,
	}
}

// KnownFloors lists built-in floor codes in display order.
func KnownFloors() []string {
	return []string{FloorGround, FloorSecond, FloorThird, FloorFourth, FloorElevator}
}
