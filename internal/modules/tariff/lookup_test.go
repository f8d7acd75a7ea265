package tariff

import "testing"

func TestSizeHandlingMinutes(t *testing.T) {
	cfg := Defaults()
	cfg.SizeHandling["2.5"] = Handling{Load: 75, Unload: 55}
	delete(cfg.SizeHandling, "4.5")

	tests := []struct {
		name string
		size string
		want Handling
	}{
		{name: "configured override", size: "2.5", want: Handling{Load: 75, Unload: 55}},
		{name: "configured default", size: "maison", want: Handling{Load: 270, Unload: 200}},
		{name: "missing from config uses built-in table", size: "4.5", want: Handling{Load: 180, Unload: 140}},
		{name: "unknown size", size: "chateau", want: Handling{Load: 120, Unload: 90}},
		{name: "empty size", size: "", want: Handling{Load: 120, Unload: 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeHandlingMinutes(tt.size, cfg); got != tt.want {
				t.Errorf("SizeHandlingMinutes(%q) = %+v, want %+v", tt.size, got, tt.want)
			}
		})
	}
}

func TestSizeHandlingMinutes_EmptyConfigUsesBuiltins(t *testing.T) {
	for size, want := range builtinSizes {
		if got := SizeHandlingMinutes(size, Config{}); got != want {
			t.Errorf("SizeHandlingMinutes(%q) = %+v, want %+v", size, got, want)
		}
	}
}

func TestFloorMultiplier(t *testing.T) {
	cfg := Defaults()
	cfg.FloorMultipliers["3e"] = 1.6
	delete(cfg.FloorMultipliers, "4e")

	tests := []struct {
		floor string
		want  float64
	}{
		{"rdc", 1.0},
		{"2e", 1.30},
		{"3e", 1.6},
		{"4e", 1.80},
		{"ascenseur", 1.05},
		{"penthouse", 1.0},
		{"", 1.0},
	}

	for _, tt := range tests {
		if got := FloorMultiplier(tt.floor, cfg); got != tt.want {
			t.Errorf("FloorMultiplier(%q) = %v, want %v", tt.floor, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := SizeLabel("3.5"); got != "3 1/2" {
		t.Errorf("SizeLabel(3.5) = %q", got)
	}
	if got := SizeLabel("loft"); got != "loft" {
		t.Errorf("SizeLabel(loft) = %q", got)
	}
	if got := FloorLabel("rdc"); got != "Ground floor" {
		t.Errorf("FloorLabel(rdc) = %q", got)
	}
	if got := FloorLabel("9e"); got != "9e" {
		t.Errorf("FloorLabel(9e) = %q", got)
	}
	if len(KnownSizes()) != len(builtinSizes) {
		t.Errorf("KnownSizes() out of sync with built-in table")
	}
	if len(KnownFloors()) != len(builtinFloors) {
		t.Errorf("KnownFloors() out of sync with built-in table")
	}
}
