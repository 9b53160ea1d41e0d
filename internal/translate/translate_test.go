package translate

import (
	"math"
	"testing"

	"github.com/redheadmarine/huedaq/internal/hue"
)

// Helper to create a string pointer
func strPtr(s string) *string {
	return &s
}

// Helper to create an int pointer
func intPtr(v int) *int {
	return &v
}

func findValue(t *testing.T, b Batch, path string) interface{} {
	t.Helper()
	for _, v := range b.Values {
		if v.Path == path {
			return v.Value
		}
	}
	t.Fatalf("no value at path %q in batch %q", path, b.Path)
	return nil
}

func hasValue(b Batch, path string) bool {
	for _, v := range b.Values {
		if v.Path == path {
			return true
		}
	}
	return false
}

func assertFloat(t *testing.T, got interface{}, want float64) {
	t.Helper()
	f, ok := got.(float64)
	if !ok {
		t.Fatalf("value is %T, want float64", got)
	}
	if math.Abs(f-want) > 1e-9 {
		t.Errorf("value = %v, want %v", f, want)
	}
}

func TestTranslateLightWithHueSat(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name:    "Lamp1",
				ModelID: "LCT001",
				State: hue.LightState{
					On:        true,
					Bri:       128,
					ColorMode: strPtr("hs"),
					Hue:       intPtr(10000),
					Sat:       intPtr(200),
				},
			},
		},
	}

	batches := Translate(state)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}

	b := batches[0]
	if b.Kind != KindLights {
		t.Errorf("kind = %q, want %q", b.Kind, KindLights)
	}

	base := "electrical.switches.hue.lights.lamp1"
	if b.Path != base {
		t.Errorf("path = %q, want %q", b.Path, base)
	}

	if got := findValue(t, b, base+".state"); got != true {
		t.Errorf("state = %v, want true", got)
	}
	assertFloat(t, findValue(t, b, base+".dimmingLevel"), 128.0/255.0)
	if got := findValue(t, b, base+".colorMode"); got != "hsb" {
		t.Errorf("colorMode = %v, want hsb", got)
	}
	assertFloat(t, findValue(t, b, base+".hue"), 10000.0/182.04/360.0)
	assertFloat(t, findValue(t, b, base+".saturation"), 200.0/255.0)

	meta, ok := findValue(t, b, base+".meta").(Meta)
	if !ok {
		t.Fatalf("meta has wrong type")
	}
	if meta.Type != "dimmer" || meta.DisplayName != "Lamp1" || meta.HueModel != "LCT001" || meta.CanDimWhenOff {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestTranslateColorModes(t *testing.T) {
	tests := []struct {
		name  string
		state hue.LightState
		want  string
	}{
		{"hs", hue.LightState{ColorMode: strPtr("hs")}, "hsb"},
		{"ct", hue.LightState{ColorMode: strPtr("ct")}, "temperature"},
		{"xy", hue.LightState{ColorMode: strPtr("xy")}, "cie"},
		{"unknown", hue.LightState{ColorMode: strPtr("rainbow")}, "unrecognized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &hue.DeviceState{
				Lights: map[string]hue.Light{"1": {Name: "Desk", State: tt.state}},
			}
			b := Translate(state)[0]
			if got := findValue(t, b, b.Path+".colorMode"); got != tt.want {
				t.Errorf("colorMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslateColorModeAbsent(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{"1": {Name: "Desk", State: hue.LightState{On: true, Bri: 255}}},
	}

	b := Translate(state)[0]
	if len(b.Values) != 3 {
		t.Fatalf("got %d values, want 3 (state, dimmingLevel, meta)", len(b.Values))
	}
	if hasValue(b, b.Path+".colorMode") {
		t.Error("colorMode emitted for a light without one")
	}
}

func TestTranslateZeroHueAndSatStillEmitted(t *testing.T) {
	// Zero is a legitimate hue (red) and saturation value. Presence on the
	// wire, not truthiness, decides emission.
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name: "Desk",
				State: hue.LightState{
					ColorMode: strPtr("hs"),
					Hue:       intPtr(0),
					Sat:       intPtr(0),
				},
			},
		},
	}

	b := Translate(state)[0]
	assertFloat(t, findValue(t, b, b.Path+".hue"), 0)
	assertFloat(t, findValue(t, b, b.Path+".saturation"), 0)
}

func TestTranslateHueWithoutSatOmitted(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name:  "Desk",
				State: hue.LightState{ColorMode: strPtr("hs"), Hue: intPtr(5000)},
			},
		},
	}

	b := Translate(state)[0]
	if hasValue(b, b.Path+".hue") || hasValue(b, b.Path+".saturation") {
		t.Error("hue/saturation emitted without both fields present")
	}
}

func TestTranslateMiredToKelvin(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name:  "Warm",
				State: hue.LightState{ColorMode: strPtr("ct"), Ct: intPtr(250)},
			},
		},
	}

	b := Translate(state)[0]
	assertFloat(t, findValue(t, b, b.Path+".temperature"), 4000.0)
}

func TestTranslateZeroMiredSkipped(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {Name: "Warm", State: hue.LightState{Ct: intPtr(0)}},
		},
	}

	b := Translate(state)[0]
	if hasValue(b, b.Path+".temperature") {
		t.Error("temperature emitted for zero mired")
	}
}

func TestTranslateCIE(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name:  "Color",
				State: hue.LightState{ColorMode: strPtr("xy"), XY: []float64{0.3127, 0.329}},
			},
		},
	}

	b := Translate(state)[0]
	cie, ok := findValue(t, b, b.Path+".cie").(CIE)
	if !ok {
		t.Fatalf("cie has wrong type")
	}
	if cie.X != 0.3127 || cie.Y != 0.329 {
		t.Errorf("cie = %+v, want {0.3127 0.329}", cie)
	}
}

func TestTranslateGroupUsesActionAndAnyOn(t *testing.T) {
	state := &hue.DeviceState{
		Groups: map[string]hue.Group{
			"1": {
				Name:    "Living Room",
				ModelID: "Room",
				State:   hue.GroupState{AnyOn: false, AllOn: false},
				Action:  hue.LightState{On: true, Bri: 254},
			},
		},
	}

	batches := Translate(state)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}

	b := batches[0]
	if b.Kind != KindGroups {
		t.Errorf("kind = %q, want %q", b.Kind, KindGroups)
	}

	base := "electrical.switches.hue.groups.livingRoom"
	if b.Path != base {
		t.Errorf("path = %q, want %q", b.Path, base)
	}

	// any_on decides power, not the action's on flag
	if got := findValue(t, b, base+".state"); got != false {
		t.Errorf("state = %v, want false", got)
	}
	assertFloat(t, findValue(t, b, base+".dimmingLevel"), 254.0/255.0)
}

func TestTranslateDeterministicOrder(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"3": {Name: "Charlie"},
			"1": {Name: "Alpha"},
			"2": {Name: "Bravo"},
		},
		Groups: map[string]hue.Group{
			"1": {Name: "Zone"},
		},
	}

	want := []string{
		"electrical.switches.hue.lights.alpha",
		"electrical.switches.hue.lights.bravo",
		"electrical.switches.hue.lights.charlie",
		"electrical.switches.hue.groups.zone",
	}

	for i := 0; i < 5; i++ {
		batches := Translate(state)
		if len(batches) != len(want) {
			t.Fatalf("got %d batches, want %d", len(batches), len(want))
		}
		for j, b := range batches {
			if b.Path != want[j] {
				t.Fatalf("batch[%d].Path = %q, want %q", j, b.Path, want[j])
			}
		}
	}
}

func TestTranslateIdempotent(t *testing.T) {
	state := &hue.DeviceState{
		Lights: map[string]hue.Light{
			"1": {
				Name:    "Lamp1",
				ModelID: "LCT001",
				State: hue.LightState{
					On:        true,
					Bri:       128,
					ColorMode: strPtr("hs"),
					Hue:       intPtr(10000),
					Sat:       intPtr(200),
				},
			},
		},
	}

	first := Translate(state)
	second := Translate(state)

	if len(first) != len(second) {
		t.Fatalf("batch counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i].Values) != len(second[i].Values) {
			t.Fatalf("value counts differ in batch %d", i)
		}
		for j := range first[i].Values {
			a, b := first[i].Values[j], second[i].Values[j]
			if a.Path != b.Path || a.Value != b.Value {
				t.Errorf("values differ at [%d][%d]: %+v vs %+v", i, j, a, b)
			}
		}
	}
}

func TestTranslateEmptyState(t *testing.T) {
	if got := Translate(&hue.DeviceState{}); len(got) != 0 {
		t.Errorf("got %d batches for empty state, want 0", len(got))
	}
}
