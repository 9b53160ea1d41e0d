// Package translate maps raw device snapshots into normalized path/value
// observation batches.
package translate

import (
	"fmt"
	"sort"

	"github.com/redheadmarine/huedaq/internal/hue"
	"github.com/redheadmarine/huedaq/internal/signalk"
)

// EntityKind classifies a device record: an individual light or a group.
type EntityKind string

const (
	KindLights EntityKind = "lights"
	KindGroups EntityKind = "groups"
)

const pathPrefix = "electrical.switches.hue"

// Hue wire units: hue covers a 360 degree circle in 0-65535 steps
// (65535/360 = 182.04), brightness and saturation run 0-255.
const (
	hueScale = 182.04
	briScale = 255.0
)

// Meta describes a switch entity for the host.
type Meta struct {
	Type          string `json:"type"`
	DisplayName   string `json:"displayName"`
	HueModel      string `json:"hueModel"`
	CanDimWhenOff bool   `json:"canDimWhenOff"`
}

// CIE is an x/y chromaticity pair.
type CIE struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Batch is the full observation set for one device record. Each batch is
// handed to the publisher boundary as its own message.
type Batch struct {
	Kind   EntityKind
	Path   string
	Values []signalk.Value
}

// Translate maps one device snapshot into per-record observation batches.
// Record keys are visited in sorted order so identical snapshots always
// produce identical output.
func Translate(state *hue.DeviceState) []Batch {
	batches := make([]Batch, 0, len(state.Lights)+len(state.Groups))

	for _, id := range sortedKeys(state.Lights) {
		l := state.Lights[id]
		batches = append(batches, record(KindLights, l.Name, l.ModelID, l.State.On, l.State))
	}
	for _, id := range sortedKeys(state.Groups) {
		g := state.Groups[id]
		// Groups report effective power via state.any_on; brightness and
		// color come from the action block.
		batches = append(batches, record(KindGroups, g.Name, g.ModelID, g.State.AnyOn, g.Action))
	}

	return batches
}

func record(kind EntityKind, name, model string, on bool, st hue.LightState) Batch {
	path := fmt.Sprintf("%s.%s.%s", pathPrefix, kind, signalk.CamelCase(name))

	values := []signalk.Value{
		{Path: path + ".state", Value: on},
		{Path: path + ".dimmingLevel", Value: float64(st.Bri) / briScale},
		{Path: path + ".meta", Value: Meta{
			Type:        "dimmer",
			DisplayName: name,
			HueModel:    model,
		}},
	}

	if st.ColorMode != nil {
		values = append(values, signalk.Value{Path: path + ".colorMode", Value: colorModeName(*st.ColorMode)})
	}
	if st.Hue != nil && st.Sat != nil {
		values = append(values,
			signalk.Value{Path: path + ".hue", Value: float64(*st.Hue) / hueScale / 360.0},
			signalk.Value{Path: path + ".saturation", Value: float64(*st.Sat) / briScale},
		)
	}
	// Mired zero would divide to infinity, which no JSON encoder accepts.
	if st.Ct != nil && *st.Ct > 0 {
		values = append(values, signalk.Value{Path: path + ".temperature", Value: miredToKelvin(*st.Ct)})
	}
	if len(st.XY) == 2 {
		values = append(values, signalk.Value{Path: path + ".cie", Value: CIE{X: st.XY[0], Y: st.XY[1]}})
	}

	return Batch{Kind: kind, Path: path, Values: values}
}

// colorModeName maps the device colormode enum onto the host vocabulary.
// Unknown modes are reported explicitly rather than dropped.
func colorModeName(mode string) string {
	switch mode {
	case "hs":
		return "hsb"
	case "ct":
		return "temperature"
	case "xy":
		return "cie"
	default:
		return "unrecognized"
	}
}

func miredToKelvin(mired int) float64 {
	return 1000000.0 / float64(mired)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
