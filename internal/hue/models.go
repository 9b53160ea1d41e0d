package hue

// LightState represents the reported state of a light, or the action block of
// a group (v1 wire format). Color fields are conditionally present on the
// wire: a nil pointer means the device did not report the field, so a
// legitimate zero value survives decoding.
type LightState struct {
	On        bool      `json:"on"`
	Bri       int       `json:"bri"`
	ColorMode *string   `json:"colormode,omitempty"`
	Hue       *int      `json:"hue,omitempty"`
	Sat       *int      `json:"sat,omitempty"`
	Ct        *int      `json:"ct,omitempty"`
	XY        []float64 `json:"xy,omitempty"`
}

// Light represents one individual light record.
type Light struct {
	Name    string     `json:"name"`
	ModelID string     `json:"modelid"`
	State   LightState `json:"state"`
}

// GroupState carries the aggregate power flags of a group.
type GroupState struct {
	AllOn bool `json:"all_on"`
	AnyOn bool `json:"any_on"`
}

// Group represents one group record. Effective power comes from State.AnyOn;
// brightness and color come from the Action block.
type Group struct {
	Name    string     `json:"name"`
	ModelID string     `json:"modelid"`
	State   GroupState `json:"state"`
	Action  LightState `json:"action"`
}

// DeviceState is one full status snapshot from the device. It is owned by a
// single poll cycle and discarded after translation.
type DeviceState struct {
	Lights map[string]Light `json:"lights"`
	Groups map[string]Group `json:"groups"`
}
