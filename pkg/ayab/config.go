package ayab

import (
	"fmt"
	"strconv"
	"strings"
)

// ModeName identifies a KnittingMode by its configuration string. The
// concrete mode values themselves live in pkg/knitmode; this package
// only needs the name to validate and to let pkg/knitmode resolve it.
type ModeName string

const (
	ModeSinglebed               ModeName = "singlebed"
	ModeClassicRibber           ModeName = "classic_ribber"
	ModeMiddleColorsTwiceRibber ModeName = "middle_colors_twice_ribber"
	ModeHeartOfPlutoRibber      ModeName = "heart_of_pluto_ribber"
	ModeCircularRibber          ModeName = "circular_ribber"
)

// Config is the immutable, validated job configuration of spec.md §3.
// It replaces the source's global mutable conf dict (spec.md §9): one
// value, built once, passed into the FSM constructor.
type Config struct {
	NumColors           int
	StartRow            int
	Mode                ModeName
	InfRepeat           bool
	ContinuousReporting bool
	Alignment           Alignment
	KnitStartNeedle     int
	KnitStopNeedle      int
	Port                string
}

// ParamType mirrors the teacher's pkg/cli/meta.go ParamType: a small
// enum describing how a raw string value should be parsed.
type ParamType string

const (
	ParamInt    ParamType = "int"
	ParamBool   ParamType = "bool"
	ParamEnum   ParamType = "enum"
	ParamString ParamType = "string"
)

// FieldSpec is the config-key analogue of the teacher's ValidationRule:
// enough metadata to parse, range-check, and explain one Config field.
type FieldSpec struct {
	Key         string
	Type        ParamType
	Required    bool
	Min         *int
	Max         *int
	EnumOptions []string
	Description string
}

func intPtr(v int) *int { return &v }

// ConfigSpec is the authoritative list of recognized Config keys, the
// same role pkg/stdimg/commands.go's Commands slice played for image
// commands: one place documenting every accepted key and its
// constraints.
var ConfigSpec = []FieldSpec{
	{Key: "num_colors", Type: ParamInt, Required: true, Min: intPtr(2), Max: intPtr(6), Description: "palette size, 2-6"},
	{Key: "start_row", Type: ParamInt, Required: true, Min: intPtr(0), Description: "0-indexed starting image row"},
	{Key: "mode", Type: ParamEnum, Required: true, EnumOptions: []string{
		string(ModeSinglebed), string(ModeClassicRibber),
		string(ModeMiddleColorsTwiceRibber), string(ModeHeartOfPlutoRibber),
		string(ModeCircularRibber),
	}, Description: "knitting mode"},
	{Key: "inf_repeat", Type: ParamBool, Required: true, Description: "repeat the pattern indefinitely"},
	{Key: "continuous_reporting", Type: ParamBool, Required: true, Description: "ask firmware for indState on every pass"},
	{Key: "alignment", Type: ParamEnum, Required: true, EnumOptions: []string{"left", "center", "right"}, Description: "pattern placement in knit window"},
	{Key: "knit_start_needle", Type: ParamInt, Required: true, Min: intPtr(0), Description: "first needle of the knit window"},
	{Key: "knit_stop_needle", Type: ParamInt, Required: true, Min: intPtr(0), Description: "last needle of the knit window"},
	{Key: "port", Type: ParamString, Required: true, Description: "serial port name, or \"Simulation\""},
}

func findFieldSpec(key string) (FieldSpec, bool) {
	for _, f := range ConfigSpec {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func parseBoolLike(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", s)
	}
}

// NewConfig validates and builds a Config from the UI collaborator's
// key/value map (spec.md §6). Every FieldSpec is checked; unknown
// keys are ignored the way the teacher's meta store silently skips
// unrecognized command arguments when prompting falls back to a
// textual list.
func NewConfig(raw map[string]string, m Machine) (Config, error) {
	var c Config
	get := func(key string) (string, bool) {
		v, ok := raw[key]
		return v, ok
	}

	for _, f := range ConfigSpec {
		v, present := get(f.Key)
		if !present {
			if f.Required {
				return Config{}, NewError(InvalidSettings, nil, "missing required config key %q", f.Key)
			}
			continue
		}
		switch f.Type {
		case ParamInt:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Config{}, NewError(InvalidSettings, err, "config key %q must be an integer", f.Key)
			}
			if f.Min != nil && n < *f.Min {
				return Config{}, NewError(InvalidSettings, nil, "config key %q must be >= %d", f.Key, *f.Min)
			}
			if f.Max != nil && n > *f.Max {
				return Config{}, NewError(InvalidSettings, nil, "config key %q must be <= %d", f.Key, *f.Max)
			}
			switch f.Key {
			case "num_colors":
				c.NumColors = n
			case "start_row":
				c.StartRow = n
			case "knit_start_needle":
				c.KnitStartNeedle = n
			case "knit_stop_needle":
				c.KnitStopNeedle = n
			}
		case ParamBool:
			b, err := parseBoolLike(v)
			if err != nil {
				return Config{}, NewError(InvalidSettings, err, "config key %q", f.Key)
			}
			switch f.Key {
			case "inf_repeat":
				c.InfRepeat = b
			case "continuous_reporting":
				c.ContinuousReporting = b
			}
		case ParamEnum:
			valid := false
			for _, opt := range f.EnumOptions {
				if opt == v {
					valid = true
					break
				}
			}
			if !valid {
				return Config{}, NewError(InvalidSettings, nil, "config key %q must be one of %v, got %q", f.Key, f.EnumOptions, v)
			}
			switch f.Key {
			case "mode":
				c.Mode = ModeName(v)
			case "alignment":
				al, err := ParseAlignment(v)
				if err != nil {
					return Config{}, err
				}
				c.Alignment = al
			}
		case ParamString:
			if f.Key == "port" {
				c.Port = v
			}
		}
	}

	if c.KnitStartNeedle >= c.KnitStopNeedle {
		return Config{}, NewError(InvalidSettings, nil, "knit_start_needle (%d) must be < knit_stop_needle (%d)", c.KnitStartNeedle, c.KnitStopNeedle)
	}
	if c.KnitStopNeedle > m.Width-1 {
		return Config{}, NewError(InvalidSettings, nil, "knit_stop_needle (%d) must be <= machine width-1 (%d)", c.KnitStopNeedle, m.Width-1)
	}
	return c, nil
}
