package ayab

import "testing"

func validRaw() map[string]string {
	return map[string]string{
		"num_colors":           "2",
		"start_row":            "0",
		"mode":                 "singlebed",
		"inf_repeat":           "false",
		"continuous_reporting": "true",
		"alignment":            "center",
		"knit_start_needle":    "0",
		"knit_stop_needle":     "199",
		"port":                 "Simulation",
	}
}

func TestNewConfigValid(t *testing.T) {
	c, err := NewConfig(validRaw(), DefaultMachine)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.NumColors != 2 || c.Mode != ModeSinglebed || c.Alignment != AlignCenter {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestNewConfigMissingRequired(t *testing.T) {
	raw := validRaw()
	delete(raw, "mode")
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error for missing required key")
	}
}

func TestNewConfigBadNumColors(t *testing.T) {
	raw := validRaw()
	raw["num_colors"] = "12"
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error for out-of-range num_colors")
	}
}

func TestNewConfigNeedleOrdering(t *testing.T) {
	raw := validRaw()
	raw["knit_start_needle"] = "100"
	raw["knit_stop_needle"] = "50"
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error when start needle >= stop needle")
	}
}

func TestNewConfigNeedleOutOfMachine(t *testing.T) {
	raw := validRaw()
	raw["knit_stop_needle"] = "250"
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error when stop needle exceeds machine width")
	}
}

func TestNewConfigBadEnum(t *testing.T) {
	raw := validRaw()
	raw["mode"] = "nonexistent_mode"
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewConfigBadBool(t *testing.T) {
	raw := validRaw()
	raw["inf_repeat"] = "maybe"
	if _, err := NewConfig(raw, DefaultMachine); err == nil {
		t.Fatal("expected error for unparseable bool")
	}
}
