package ayab

import "testing"

func TestDefaultMachineWidth(t *testing.T) {
	if DefaultMachine.NeedleCount() != 200 {
		t.Fatalf("want 200 needles, got %d", DefaultMachine.NeedleCount())
	}
}

func TestParseAlignment(t *testing.T) {
	cases := []struct {
		in   string
		want Alignment
	}{
		{"left", AlignLeft},
		{"center", AlignCenter},
		{"right", AlignRight},
	}
	for _, c := range cases {
		got, err := ParseAlignment(c.in)
		if err != nil {
			t.Fatalf("ParseAlignment(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseAlignment(%q) = %v, want %v", c.in, got, c.want)
		}
		if got.String() != c.in {
			t.Fatalf("Alignment(%v).String() = %q, want %q", got, got.String(), c.in)
		}
	}
}

func TestParseAlignmentInvalid(t *testing.T) {
	if _, err := ParseAlignment("diagonal"); err == nil {
		t.Fatal("expected error for invalid alignment")
	}
}
