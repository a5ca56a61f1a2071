package engine

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Coord
	}{
		{"A1", Coord{Row: 0, Col: 0}},
		{"B7", Coord{Row: 6, Col: 1}},
		{"Z1", Coord{Row: 0, Col: 25}},
		{"AA1", Coord{Row: 0, Col: 26}},
		{"AZ3", Coord{Row: 2, Col: 51}},
		{"BA1", Coord{Row: 0, Col: 52}},
		{"ZZ1", Coord{Row: 0, Col: 701}},
		{"AAA1", Coord{Row: 0, Col: 702}},
		{"ZZZ1000000", Coord{Row: 999999, Col: 18277}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRefInvalid(t *testing.T) {
	for _, in := range []string{"", "A", "1", "123", "A0", "A-1", "1A", "A1B", "a1", "A 1"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseRef(in); err == nil {
				t.Errorf("ParseRef(%q) succeeded, want error", in)
			}
			ce, ok := func() (*CellError, bool) {
				_, err := ParseRef(in)
				cellErr, isCell := err.(*CellError)
				return cellErr, isCell
			}()
			if !ok || ce.Display() != DisplayRef {
				t.Errorf("ParseRef(%q) error should display %s", in, DisplayRef)
			}
		})
	}
}

func TestFormatRef(t *testing.T) {
	tests := []struct {
		in   Coord
		want string
	}{
		{Coord{Row: 0, Col: 0}, "A1"},
		{Coord{Row: 6, Col: 1}, "B7"},
		{Coord{Row: 0, Col: 25}, "Z1"},
		{Coord{Row: 0, Col: 26}, "AA1"},
		{Coord{Row: 0, Col: 701}, "ZZ1"},
		{Coord{Row: 0, Col: 702}, "AAA1"},
	}

	for _, tt := range tests {
		if got := FormatRef(tt.in); got != tt.want {
			t.Errorf("FormatRef(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestRefRoundTrip covers the full practical addressing range: every
// column through ZZ and a spread of rows through 9999 must survive
// format-then-parse unchanged.
func TestRefRoundTrip(t *testing.T) {
	for col := 0; col <= 701; col++ { // A through ZZ
		for _, row := range []int{0, 1, 25, 99, 4999, 9998} {
			c := Coord{Row: row, Col: col}
			label := FormatRef(c)
			parsed, err := ParseRef(label)
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", label, err)
			}
			if parsed != c {
				t.Fatalf("round trip %+v -> %q -> %+v", c, label, parsed)
			}
		}
	}
}

func TestExpandRange(t *testing.T) {
	want := []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

	a, _ := ParseRef("A1")
	b, _ := ParseRef("B2")

	for name, corners := range map[string][2]Coord{
		"forward":  {a, b},
		"reversed": {b, a},
	} {
		t.Run(name, func(t *testing.T) {
			got := ExpandRange(corners[0], corners[1])
			if len(got) != len(want) {
				t.Fatalf("got %d coords, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("coord %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestExpandRangeSingleCell(t *testing.T) {
	got := ExpandRange(Coord{Row: 3, Col: 3}, Coord{Row: 3, Col: 3})
	if len(got) != 1 || got[0] != (Coord{Row: 3, Col: 3}) {
		t.Errorf("single-cell range = %+v", got)
	}
}

func TestParseRange(t *testing.T) {
	a, b, err := ParseRange("B2:A1")
	if err != nil {
		t.Fatal(err)
	}
	if a != (Coord{Row: 1, Col: 1}) || b != (Coord{Row: 0, Col: 0}) {
		t.Errorf("ParseRange corners = %+v, %+v", a, b)
	}

	if _, _, err := ParseRange("A1"); err == nil {
		t.Error("ParseRange without colon should fail")
	}
	if _, _, err := ParseRange("A1:xyz"); err == nil {
		t.Error("ParseRange with bad second corner should fail")
	}
}
