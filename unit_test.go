package hit

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Unit
	}{
		{"bare number", "120", Abs(120)},
		{"bare float", "12.5", Abs(12.5)},
		{"negative", "-40", Abs(-40)},
		{"percent", "50%", Pct(50)},
		{"viewport width", "10vw", VW(10)},
		{"viewport height", "25vh", VH(25)},
		{"rem", "2rem", Rem(2)},
		{"em", "1.5em", Em(1.5)},
		{"px is absolute", "64px", Abs(64)},
		{"whitespace tolerated", "  30%  ", Pct(30)},
		{"unknown suffix degrades to numeric prefix", "12banana", Abs(12)},
		{"garbage degrades to zero", "banana", Abs(0)},
		{"empty string", "", Abs(0)},
		{"suffix only", "%", Pct(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_NeverPanics(t *testing.T) {
	// Resolution must continue with a deterministic value on any input.
	for _, s := range []string{"", " ", "....", "+-", "NaNrem", "%%", "1e3vw"} {
		_ = Parse(s)
	}
}

func TestUnit_Resolve(t *testing.T) {
	m := metrics{
		containerWidth:  400,
		containerHeight: 300,
		viewportWidth:   1000,
		viewportHeight:  800,
		rootFontSize:    16,
		fontSize:        20,
	}

	tests := []struct {
		name       string
		unit       Unit
		horizontal bool
		want       float64
	}{
		{"absolute passes through", Abs(42), true, 42},
		{"percent of container width", Pct(50), true, 200},
		{"percent of container height", Pct(50), false, 150},
		{"vw against viewport width", VW(10), false, 100},
		{"vh against viewport height", VH(25), true, 200},
		{"rem against root font", Rem(2), true, 32},
		{"em against container font", Em(3), false, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.resolve(m, tt.horizontal); got != tt.want {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}
