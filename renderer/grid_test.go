package renderer

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func TestMultiples(t *testing.T) {
	tests := []struct {
		name         string
		lo, hi, step float64
		want         []float64
	}{
		{"positive range", 1, 20, 8, []float64{8, 16}},
		{"includes bounds", 0, 16, 8, []float64{0, 8, 16}},
		{"negative range", -17, -1, 8, []float64{-16, -8}},
		{"straddles zero", -960, 960, 960, []float64{-960, 0, 960}},
		{"empty", 1, 7, 8, nil},
		{"zero step", 0, 100, 0, nil},
		{"inverted", 10, 0, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Multiples(tt.lo, tt.hi, tt.step)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTailEnd(t *testing.T) {
	pos := components.Vec2{X: 10, Y: 10}

	got := TailEnd(pos, 0, 8)
	if got != (components.Vec2{X: 2, Y: 10}) {
		t.Errorf("heading 0: tail = %+v, want (2,10)", got)
	}

	got = TailEnd(pos, math.Pi/2, 15)
	if math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y+5) > 1e-9 {
		t.Errorf("heading pi/2: tail = %+v, want (10,-5)", got)
	}
}

func TestNewFishRenderer_DefaultStyles(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	r := NewFishRenderer(cfg.Render)

	pred := r.Style(components.KindPredator)
	if pred.HeadRadius != 5 || pred.TailLength != 15 || pred.Color.R != 255 || pred.Color.G != 0 {
		t.Errorf("predator style = %+v", pred)
	}
	school := r.Style(components.KindSchoolFish)
	if school.HeadRadius != 3 || school.TailLength != 8 || school.Color.B != 255 {
		t.Errorf("school style = %+v", school)
	}

	g := NewGridRenderer(cfg.Render)
	if g.DotSpacing != 8 || g.CellW != 960 || g.CellH != 540 {
		t.Errorf("grid = %+v", g)
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor(0xff7701)
	if c.R != 0xff || c.G != 0x77 || c.B != 0x01 || c.A != 255 {
		t.Errorf("HexColor = %+v", c)
	}
}
