package ui

import "testing"

func TestControlsPanel_Contains(t *testing.T) {
	overlays := NewOverlayRegistry()
	c := NewControlsPanel(100, 100, 240)

	if c.Contains(150, 150, overlays) {
		t.Error("hidden panel should not contain points")
	}

	c.Toggle()
	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"inside", 150, 150, true},
		{"left of panel", 50, 150, false},
		{"above panel", 150, 50, false},
		{"below panel", 150, 100 + float32(c.height(overlays)) + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.x, tt.y, overlays); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
