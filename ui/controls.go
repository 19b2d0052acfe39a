package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the simulation state the panel displays and edits.
type ControlsState struct {
	Paused    bool
	Following bool
	Speed     int // substeps per frame
}

// ControlsAction reports what the user clicked this frame.
type ControlsAction struct {
	TogglePause  bool
	StepOnce     bool
	ToggleFollow bool
	ResetCamera  bool
	Speed        int
}

// ControlsPanel renders the right-side controls panel with raygui widgets.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// height returns the panel height for the registered overlays.
func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	line := c.renderer.Theme.LineHeight + 8
	rows := int32(5)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*line + c.renderer.Theme.Padding*2
}

// Contains reports whether a screen point falls on the visible panel.
func (c *ControlsPanel) Contains(x, y float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return int32(x) >= c.x && int32(x) <= c.x+c.width &&
		int32(y) >= c.y && int32(y) <= c.y+c.height(overlays)
}

// Draw renders the panel and returns the actions taken this frame.
// Overlay checkboxes write straight into the registry.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsAction {
	action := ControlsAction{Speed: state.Speed}
	if !c.visible {
		return action
	}

	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight + 8

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	w := float32(c.width - pad*2)
	half := (w - 10) / 2

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += float32(line)

	pauseLabel := "Pause"
	if state.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 20}, pauseLabel) {
		action.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 20}, "Step") {
		action.StepOnce = true
	}
	y += float32(line)

	followLabel := "Follow: off"
	if state.Following {
		followLabel = "Follow: on"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 20}, followLabel) {
		action.ToggleFollow = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 20}, "Reset View") {
		action.ResetCamera = true
	}
	y += float32(line)

	rl.DrawText(fmt.Sprintf("Speed %dx", state.Speed), int32(x), int32(y)+4, r.Theme.FontSize, r.Theme.LabelColor)
	speed := gui.SliderBar(rl.Rectangle{X: x + 70, Y: y, Width: w - 80, Height: 20}, "", "", float32(state.Speed), 1, 10)
	action.Speed = int(speed + 0.5)
	y += float32(line)

	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += float32(line)
		for _, desc := range overlays.ByCategory(cat) {
			label := desc.Name
			if desc.KeyLabel != "" {
				label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			}
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, label, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			y += float32(line)
		}
	}

	return action
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
