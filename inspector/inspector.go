// Package inspector lets the user click a fish and read its live state.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 26
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 255, B: 255, A: 200}
)

// Details is the derived state of one agent shown in the panel.
type Details struct {
	ID         uint32
	Kind       components.Kind
	Pos        components.Vec2
	Vel        components.Vec2
	Speed      float64
	Heading    float64 // radians
	Neighbours int     // visible school fish, self excluded
	Predator   float64 // distance to the nearest predator, -1 = none
}

// Inspector tracks the selected agent by ID and draws its panel.
type Inspector struct {
	selected    uint32
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel sits in the bottom-right
// corner, above the controls legend.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize moves the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = max(screenHeight-ins.panelHeight()-40, 10)
}

// Select marks an agent as selected.
func (ins *Inspector) Select(id uint32) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected agent ID, if any.
func (ins *Inspector) Selected() (uint32, bool) {
	return ins.selected, ins.hasSelected
}

// ContainsPoint reports whether a screen point falls on the open panel.
func (ins *Inspector) ContainsPoint(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight()
}

// closeButtonHit reports whether a screen point is on the close button.
func (ins *Inspector) closeButtonHit(x, y float32) bool {
	closeX := ins.panelX + PanelWidth - 22
	closeY := ins.panelY + 4
	return int32(x) >= closeX && int32(x) <= closeX+18 &&
		int32(y) >= closeY && int32(y) <= closeY+18
}

// HandleClick applies a left click at screen (sx, sy) that resolved to
// world (wx, wy). Clicks on the panel are swallowed; the close button
// deselects; anything else picks the nearest agent within radius.
func (ins *Inspector) HandleClick(sx, sy float32, wx, wy, radius float64, agents []systems.Agent) {
	if ins.hasSelected && ins.closeButtonHit(sx, sy) {
		ins.Deselect()
		return
	}
	if ins.ContainsPoint(sx, sy) {
		return
	}
	if id, ok := Pick(agents, wx, wy, radius); ok {
		ins.Select(id)
	} else {
		ins.Deselect()
	}
}

// Pick returns the agent nearest to (wx, wy) within radius.
func Pick(agents []systems.Agent, wx, wy, radius float64) (uint32, bool) {
	best := radius * radius
	var id uint32
	found := false
	for _, a := range agents {
		dx := a.Pos.X - wx
		dy := a.Pos.Y - wy
		if d := dx*dx + dy*dy; d <= best {
			best = d
			id = a.ID
			found = true
		}
	}
	return id, found
}

// Inspect derives the panel details for agent id from a snapshot.
func Inspect(agents []systems.Agent, id uint32, visibility float64) (Details, bool) {
	idx := -1
	for i := range agents {
		if agents[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Details{}, false
	}

	self := agents[idx]
	d := Details{
		ID:       self.ID,
		Kind:     self.Kind,
		Pos:      self.Pos,
		Vel:      self.Vel,
		Speed:    self.Vel.Len(),
		Heading:  self.Heading(),
		Predator: -1,
	}
	for _, o := range agents {
		if o.ID == self.ID {
			continue
		}
		dist := o.Pos.Sub(self.Pos).Len()
		if o.IsPredator() {
			if d.Predator < 0 || dist < d.Predator {
				d.Predator = dist
			}
			continue
		}
		if dist < visibility {
			d.Neighbours++
		}
	}
	return d, true
}

func (ins *Inspector) panelHeight() int32 {
	return HeaderHeight + PanelPadding*2 + 6*lineHeight + angleHeight
}

// Draw renders the panel for d.
func (ins *Inspector) Draw(d Details) {
	x, y := ins.panelX, ins.panelY
	h := ins.panelHeight()

	rl.DrawRectangle(x, y, PanelWidth, h, ColorPanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, h, ColorPanelBorder)
	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("%s #%d", d.Kind, d.ID), x+PanelPadding, y+6, 16, ColorHeaderText)

	closeX := x + PanelWidth - 22
	rl.DrawRectangle(closeX, y+4, 18, 18, ColorCloseBtn)
	rl.DrawText("x", closeX+5, y+5, 16, ColorHeaderText)

	cy := y + HeaderHeight + PanelPadding
	cx := x + PanelPadding
	cy += DrawLabel(cx, cy, "Position", fmt.Sprintf("%.1f, %.1f", d.Pos.X, d.Pos.Y))
	cy += DrawLabel(cx, cy, "Velocity", fmt.Sprintf("%.1f, %.1f", d.Vel.X, d.Vel.Y))
	cy += DrawLabel(cx, cy, "Speed", fmt.Sprintf("%.1f", d.Speed))
	cy += DrawAngle(cx, cy, "Heading", d.Heading)
	cy += DrawLabel(cx, cy, "Neighbours", fmt.Sprintf("%d", d.Neighbours))
	predator := "none"
	if d.Predator >= 0 {
		predator = fmt.Sprintf("%.1f", d.Predator)
	}
	cy += DrawLabel(cx, cy, "Predator", predator)
	finite := "yes"
	if !d.Pos.IsFinite() || !d.Vel.IsFinite() || math.IsNaN(d.Speed) {
		finite = "NO"
	}
	DrawLabel(cx, cy, "Finite", finite)
}

// DrawHighlight rings the selected agent at screen (sx, sy).
func DrawHighlight(sx, sy, radius float32) {
	rl.DrawCircleLines(int32(sx), int32(sy), radius, ColorHighlight)
}
