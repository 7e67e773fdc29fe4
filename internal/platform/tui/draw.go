package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// CellAspect is the height of a terminal cell relative to its width.
const CellAspect = 2.0

// Zoom limits in world units per column.
const (
	DefaultScale = 4.0
	MinScale     = 0.5
	MaxScale     = 32.0
)

// Camera maps world coordinates onto screen cells. Scale is the world
// width covered by one column; a row covers Scale*CellAspect.
type Camera struct {
	Center core.Vec2
	Scale  float64
}

// ToCell returns the cell containing world point p on a w×h screen.
func (c Camera) ToCell(p core.Vec2, w, h int) (int, int) {
	x := (p.X-c.Center.X)/c.Scale + float64(w)/2
	y := (p.Y-c.Center.Y)/(c.Scale*CellAspect) + float64(h)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld returns the world point at the middle of cell (x, y).
func (c Camera) ToWorld(x, y, w, h int) core.Vec2 {
	return core.Vec2{
		X: c.Center.X + (float64(x)+0.5-float64(w)/2)*c.Scale,
		Y: c.Center.Y + (float64(y)+0.5-float64(h)/2)*c.Scale*CellAspect,
	}
}

// FocusCamera centers a camera on actor self, or on the middle of the
// world when the actor is not in the snapshot.
func FocusCamera(snap *sim.Snapshot, self core.ActorID, scale float64) Camera {
	scale = core.ClampF(scale, MinScale, MaxScale)
	if a, ok := snap.Actor(self); ok {
		return Camera{Center: a.Center, Scale: scale}
	}
	if len(snap.World.Bodies) == 0 {
		return Camera{Scale: scale}
	}
	lo := snap.World.Bodies[0].Center
	hi := lo
	for _, b := range snap.World.Bodies[1:] {
		lo.X = math.Min(lo.X, b.Center.X)
		lo.Y = math.Min(lo.Y, b.Center.Y)
		hi.X = math.Max(hi.X, b.Center.X)
		hi.Y = math.Max(hi.Y, b.Center.Y)
	}
	return Camera{Center: lo.Add(hi).Scale(0.5), Scale: scale}
}

// glyph is how one shape is drawn.
type glyph struct {
	r     rune
	color core.Color
	layer int
}

const (
	layerCanopy = iota
	layerStatic
	layerDynamic
	layerActor
	layerCount
)

// DrawSnapshot rasterizes a snapshot into dst through cam. Actor self is
// highlighted. Layers are drawn bottom-up: canopies, static bodies,
// dynamic bodies, actors, joints.
func DrawSnapshot(dst *core.Screen, snap *sim.Snapshot, self core.ActorID, cam Camera) {
	owners := make(map[physics.BodyID]core.ActorID)
	for _, a := range snap.Actors {
		for _, id := range a.Bodies {
			owners[id] = a.ID
		}
	}

	for layer := range layerCount {
		for i := range snap.World.Bodies {
			b := &snap.World.Bodies[i]
			for j := range b.Shapes {
				g, ok := glyphFor(b, &b.Shapes[j], owners, self)
				if !ok || g.layer != layer {
					continue
				}
				fillShape(dst, &b.Shapes[j], cam, g)
			}
		}
	}

	w, h := dst.Width(), dst.Height()
	for _, j := range snap.World.Joints {
		x, y := cam.ToCell(j.AnchorB, w, h)
		dst.SetColor(x, y, '+', core.ColorJoint)
	}
}

func glyphFor(b *physics.BodyState, sh *physics.ShapeState, owners map[physics.BodyID]core.ActorID, self core.ActorID) (glyph, bool) {
	switch b.Tag.(type) {
	case *sim.SpaceProbe:
		return glyph{}, false
	case *sim.Tree:
		if sh.Sensor {
			return glyph{'░', core.ColorCanopy, layerCanopy}, true
		}
		return glyph{'█', core.ColorTrunk, layerStatic}, true
	case *sim.SeedPending:
		return glyph{'•', core.ColorSeed, layerDynamic}, true
	case *sim.Expiring:
		return glyph{'●', core.ColorProjectile, layerDynamic}, true
	}

	if owner, ok := owners[b.ID]; ok {
		color := core.ColorOther
		if owner == self {
			color = core.ColorSelf
		}
		if sh.Sensor {
			return glyph{'·', core.ColorSensor, layerActor}, true
		}
		return glyph{'█', color, layerActor}, true
	}

	if sh.Sensor {
		return glyph{'·', core.ColorSensor, layerCanopy}, true
	}
	if b.Kind == physics.Static {
		return glyph{'▓', core.ColorGround, layerStatic}, true
	}
	return glyph{'▒', core.ColorProp, layerDynamic}, true
}

// fillShape sets every cell whose middle lies inside sh. Shapes smaller
// than a cell still mark the cell holding their center.
func fillShape(dst *core.Screen, sh *physics.ShapeState, cam Camera, g glyph) {
	w, h := dst.Width(), dst.Height()

	reach := sh.Radius
	if sh.Kind == physics.ShapeRectangle {
		reach = math.Hypot(sh.Width, sh.Height) / 2
	}
	x0, y0 := cam.ToCell(sh.Center.Sub(core.V(reach, reach)), w, h)
	x1, y1 := cam.ToCell(sh.Center.Add(core.V(reach, reach)), w, h)
	x0, y0 = core.Clamp(x0, 0, w), core.Clamp(y0, 0, h)
	x1, y1 = core.Clamp(x1, -1, w-1), core.Clamp(y1, -1, h-1)

	hit := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if containsPoint(sh, cam.ToWorld(x, y, w, h)) {
				dst.SetColor(x, y, g.r, g.color)
				hit = true
			}
		}
	}
	if !hit {
		x, y := cam.ToCell(sh.Center, w, h)
		dst.SetColor(x, y, g.r, g.color)
	}
}

func containsPoint(sh *physics.ShapeState, p core.Vec2) bool {
	d := p.Sub(sh.Center)
	if sh.Kind == physics.ShapeCircle {
		return d.LenSq() <= sh.Radius*sh.Radius
	}
	local := d.Rotate(-sh.Angle)
	return math.Abs(local.X) <= sh.Width/2 && math.Abs(local.Y) <= sh.Height/2
}

// DrawHUD writes the status line for a snapshot on row y.
func DrawHUD(dst *core.Screen, y int, snap *sim.Snapshot, code string) {
	c := snap.Counts
	line := fmt.Sprintf(" %s  room %s  frame %d  actors %d  bodies %d  trees %d  seeds %d  shots %d ",
		snap.Mode, code, snap.Frame, len(snap.Actors), c.Bodies, c.Trees, c.Seeds, c.Projectiles)
	dst.DrawHLine(0, y, dst.Width(), ' ', core.ColorHUD)
	dst.DrawTextColor(0, y, line, core.ColorHUD)
}

// DrawNotice draws a boxed one-line message in the middle of dst.
func DrawNotice(dst *core.Screen, text string) {
	w := len([]rune(text)) + 4
	r := core.NewRect((dst.Width()-w)/2, dst.Height()/2-1, w, 3)
	dst.DrawRect(r, ' ')
	dst.DrawBox(r, core.ColorHUD)
	dst.DrawTextColor(r.X+2, r.Y+1, text, core.ColorWarn)
}
