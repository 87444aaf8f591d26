package stagehand

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 fields simultaneously. Create one via
// the convenience constructors (TweenValue, TweenPoint, TweenColor) and call
// Update from Scene.Update with the step delta. Values are written straight
// into the target fields, so a scene's Draw just reads its own state.
//
// There is no global animation manager; scenes own and update their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float32
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds every tween to its start value.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
		val, _ := g.tweens[i].Set(0)
		*g.fields[i] = val
	}
	g.Done = false
}

// TweenValue animates *field to to over duration seconds.
func TweenValue(field *float32, to, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(*field, to, duration, fn)
	g.fields[0] = field
	return g
}

// TweenPoint animates *x and *y to (toX, toY).
func TweenPoint(x, y *float32, toX, toY, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(*x, toX, duration, fn)
	g.tweens[1] = gween.New(*y, toY, duration, fn)
	g.fields[0] = x
	g.fields[1] = y
	return g
}

// TweenColor animates all four components of *c to to.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(c.R, to.R, duration, fn)
	g.tweens[1] = gween.New(c.G, to.G, duration, fn)
	g.tweens[2] = gween.New(c.B, to.B, duration, fn)
	g.tweens[3] = gween.New(c.A, to.A, duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}
