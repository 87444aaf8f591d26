package stagehand

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// lineSpacingFactor scales the font size into the line advance used for
// multi-line text.
const lineSpacingFactor = 1.2

// Renderer paints draw batches onto an ebiten image, resolving tickets
// through a Storage.
type Renderer struct {
	storage *Storage
	faces   map[faceKey]*text.GoTextFace
}

type faceKey struct {
	src  *text.GoTextFaceSource
	size float64
}

// NewRenderer creates a renderer resolving tickets through storage.
func NewRenderer(storage *Storage) *Renderer {
	return &Renderer{
		storage: storage,
		faces:   make(map[faceKey]*text.GoTextFace),
	}
}

// Render paints batches in order. The first draw whose ticket cannot be
// resolved aborts the rest of the frame and its error is returned; draws
// already submitted stay on target.
func (r *Renderer) Render(target *ebiten.Image, batches []DrawBatch) error {
	for bi := range batches {
		for di := range batches[bi].Draws {
			d := &batches[bi].Draws[di]
			var err error
			switch d.Kind {
			case DrawSprite:
				err = r.drawSprite(target, d)
			case DrawText:
				err = r.drawText(target, d)
			default:
				err = fmt.Errorf("stagehand: unknown draw kind %d", d.Kind)
			}
			if err != nil {
				return fmt.Errorf("batch %d draw %d: %w", bi, di, err)
			}
		}
	}
	return nil
}

func (r *Renderer) drawSprite(target *ebiten.Image, d *Draw) error {
	img, err := r.storage.Textures.GetByTicket(d.Ticket)
	if err != nil {
		return err
	}
	if src := d.Data.Source; src != nil {
		img = img.SubImage(image.Rect(
			int(src.X), int(src.Y),
			int(src.X+src.Width), int(src.Y+src.Height),
		)).(*ebiten.Image)
	}
	b := img.Bounds()

	op := &ebiten.DrawImageOptions{}
	place(&op.GeoM, float64(b.Dx()), float64(b.Dy()), &d.Data)
	if d.Color != (Color{}) {
		op.ColorScale.ScaleWithColor(d.Color)
	}
	op.Blend = d.Data.Blend.EbitenBlend()
	target.DrawImage(img, op)
	return nil
}

func (r *Renderer) drawText(target *ebiten.Image, d *Draw) error {
	src, err := r.storage.Fonts.GetByTicket(d.Ticket)
	if err != nil {
		return err
	}
	size := d.Size
	if size <= 0 {
		size = DefaultTextSize
	}
	face := r.face(src, size)
	lineSpacing := size * lineSpacingFactor
	w, h := text.Measure(d.Text, face, lineSpacing)

	op := &text.DrawOptions{}
	op.LineSpacing = lineSpacing
	place(&op.GeoM, w, h, &d.Data)
	c := d.Color
	if c == (Color{}) {
		c = ColorWhite
	}
	op.ColorScale.ScaleWithColor(c)
	op.Blend = d.Data.Blend.EbitenBlend()
	text.Draw(target, d.Text, face, op)
	return nil
}

func (r *Renderer) face(src *text.GoTextFaceSource, size float64) *text.GoTextFace {
	k := faceKey{src: src, size: size}
	if f, ok := r.faces[k]; ok {
		return f
	}
	f := &text.GoTextFace{Source: src, Size: size}
	r.faces[k] = f
	return f
}

// place builds the transform for content of size (w, h): flip in local
// space, scale to the destination, rotate around the origin point, then
// move the origin point onto the destination.
func place(g *ebiten.GeoM, w, h float64, data *DrawData) {
	if f := data.Flip; f != nil {
		if f.Horizontal {
			g.Scale(-1, 1)
			g.Translate(w, 0)
		}
		if f.Vertical {
			g.Scale(1, -1)
			g.Translate(0, h)
		}
	}

	sx, sy := 1.0, 1.0
	var dx, dy float64
	if dst := data.Destination; dst != nil {
		switch dst.Kind {
		case DestinationRect:
			if w > 0 {
				sx = float64(dst.Rect.Width) / w
			}
			if h > 0 {
				sy = float64(dst.Rect.Height) / h
			}
			dx, dy = float64(dst.Rect.X), float64(dst.Rect.Y)
		default:
			dx, dy = float64(dst.X), float64(dst.Y)
		}
	}
	g.Scale(sx, sy)

	var ox, oy float64
	if rot := data.Rotation; rot != nil {
		ox = float64(rot.OriginX) * w * sx
		oy = float64(rot.OriginY) * h * sy
		g.Translate(-ox, -oy)
		g.Rotate(float64(rot.Angle) * math.Pi / 180)
	}

	if data.Destination != nil && data.Destination.Kind == DestinationRect {
		g.Translate(dx+ox, dy+oy)
		return
	}
	g.Translate(dx, dy)
}
