package stagehand

import "github.com/hajimehoshi/ebiten/v2"

// Color is an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens when the renderer submits the draw.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default text color and the identity tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA implements color.Color with premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a8 := clamp01(c.A)
	r = uint32(clamp01(c.R*a8) * 0xffff)
	g = uint32(clamp01(c.G*a8) * 0xffff)
	b = uint32(clamp01(c.B*a8) * 0xffff)
	a = uint32(a8 * 0xffff)
	return
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DrawRect is an axis-aligned rectangle in pixels. Origin top-left, Y down.
type DrawRect struct {
	X, Y, Width, Height float32
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r DrawRect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// DestinationKind selects how a Destination is interpreted.
type DestinationKind uint8

const (
	DestinationLocation DestinationKind = iota // draw at natural size at (X, Y)
	DestinationRect                            // stretch into Rect
)

// Destination is where a draw lands on screen.
type Destination struct {
	Kind DestinationKind
	X, Y float32  // DestinationLocation
	Rect DrawRect // DestinationRect
}

// Rotation rotates a draw by Angle degrees clockwise around Origin, given
// as a fraction of the drawn size ((0.5, 0.5) is the center).
type Rotation struct {
	Angle            float32
	OriginX, OriginY float32
}

// Flip mirrors a draw.
type Flip struct {
	Horizontal, Vertical bool
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendErase                     // destination-out (punch transparent holes)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

// DrawData places a draw. Nil fields take their defaults: full source,
// drawn at the origin, unrotated, unflipped.
type DrawData struct {
	Source      *DrawRect
	Destination *Destination
	Rotation    *Rotation
	Flip        *Flip
	Blend       BlendMode
}

// DrawAt places the top-left corner at (x, y).
func DrawAt(x, y float32) DrawData {
	return DrawData{Destination: &Destination{Kind: DestinationLocation, X: x, Y: y}}
}

// DrawCenteredAt places the center at (x, y).
func DrawCenteredAt(x, y float32) DrawData {
	return DrawRotatedAt(x, y, 0, 0.5, 0.5)
}

// DrawRotatedAt places the origin point (a fraction of the drawn size) at
// (x, y) and rotates angle degrees around it.
func DrawRotatedAt(x, y, angle, originX, originY float32) DrawData {
	return DrawData{
		Destination: &Destination{Kind: DestinationLocation, X: x, Y: y},
		Rotation:    &Rotation{Angle: angle, OriginX: originX, OriginY: originY},
	}
}

// DrawInto stretches the draw into r.
func DrawInto(r DrawRect) DrawData {
	return DrawData{Destination: &Destination{Kind: DestinationRect, Rect: r}}
}

// WithSource returns a copy of d drawing only src of the texture.
func (d DrawData) WithSource(src DrawRect) DrawData {
	d.Source = &src
	return d
}

// WithFlip returns a copy of d mirrored as requested.
func (d DrawData) WithFlip(horizontal, vertical bool) DrawData {
	d.Flip = &Flip{Horizontal: horizontal, Vertical: vertical}
	return d
}

// DrawKind distinguishes what a Draw's ticket refers to.
type DrawKind uint8

const (
	DrawSprite DrawKind = iota // ticket names a texture
	DrawText                   // ticket names a font; Text and Color apply
)

// Draw is a single renderer instruction.
type Draw struct {
	Ticket Ticket
	Kind   DrawKind
	Text   string
	Size   float64 // font size in pixels for DrawText; 0 uses DefaultTextSize
	Color  Color
	Data   DrawData
}

// DefaultTextSize is the font size used when Draw.Size is zero.
const DefaultTextSize = 24

// Sprite builds a texture draw.
func Sprite(t Ticket, data DrawData) Draw {
	return Draw{Ticket: t, Kind: DrawSprite, Color: ColorWhite, Data: data}
}

// Text builds a text draw.
func Text(font Ticket, s string, c Color, data DrawData) Draw {
	return Draw{Ticket: font, Kind: DrawText, Text: s, Color: c, Data: data}
}

// DrawBatch is the output of one scene's Draw, painted in order.
type DrawBatch struct {
	Draws []Draw
}

// Add appends d to the batch.
func (b *DrawBatch) Add(d Draw) {
	b.Draws = append(b.Draws, d)
}
