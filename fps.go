package stagehand

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// FPSSceneKey is the key Run registers the FPS overlay under.
const FPSSceneKey = "stagehand.fps"

const fpsRefresh = 0.5 // seconds between readouts

// FPSScene is an overlay showing the current FPS and TPS in the top-left
// corner with the default font. It neither blocks nor covers.
type FPSScene struct {
	font    Ticket
	label   string
	elapsed float64
}

// NewFPSScene creates the overlay. It takes its font ticket on Initialize.
func NewFPSScene() *FPSScene {
	return &FPSScene{label: "FPS: -\nTPS: -"}
}

func (s *FPSScene) Initialize(init *Initialize) {
	t, err := init.Storage.Fonts.TakeTicket(DefaultFontKey)
	if err != nil {
		LogResourceError(err)
		return
	}
	s.font = t
}

func (s *FPSScene) Update(_ *Update, delta float64) []GameResponse {
	s.elapsed += delta
	if s.elapsed < fpsRefresh {
		return nil
	}
	s.elapsed = 0
	s.label = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	return nil
}

func (s *FPSScene) Draw(_ DrawContext, _ float64) DrawBatch {
	if s.font.IsZero() {
		return DrawBatch{}
	}
	d := Text(s.font, s.label, ColorWhite, DrawAt(4, 4))
	d.Size = 14
	return DrawBatch{Draws: []Draw{d}}
}

func (s *FPSScene) ReceiveMessage(string) {}

func (s *FPSScene) Covering() bool { return false }

func (s *FPSScene) Blocking() bool { return false }
