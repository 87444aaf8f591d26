package stagehand

import (
	"encoding/json"
	"fmt"
)

// AtlasRegion describes a named sub-rectangle of an atlas page.
type AtlasRegion struct {
	Page    int      // index into Atlas.Pages
	Rect    DrawRect // source rectangle within the page texture
	Rotated bool     // stored 90 degrees clockwise in the page
}

// Atlas maps region names to rectangles within one or more page textures.
// Page textures are stored separately in the texture storage under the
// names listed in Pages.
type Atlas struct {
	Pages   []string
	regions map[string]AtlasRegion
}

// Region returns the region registered under name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// SpriteFrom resolves the page texture of region name through storage and
// returns a sprite draw sourcing that region.
func (a *Atlas) SpriteFrom(storage *Storage, name string, data DrawData) (Draw, error) {
	r, ok := a.regions[name]
	if !ok {
		return Draw{}, &NotStoredError{Key: name}
	}
	if r.Page < 0 || r.Page >= len(a.Pages) {
		return Draw{}, fmt.Errorf("stagehand: atlas region %q references missing page %d", name, r.Page)
	}
	t, err := storage.Textures.TakeTicket(a.Pages[r.Page])
	if err != nil {
		return Draw{}, err
	}
	return Sprite(t, data.WithSource(r.Rect)), nil
}

// ParseAtlas parses TexturePacker JSON. Supports both the hash format
// (single "frames" object) and the array format ("textures" array with
// per-page frame lists).
func ParseAtlas(jsonData []byte) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("stagehand: parse atlas JSON: %w", err)
	}

	atlas := &Atlas{regions: make(map[string]AtlasRegion)}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		atlas.Pages = []string{probe.Meta.Image}
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("stagehand: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("stagehand: parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("stagehand: parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		atlas.Pages = append(atlas.Pages, tex.Image)
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) AtlasRegion {
	return AtlasRegion{
		Page: page,
		Rect: DrawRect{
			X:      float32(f.Frame.X),
			Y:      float32(f.Frame.Y),
			Width:  float32(f.Frame.W),
			Height: float32(f.Frame.H),
		},
		Rotated: f.Rotated,
	}
}
