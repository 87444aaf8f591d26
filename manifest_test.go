package stagehand

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

const testManifest = `
run:
  title: Demo
  width: 320
  height: 240
  clear_color: {r: 0.1, g: 0.2, b: 0.3, a: 1}
assets:
  textures:
    logo: img/logo.png
  atlases:
    ui: atlas/ui.json
  data:
    level: data/level.txt
input:
  users:
    - actions:
        - name: jump
          bind:
            - keys: [Space]
            - gamepad_button: a
        - name: steer
          kind: axis
          bind:
            - gamepad_axis: left-x
              deadzone: 0.2
            - keys: [ArrowLeft]
              value: [-1]
        - name: aim
          kind: analog
          bind:
            - stick: right
            - cursor: true
    - actions:
        - name: jump
          bind:
            - keys: [W]
              gamepad: 1
`

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest([]byte(testManifest))
	if err != nil {
		t.Fatal(err)
	}
	if m.Run.Title != "Demo" || m.Run.Width != 320 || m.Run.Height != 240 {
		t.Errorf("Run = %+v", m.Run)
	}
	if m.Run.ClearColor != (Color{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Errorf("ClearColor = %+v", m.Run.ClearColor)
	}
	if m.Assets.Textures["logo"] != "img/logo.png" {
		t.Errorf("Textures = %v", m.Assets.Textures)
	}
	if len(m.Input.Users) != 2 || len(m.Input.Users[0].Actions) != 3 {
		t.Fatalf("Users = %+v", m.Input.Users)
	}
	steer := m.Input.Users[0].Actions[1]
	if steer.Kind != "axis" || len(steer.Bindings) != 2 || steer.Bindings[0].Deadzone != 0.2 {
		t.Errorf("steer = %+v", steer)
	}
}

func TestLoadManifest_Empty(t *testing.T) {
	m, err := LoadManifest(nil)
	if err != nil || m == nil {
		t.Errorf("LoadManifest(nil) = %v, %v", m, err)
	}
}

func TestLoadManifest_UnknownField(t *testing.T) {
	_, err := LoadManifest([]byte("run:\n  titel: typo\n"))
	if err == nil || !strings.Contains(err.Error(), "titel") {
		t.Errorf("err = %v, want unknown field titel", err)
	}
}

func TestManifest_Apply(t *testing.T) {
	fsys := testFS(t)
	fsys["atlas/atlas.png"] = &fstest.MapFile{Data: pngBytes(t, 4, 4)}
	m, err := LoadManifest([]byte(testManifest))
	if err != nil {
		t.Fatal(err)
	}
	storage, err := NewStorage(fsys, nil)
	if err != nil {
		t.Fatal(err)
	}
	input := NewInputMap[Command]()
	if err := m.Apply(storage, input); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"logo", "atlas.png"} {
		if !storage.Textures.Contains(key) {
			t.Errorf("texture %q not loaded", key)
		}
	}
	if !storage.Atlases.Contains("ui") || !storage.Data.Contains("level") {
		t.Error("atlas or data not loaded")
	}

	if len(input.Users) != 2 || len(input.Commands) != 4 {
		t.Fatalf("users = %d, commands = %d", len(input.Users), len(input.Commands))
	}
	aim, err := input.Users[0].ActionByKey("aim")
	if err != nil || aim.Kind != ActionAnalog {
		t.Errorf("aim = %+v, %v", aim, err)
	}
	steer := input.Commands[1].Commands
	if steer[0].Kind != CommandGamepadAxis || steer[0].Deadzone != 0.2 {
		t.Errorf("steer[0] = %+v", steer[0])
	}
	if steer[1].X != -1 || steer[1].Y != 0 {
		t.Errorf("steer[1] value = (%v, %v), want (-1, 0)", steer[1].X, steer[1].Y)
	}
	p2 := input.Commands[3]
	if p2.User != 1 || p2.Commands[0].Keys[0] != ebiten.KeyW {
		t.Errorf("user 1 binding = %+v", p2)
	}
}

func TestManifest_ApplyCollectsErrors(t *testing.T) {
	m := &Manifest{
		Assets: AssetsManifest{
			Textures: map[string]string{"missing": "img/none.png", "logo": "img/logo.png"},
			Sounds:   map[string]string{"beep": "sfx/beep.wav"},
		},
		Input: InputManifest{Users: []UserManifest{{Actions: []ActionManifest{
			{Name: "bad-kind", Kind: "trigger"},
			{Name: "bad-binding", Bindings: []BindingManifest{{Keys: []string{"Hyper"}}}},
			{Name: "good", Bindings: []BindingManifest{{Mouse: "left"}}},
		}}}},
	}
	storage, err := NewStorage(testFS(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	input := NewInputMap[Command]()
	err = m.Apply(storage, input)
	if err == nil {
		t.Fatal("Apply succeeded")
	}

	var failure *LoadFailureError
	var unknown *UnknownStorageError
	if !errors.As(err, &failure) || !errors.As(err, &unknown) {
		t.Errorf("err = %v, want load failure and unknown storage", err)
	}
	for _, want := range []string{"trigger", "Hyper"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err does not mention %q: %v", want, err)
		}
	}
	if !storage.Textures.Contains("logo") {
		t.Error("failed asset stopped later loads")
	}
	if _, err := input.Users[0].IndexByKey("good"); err != nil {
		t.Errorf("good action missing: %v", err)
	}
	// The action survives with its valid bindings only.
	if _, err := input.Users[0].IndexByKey("bad-binding"); err != nil {
		t.Errorf("bad-binding action missing: %v", err)
	}
}

func TestBindingManifest_Command(t *testing.T) {
	tests := []struct {
		name    string
		b       BindingManifest
		kind    CommandKind
		wantErr string
	}{
		{"keys", BindingManifest{Keys: []string{"Shift", "A"}}, CommandKeys, ""},
		{"mouse", BindingManifest{Mouse: "middle"}, CommandMouseButton, ""},
		{"button", BindingManifest{Button: "dpad-up", Gamepad: 2}, CommandGamepadButton, ""},
		{"axis", BindingManifest{Axis: "right-y"}, CommandGamepadAxis, ""},
		{"stick", BindingManifest{Stick: "left"}, CommandGamepadStick, ""},
		{"cursor", BindingManifest{Cursor: true}, CommandCursor, ""},
		{"no source", BindingManifest{}, 0, "exactly one source"},
		{"two sources", BindingManifest{Mouse: "left", Cursor: true}, 0, "exactly one source"},
		{"bad stick", BindingManifest{Stick: "middle"}, 0, "unknown stick"},
		{"bad value", BindingManifest{Cursor: true, Value: []float32{1, 2, 3}}, 0, "3 components"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.b.Command()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.kind)
			}
			if c.Gamepad != tt.b.Gamepad {
				t.Errorf("Gamepad = %d, want %d", c.Gamepad, tt.b.Gamepad)
			}
		})
	}
}

func TestReadManifest(t *testing.T) {
	fsys := fstest.MapFS{"game.yaml": {Data: []byte(testManifest)}}
	m, err := ReadManifest(fsys, "game.yaml")
	if err != nil || m.Run.Title != "Demo" {
		t.Errorf("ReadManifest = %+v, %v", m, err)
	}
	if _, err := ReadManifest(fsys, "none.yaml"); err == nil {
		t.Error("ReadManifest of a missing file succeeded")
	}
}
