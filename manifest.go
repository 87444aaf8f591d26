package stagehand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Manifest declares a game's window settings, assets and input bindings in
// YAML:
//
//	run:
//	  title: Logo
//	  width: 800
//	assets:
//	  textures:
//	    logo: images/logo.png
//	  atlases:
//	    ui: images/ui.json
//	input:
//	  users:
//	    - actions:
//	        - name: pause
//	          bind:
//	            - keys: [Escape]
//	            - gamepad_button: start
//	        - name: move
//	          kind: analog
//	          bind:
//	            - stick: left
//	            - keys: [ArrowLeft]
//	              value: [-1, 0]
type Manifest struct {
	Run    RunConfig      `yaml:"run"`
	Assets AssetsManifest `yaml:"assets"`
	Input  InputManifest  `yaml:"input"`
}

// AssetsManifest maps asset keys to file paths, per storage category.
type AssetsManifest struct {
	Textures map[string]string `yaml:"textures"`
	Atlases  map[string]string `yaml:"atlases"`
	Fonts    map[string]string `yaml:"fonts"`
	Sounds   map[string]string `yaml:"sounds"`
	Music    map[string]string `yaml:"music"`
	Data     map[string]string `yaml:"data"`
}

// InputManifest lists input users in index order.
type InputManifest struct {
	Users []UserManifest `yaml:"users"`
}

// UserManifest lists one user's actions in slot order.
type UserManifest struct {
	Actions []ActionManifest `yaml:"actions"`
}

// ActionManifest declares one action slot.
type ActionManifest struct {
	Name string `yaml:"name"`
	// Kind is "digital" (default), "axis" or "analog".
	Kind     string            `yaml:"kind"`
	Bindings []BindingManifest `yaml:"bind"`
}

// BindingManifest declares one Command. Exactly one source field is set.
type BindingManifest struct {
	Keys     []string  `yaml:"keys,omitempty"`
	Mouse    string    `yaml:"mouse,omitempty"`
	Button   string    `yaml:"gamepad_button,omitempty"`
	Axis     string    `yaml:"gamepad_axis,omitempty"`
	Stick    string    `yaml:"stick,omitempty"`
	Cursor   bool      `yaml:"cursor,omitempty"`
	Gamepad  int       `yaml:"gamepad,omitempty"`
	Deadzone float64   `yaml:"deadzone,omitempty"`
	Value    []float32 `yaml:"value,omitempty"`
}

// LoadManifest parses a YAML manifest. Unknown fields are rejected.
func LoadManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("stagehand: parse manifest: %w", err)
	}
	return &m, nil
}

// ReadManifest reads and parses the manifest at name in fsys.
func ReadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("stagehand: read manifest: %w", err)
	}
	return LoadManifest(data)
}

// Apply loads the declared assets into storage and appends the declared
// users and actions to input. Page textures of atlases are loaded from
// next to the atlas file unless already declared. All failures are
// collected; a failed asset does not stop the others.
func (m *Manifest) Apply(storage *Storage, input *InputMap[Command]) error {
	var errs []error
	load := func(st StorageType, assets map[string]string) {
		for _, key := range slices.Sorted(maps.Keys(assets)) {
			if err := storage.Load(st, key, assets[key]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	load(StorageTexture, m.Assets.Textures)
	load(StorageAtlas, m.Assets.Atlases)
	load(StorageFont, m.Assets.Fonts)
	load(StorageSound, m.Assets.Sounds)
	load(StorageMusic, m.Assets.Music)
	load(StorageData, m.Assets.Data)

	for _, key := range slices.Sorted(maps.Keys(m.Assets.Atlases)) {
		atlas, err := storage.Atlases.GetByKey(key)
		if err != nil {
			continue // already reported
		}
		dir := path.Dir(m.Assets.Atlases[key])
		for _, page := range atlas.Pages {
			if page == "" || storage.Textures.Contains(page) {
				continue
			}
			if err := storage.Load(StorageTexture, page, path.Join(dir, page)); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if input != nil {
		if err := m.Input.apply(input); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (im InputManifest) apply(input *InputMap[Command]) error {
	var errs []error
	for ui, um := range im.Users {
		user := input.AddUser()
		for _, am := range um.Actions {
			initial, err := neutralAction(am.Kind)
			if err != nil {
				errs = append(errs, fmt.Errorf("user %d action %q: %w", ui, am.Name, err))
				continue
			}
			cmds := make([]Command, 0, len(am.Bindings))
			for bi, bm := range am.Bindings {
				c, err := bm.Command()
				if err != nil {
					errs = append(errs, fmt.Errorf("user %d action %q binding %d: %w", ui, am.Name, bi, err))
					continue
				}
				cmds = append(cmds, c)
			}
			if err := input.AddAction(user, am.Name, cmds, initial); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func neutralAction(kind string) (Action, error) {
	switch kind {
	case "", "digital":
		return Digital(StateUp), nil
	case "axis":
		return Axis(0), nil
	case "analog":
		return Analog(0, 0), nil
	default:
		return Action{}, fmt.Errorf("stagehand: unknown action kind %q", kind)
	}
}

// Command converts the binding into a Command.
func (b BindingManifest) Command() (Command, error) {
	var c Command
	sources := 0
	if len(b.Keys) > 0 {
		sources++
		keys := make([]ebiten.Key, 0, len(b.Keys))
		for _, name := range b.Keys {
			k, err := ParseKey(name)
			if err != nil {
				return Command{}, err
			}
			keys = append(keys, k)
		}
		c = KeyChord(keys...)
	}
	if b.Mouse != "" {
		sources++
		mb, err := ParseMouseButton(b.Mouse)
		if err != nil {
			return Command{}, err
		}
		c = MouseButtonCommand(mb)
	}
	if b.Button != "" {
		sources++
		gb, err := ParseGamepadButton(b.Button)
		if err != nil {
			return Command{}, err
		}
		c = GamepadButtonCommand(b.Gamepad, gb)
	}
	if b.Axis != "" {
		sources++
		ax, err := ParseGamepadAxis(b.Axis)
		if err != nil {
			return Command{}, err
		}
		c = GamepadAxisCommand(b.Gamepad, ax)
	}
	if b.Stick != "" {
		sources++
		switch b.Stick {
		case "left":
			c = GamepadStickCommand(b.Gamepad, false)
		case "right":
			c = GamepadStickCommand(b.Gamepad, true)
		default:
			return Command{}, fmt.Errorf("stagehand: unknown stick %q", b.Stick)
		}
	}
	if b.Cursor {
		sources++
		c = CursorCommand()
	}
	if sources != 1 {
		return Command{}, fmt.Errorf("stagehand: binding needs exactly one source, got %d", sources)
	}

	c.Deadzone = b.Deadzone
	switch len(b.Value) {
	case 0:
	case 1:
		c.X, c.Y = b.Value[0], 0
	case 2:
		c.X, c.Y = b.Value[0], b.Value[1]
	default:
		return Command{}, fmt.Errorf("stagehand: binding value has %d components, want 1 or 2", len(b.Value))
	}
	return c, nil
}
