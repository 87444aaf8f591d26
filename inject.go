package stagehand

import "github.com/hajimehoshi/ebiten/v2"

// ScriptedDevice overlays injected input on a base Device. Injected keys and
// mouse buttons read as held until released; an injected cursor position
// replaces the base cursor until ClearCursor. A nil base reads as idle
// hardware, which is what headless tests want.
type ScriptedDevice struct {
	base    Device
	keys    map[ebiten.Key]bool
	buttons map[ebiten.MouseButton]bool

	cursorSet bool
	cursorX   int
	cursorY   int
}

// NewScriptedDevice wraps base. base may be nil.
func NewScriptedDevice(base Device) *ScriptedDevice {
	return &ScriptedDevice{
		base:    base,
		keys:    make(map[ebiten.Key]bool),
		buttons: make(map[ebiten.MouseButton]bool),
	}
}

// PressKey holds key down until ReleaseKey.
func (d *ScriptedDevice) PressKey(key ebiten.Key) { d.keys[key] = true }

// ReleaseKey lets go of an injected key.
func (d *ScriptedDevice) ReleaseKey(key ebiten.Key) { delete(d.keys, key) }

// PressMouseButton holds b down until ReleaseMouseButton.
func (d *ScriptedDevice) PressMouseButton(b ebiten.MouseButton) { d.buttons[b] = true }

// ReleaseMouseButton lets go of an injected mouse button.
func (d *ScriptedDevice) ReleaseMouseButton(b ebiten.MouseButton) { delete(d.buttons, b) }

// SetCursor overrides the cursor position.
func (d *ScriptedDevice) SetCursor(x, y int) {
	d.cursorSet = true
	d.cursorX, d.cursorY = x, y
}

// ClearCursor restores the base cursor.
func (d *ScriptedDevice) ClearCursor() { d.cursorSet = false }

// Reset releases everything injected.
func (d *ScriptedDevice) Reset() {
	clear(d.keys)
	clear(d.buttons)
	d.cursorSet = false
}

func (d *ScriptedDevice) IsKeyPressed(key ebiten.Key) bool {
	if d.keys[key] {
		return true
	}
	return d.base != nil && d.base.IsKeyPressed(key)
}

func (d *ScriptedDevice) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	if d.buttons[b] {
		return true
	}
	return d.base != nil && d.base.IsMouseButtonPressed(b)
}

func (d *ScriptedDevice) CursorPosition() (int, int) {
	if d.cursorSet || d.base == nil {
		return d.cursorX, d.cursorY
	}
	return d.base.CursorPosition()
}

func (d *ScriptedDevice) Gamepad(index int) (ebiten.GamepadID, bool) {
	if d.base == nil {
		return 0, false
	}
	return d.base.Gamepad(index)
}

func (d *ScriptedDevice) IsStandardGamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool {
	return d.base != nil && d.base.IsStandardGamepadButtonPressed(id, b)
}

func (d *ScriptedDevice) StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64 {
	if d.base == nil {
		return 0
	}
	return d.base.StandardGamepadAxisValue(id, axis)
}
