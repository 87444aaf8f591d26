package stagehand

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultDeadzone is used by gamepad axis and stick commands whose Deadzone
// is zero.
const DefaultDeadzone = 0.5

// CommandKind selects the physical source a Command reads.
type CommandKind uint8

const (
	CommandKeys          CommandKind = iota // chord: every key in Keys held
	CommandMouseButton                      // one mouse button
	CommandGamepadButton                    // one standard-layout gamepad button
	CommandGamepadAxis                      // one standard-layout gamepad axis
	CommandGamepadStick                     // two standard-layout axes as a stick
	CommandCursor                           // mouse cursor position
)

func (k CommandKind) String() string {
	switch k {
	case CommandKeys:
		return "keys"
	case CommandMouseButton:
		return "mouse-button"
	case CommandGamepadButton:
		return "gamepad-button"
	case CommandGamepadAxis:
		return "gamepad-axis"
	case CommandGamepadStick:
		return "gamepad-stick"
	case CommandCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Command describes one raw input binding. Build one with the constructors
// below and adjust fields as needed.
//
// Digital commands (keys, mouse button, gamepad button) bound to a continuous
// slot contribute X (axis) or (X, Y) (analog) while active.
type Command struct {
	Kind        CommandKind
	Keys        []ebiten.Key
	MouseButton ebiten.MouseButton
	Gamepad     int // index among connected gamepads
	Button      ebiten.StandardGamepadButton
	Axis        ebiten.StandardGamepadAxis // the axis, or the stick's horizontal axis
	AxisY       ebiten.StandardGamepadAxis // stick vertical axis
	Deadzone    float64
	X, Y        float32
}

// KeyChord binds the chord of keys, all of which must be held.
func KeyChord(keys ...ebiten.Key) Command {
	return Command{Kind: CommandKeys, Keys: keys, X: 1}
}

// MouseButtonCommand binds a mouse button.
func MouseButtonCommand(b ebiten.MouseButton) Command {
	return Command{Kind: CommandMouseButton, MouseButton: b, X: 1}
}

// GamepadButtonCommand binds a button of gamepad index.
func GamepadButtonCommand(gamepad int, b ebiten.StandardGamepadButton) Command {
	return Command{Kind: CommandGamepadButton, Gamepad: gamepad, Button: b, X: 1}
}

// GamepadAxisCommand binds an axis of gamepad index.
func GamepadAxisCommand(gamepad int, axis ebiten.StandardGamepadAxis) Command {
	return Command{Kind: CommandGamepadAxis, Gamepad: gamepad, Axis: axis}
}

// GamepadStickCommand binds the left (or right) stick of gamepad index.
func GamepadStickCommand(gamepad int, right bool) Command {
	c := Command{
		Kind:    CommandGamepadStick,
		Gamepad: gamepad,
		Axis:    ebiten.StandardGamepadAxisLeftStickHorizontal,
		AxisY:   ebiten.StandardGamepadAxisLeftStickVertical,
	}
	if right {
		c.Axis = ebiten.StandardGamepadAxisRightStickHorizontal
		c.AxisY = ebiten.StandardGamepadAxisRightStickVertical
	}
	return c
}

// CursorCommand binds the mouse cursor position.
func CursorCommand() Command {
	return Command{Kind: CommandCursor}
}

// WithValue returns a copy of c contributing (x, y) to continuous slots.
func (c Command) WithValue(x, y float32) Command {
	c.X, c.Y = x, y
	return c
}

func (c Command) deadzone() float64 {
	if c.Deadzone > 0 {
		return c.Deadzone
	}
	return DefaultDeadzone
}

// Device is the raw input state read by PollInput. EbitenDevice reads the
// live ebiten state; ScriptedDevice overlays scripted input on another
// Device.
type Device interface {
	IsKeyPressed(key ebiten.Key) bool
	IsMouseButtonPressed(b ebiten.MouseButton) bool
	CursorPosition() (x, y int)
	// Gamepad returns the ID of the index-th connected gamepad with a
	// standard layout.
	Gamepad(index int) (ebiten.GamepadID, bool)
	IsStandardGamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool
	StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64
}

// EbitenDevice reads input from ebiten. Only valid on the game goroutine.
type EbitenDevice struct {
	ids []ebiten.GamepadID
}

// NewEbitenDevice returns a Device backed by ebiten's input functions.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{}
}

func (*EbitenDevice) IsKeyPressed(key ebiten.Key) bool { return ebiten.IsKeyPressed(key) }

func (*EbitenDevice) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

func (*EbitenDevice) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (d *EbitenDevice) Gamepad(index int) (ebiten.GamepadID, bool) {
	d.ids = ebiten.AppendGamepadIDs(d.ids[:0])
	n := 0
	for _, id := range d.ids {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if n == index {
			return id, true
		}
		n++
	}
	return 0, false
}

func (*EbitenDevice) IsStandardGamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool {
	return ebiten.IsStandardGamepadButtonPressed(id, b)
}

func (*EbitenDevice) StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64 {
	return ebiten.StandardGamepadAxisValue(id, axis)
}

// PollInput resolves every binding of m against dev and folds the result
// into the bound slots. A digital slot goes Down when any of its commands is
// active. A continuous slot takes the first command producing a value, or
// its neutral value when none does. Errors from individual slots are joined
// and polling continues.
func PollInput(dev Device, m *InputMap[Command]) error {
	var errs []error
	for _, ic := range m.Commands {
		u, err := m.User(ic.User)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cur, err := u.ActionByIndex(ic.Action)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := u.UpdateAction(ic.Action, resolve(dev, cur.Kind, ic.Commands)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func resolve(dev Device, kind ActionKind, cmds []Command) Action {
	switch kind {
	case ActionDigital:
		for i := range cmds {
			if active(dev, &cmds[i]) {
				return Digital(StateDown)
			}
		}
		return Digital(StateUp)
	case ActionAxis:
		for i := range cmds {
			if x, _, ok := value(dev, &cmds[i]); ok {
				return Axis(x)
			}
		}
		return Axis(0)
	default:
		for i := range cmds {
			if x, y, ok := value(dev, &cmds[i]); ok {
				return Analog(x, y)
			}
		}
		return Analog(0, 0)
	}
}

func active(dev Device, c *Command) bool {
	switch c.Kind {
	case CommandKeys:
		if len(c.Keys) == 0 {
			return false
		}
		for _, k := range c.Keys {
			if !dev.IsKeyPressed(k) {
				return false
			}
		}
		return true
	case CommandMouseButton:
		return dev.IsMouseButtonPressed(c.MouseButton)
	case CommandGamepadButton:
		id, ok := dev.Gamepad(c.Gamepad)
		return ok && dev.IsStandardGamepadButtonPressed(id, c.Button)
	case CommandGamepadAxis:
		id, ok := dev.Gamepad(c.Gamepad)
		return ok && math.Abs(dev.StandardGamepadAxisValue(id, c.Axis)) >= c.deadzone()
	case CommandGamepadStick:
		id, ok := dev.Gamepad(c.Gamepad)
		if !ok {
			return false
		}
		x := dev.StandardGamepadAxisValue(id, c.Axis)
		y := dev.StandardGamepadAxisValue(id, c.AxisY)
		return math.Hypot(x, y) >= c.deadzone()
	default:
		return false
	}
}

func value(dev Device, c *Command) (x, y float32, ok bool) {
	switch c.Kind {
	case CommandGamepadAxis:
		id, found := dev.Gamepad(c.Gamepad)
		if !found {
			return 0, 0, false
		}
		v := dev.StandardGamepadAxisValue(id, c.Axis)
		if math.Abs(v) < c.deadzone() {
			return 0, 0, false
		}
		return float32(v), 0, true
	case CommandGamepadStick:
		id, found := dev.Gamepad(c.Gamepad)
		if !found {
			return 0, 0, false
		}
		vx := dev.StandardGamepadAxisValue(id, c.Axis)
		vy := dev.StandardGamepadAxisValue(id, c.AxisY)
		if math.Hypot(vx, vy) < c.deadzone() {
			return 0, 0, false
		}
		return float32(vx), float32(vy), true
	case CommandCursor:
		cx, cy := dev.CursorPosition()
		return float32(cx), float32(cy), true
	default:
		if active(dev, c) {
			return c.X, c.Y, true
		}
		return 0, 0, false
	}
}

// ParseKey parses an ebiten key name such as "Space", "ArrowLeft" or "A".
func ParseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("stagehand: unknown key %q: %w", name, err)
	}
	return k, nil
}

var mouseButtons = map[string]ebiten.MouseButton{
	"left":   ebiten.MouseButtonLeft,
	"right":  ebiten.MouseButtonRight,
	"middle": ebiten.MouseButtonMiddle,
}

// ParseMouseButton parses "left", "right" or "middle".
func ParseMouseButton(name string) (ebiten.MouseButton, error) {
	b, ok := mouseButtons[name]
	if !ok {
		return 0, fmt.Errorf("stagehand: unknown mouse button %q", name)
	}
	return b, nil
}

var gamepadButtons = map[string]ebiten.StandardGamepadButton{
	"a":           ebiten.StandardGamepadButtonRightBottom,
	"b":           ebiten.StandardGamepadButtonRightRight,
	"x":           ebiten.StandardGamepadButtonRightLeft,
	"y":           ebiten.StandardGamepadButtonRightTop,
	"lb":          ebiten.StandardGamepadButtonFrontTopLeft,
	"rb":          ebiten.StandardGamepadButtonFrontTopRight,
	"lt":          ebiten.StandardGamepadButtonFrontBottomLeft,
	"rt":          ebiten.StandardGamepadButtonFrontBottomRight,
	"back":        ebiten.StandardGamepadButtonCenterLeft,
	"start":       ebiten.StandardGamepadButtonCenterRight,
	"home":        ebiten.StandardGamepadButtonCenterCenter,
	"left-stick":  ebiten.StandardGamepadButtonLeftStick,
	"right-stick": ebiten.StandardGamepadButtonRightStick,
	"dpad-up":     ebiten.StandardGamepadButtonLeftTop,
	"dpad-down":   ebiten.StandardGamepadButtonLeftBottom,
	"dpad-left":   ebiten.StandardGamepadButtonLeftLeft,
	"dpad-right":  ebiten.StandardGamepadButtonLeftRight,
}

// ParseGamepadButton parses an Xbox-style button name such as "a", "start"
// or "dpad-up".
func ParseGamepadButton(name string) (ebiten.StandardGamepadButton, error) {
	b, ok := gamepadButtons[name]
	if !ok {
		return 0, fmt.Errorf("stagehand: unknown gamepad button %q", name)
	}
	return b, nil
}

var gamepadAxes = map[string]ebiten.StandardGamepadAxis{
	"left-x":  ebiten.StandardGamepadAxisLeftStickHorizontal,
	"left-y":  ebiten.StandardGamepadAxisLeftStickVertical,
	"right-x": ebiten.StandardGamepadAxisRightStickHorizontal,
	"right-y": ebiten.StandardGamepadAxisRightStickVertical,
}

// ParseGamepadAxis parses "left-x", "left-y", "right-x" or "right-y".
func ParseGamepadAxis(name string) (ebiten.StandardGamepadAxis, error) {
	a, ok := gamepadAxes[name]
	if !ok {
		return 0, fmt.Errorf("stagehand: unknown gamepad axis %q", name)
	}
	return a, nil
}
