package stagehand

import (
	"errors"
	"fmt"
)

// Input errors.
var (
	ErrActionIndexOutOfBounds = errors.New("stagehand: action index out of bounds")
	ErrUnrecognizedAction     = errors.New("stagehand: unrecognized action")
	ErrUserIndexOutOfBounds   = errors.New("stagehand: user index out of bounds")
)

// ActionState is the state of a digital action. Pressed and Released are
// edge states: the next poll turns them into Down or Up.
type ActionState uint8

const (
	StateUp       ActionState = iota // not held
	StateDown                        // held since before the last update
	StatePressed                     // went down since the last update
	StateReleased                    // went up since the last update
)

func (s ActionState) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	case StatePressed:
		return "pressed"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// IsDown reports whether the action is held (Down or Pressed).
func (s ActionState) IsDown() bool { return s == StateDown || s == StatePressed }

// IsEdge reports whether s is Pressed or Released.
func (s ActionState) IsEdge() bool { return s == StatePressed || s == StateReleased }

// ActionKind selects the variant of an Action.
type ActionKind uint8

const (
	ActionDigital ActionKind = iota // button-like, carries an ActionState
	ActionAxis                      // one continuous value in X
	ActionAnalog                    // two continuous values in X, Y
)

func (k ActionKind) String() string {
	switch k {
	case ActionDigital:
		return "digital"
	case ActionAxis:
		return "axis"
	case ActionAnalog:
		return "analog"
	default:
		return "unknown"
	}
}

// Action is the value held in an action slot. Value type; build one with
// Digital, Axis or Analog.
type Action struct {
	Kind  ActionKind
	State ActionState // ActionDigital only
	X, Y  float32     // X for ActionAxis, X and Y for ActionAnalog
}

// Digital returns a digital action in state s.
func Digital(s ActionState) Action { return Action{Kind: ActionDigital, State: s} }

// Axis returns an axis action with value v.
func Axis(v float32) Action { return Action{Kind: ActionAxis, X: v} }

// Analog returns a two-dimensional analog action.
func Analog(x, y float32) Action { return Action{Kind: ActionAnalog, X: x, Y: y} }

// IsDown reports whether a digital action is held. Non-digital actions are
// never down.
func (a Action) IsDown() bool { return a.Kind == ActionDigital && a.State.IsDown() }

// IsPressed reports whether a digital action went down this update.
func (a Action) IsPressed() bool { return a.Kind == ActionDigital && a.State == StatePressed }

// IsReleased reports whether a digital action went up this update.
func (a Action) IsReleased() bool { return a.Kind == ActionDigital && a.State == StateReleased }

// isNeutral reports whether a is the "no signal" value of its kind.
func (a Action) isNeutral() bool {
	switch a.Kind {
	case ActionDigital:
		return a.State == StateUp
	case ActionAxis:
		return a.X == 0
	default:
		return a.X == 0 && a.Y == 0
	}
}

// nextAction folds a raw signal into the previous slot value.
//
// Digital to digital follows the edge table: held/held is Down, held/free is
// Released, free/held is Pressed, free/free is Up. When consumed is false an
// edge that no update has seen yet is kept. A neutral continuous signal
// never resets a digital slot, and a digital Up never resets a continuous
// one. Between continuous kinds the last writer wins.
func nextAction(old, signal Action, consumed bool) Action {
	if old.Kind == ActionDigital && signal.Kind == ActionDigital {
		if !consumed && old.State.IsEdge() {
			return old
		}
		switch was, is := old.State.IsDown(), signal.State.IsDown(); {
		case was && is:
			return Digital(StateDown)
		case was && !is:
			return Digital(StateReleased)
		case !was && is:
			return Digital(StatePressed)
		default:
			return Digital(StateUp)
		}
	}
	oldDigital, newDigital := old.Kind == ActionDigital, signal.Kind == ActionDigital
	if oldDigital != newDigital && signal.isNeutral() {
		return old
	}
	return signal
}

// InputActions is one user's bank of named action slots.
type InputActions struct {
	actions  []Action
	names    []string
	index    map[string]int
	consumed bool
}

// NewInputActions creates an empty action bank.
func NewInputActions() *InputActions {
	return &InputActions{
		index:    make(map[string]int),
		consumed: true,
	}
}

// AddAction appends a slot holding initial and returns its index. A repeated
// name is remapped to the new slot.
func (a *InputActions) AddAction(name string, initial Action) int {
	a.actions = append(a.actions, initial)
	a.names = append(a.names, name)
	i := len(a.actions) - 1
	a.index[name] = i
	return i
}

// Len returns the number of slots.
func (a *InputActions) Len() int { return len(a.actions) }

// UpdateAction folds signal into slot index.
func (a *InputActions) UpdateAction(index int, signal Action) error {
	if index < 0 || index >= len(a.actions) {
		return fmt.Errorf("%w: %d", ErrActionIndexOutOfBounds, index)
	}
	a.actions[index] = nextAction(a.actions[index], signal, a.consumed)
	return nil
}

// IndexByKey returns the slot index registered for name.
func (a *InputActions) IndexByKey(name string) (int, error) {
	i, ok := a.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedAction, name)
	}
	return i, nil
}

// ActionByIndex returns the current value of slot index.
func (a *InputActions) ActionByIndex(index int) (Action, error) {
	if index < 0 || index >= len(a.actions) {
		return Action{}, fmt.Errorf("%w: %d", ErrActionIndexOutOfBounds, index)
	}
	return a.actions[index], nil
}

// ActionByKey returns the current value of the slot registered for name.
func (a *InputActions) ActionByKey(name string) (Action, error) {
	i, err := a.IndexByKey(name)
	if err != nil {
		return Action{}, err
	}
	return a.actions[i], nil
}

// NameByIndex returns the name a slot was added with.
func (a *InputActions) NameByIndex(index int) (string, error) {
	if index < 0 || index >= len(a.names) {
		return "", fmt.Errorf("%w: %d", ErrActionIndexOutOfBounds, index)
	}
	return a.names[index], nil
}

// InputCommand binds one action slot of one user to the raw command
// descriptors the input backend resolves each frame.
type InputCommand[C any] struct {
	User     int
	Action   int
	Commands []C
}

// InputMap holds every user's actions and the bindings feeding them.
// C is the backend's command descriptor type.
type InputMap[C any] struct {
	Users    []*InputActions
	Commands []InputCommand[C]
}

// NewInputMap creates an input map with no users.
func NewInputMap[C any]() *InputMap[C] {
	return &InputMap[C]{}
}

// AddUser appends a user and returns its index.
func (m *InputMap[C]) AddUser() int {
	m.Users = append(m.Users, NewInputActions())
	return len(m.Users) - 1
}

// User returns the actions of user index.
func (m *InputMap[C]) User(index int) (*InputActions, error) {
	if index < 0 || index >= len(m.Users) {
		return nil, fmt.Errorf("%w: %d", ErrUserIndexOutOfBounds, index)
	}
	return m.Users[index], nil
}

// AddAction adds a named slot to user and binds it to commands.
func (m *InputMap[C]) AddAction(user int, name string, commands []C, initial Action) error {
	u, err := m.User(user)
	if err != nil {
		return err
	}
	i := u.AddAction(name, initial)
	m.Commands = append(m.Commands, InputCommand[C]{User: user, Action: i, Commands: commands})
	return nil
}

// MarkPolled records that new device state has been folded in. Until
// MarkConsumed is called, edge states survive further digital signals so a
// press polled in a frame with no update step is not lost.
func (m *InputMap[C]) MarkPolled() {
	for _, u := range m.Users {
		u.consumed = false
	}
}

// MarkConsumed records that an update step has observed the current state.
func (m *InputMap[C]) MarkConsumed() {
	for _, u := range m.Users {
		u.consumed = true
	}
}
