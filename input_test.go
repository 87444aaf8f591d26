package stagehand

import (
	"errors"
	"testing"
)

func TestNextAction_DigitalEdges(t *testing.T) {
	tests := []struct {
		old, signal ActionState
		want        ActionState
	}{
		{StateUp, StateUp, StateUp},
		{StateUp, StateDown, StatePressed},
		{StatePressed, StateDown, StateDown},
		{StatePressed, StateUp, StateReleased},
		{StateDown, StateDown, StateDown},
		{StateDown, StateUp, StateReleased},
		{StateReleased, StateUp, StateUp},
		{StateReleased, StateDown, StatePressed},
		// Edge states in the signal count as their held value.
		{StateUp, StatePressed, StatePressed},
		{StateDown, StateReleased, StateReleased},
	}
	for _, tt := range tests {
		got := nextAction(Digital(tt.old), Digital(tt.signal), true)
		if got != Digital(tt.want) {
			t.Errorf("nextAction(%v, %v) = %v, want %v", tt.old, tt.signal, got.State, tt.want)
		}
	}
}

func TestNextAction_Continuous(t *testing.T) {
	tests := []struct {
		name        string
		old, signal Action
		want        Action
	}{
		{"axis replaces axis", Axis(0.2), Axis(-0.7), Axis(-0.7)},
		{"axis neutral replaces axis", Axis(0.2), Axis(0), Axis(0)},
		{"analog replaces analog", Analog(1, 2), Analog(3, 4), Analog(3, 4)},
		{"neutral axis keeps digital", Digital(StateDown), Axis(0), Digital(StateDown)},
		{"neutral analog keeps digital", Digital(StatePressed), Analog(0, 0), Digital(StatePressed)},
		{"up digital keeps axis", Axis(0.5), Digital(StateUp), Axis(0.5)},
		{"up digital keeps analog", Analog(1, 1), Digital(StateUp), Analog(1, 1)},
		{"live axis replaces digital", Digital(StateDown), Axis(0.3), Axis(0.3)},
		{"held digital replaces axis", Axis(0.5), Digital(StateDown), Digital(StateDown)},
		{"neutral analog replaces axis", Axis(0.8), Analog(0, 0), Analog(0, 0)},
		{"neutral axis replaces analog", Analog(0.4, -0.2), Axis(0), Axis(0)},
		{"live analog replaces axis", Axis(0.8), Analog(0.1, 0.2), Analog(0.1, 0.2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextAction(tt.old, tt.signal, true); got != tt.want {
				t.Errorf("nextAction = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNextAction_EdgeRetainedUntilConsumed(t *testing.T) {
	if got := nextAction(Digital(StatePressed), Digital(StateDown), false); got.State != StatePressed {
		t.Errorf("unconsumed Pressed became %v", got.State)
	}
	if got := nextAction(Digital(StateReleased), Digital(StateUp), false); got.State != StateReleased {
		t.Errorf("unconsumed Released became %v", got.State)
	}
	// Non-edge states fold normally either way.
	if got := nextAction(Digital(StateUp), Digital(StateDown), false); got.State != StatePressed {
		t.Errorf("Up + held (unconsumed) = %v, want pressed", got.State)
	}
}

func TestInputActions_Lookup(t *testing.T) {
	a := NewInputActions()
	jump := a.AddAction("jump", Digital(StateUp))
	move := a.AddAction("move", Analog(0, 0))
	if jump != 0 || move != 1 {
		t.Fatalf("indexes = %d, %d; want 0, 1", jump, move)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}

	i, err := a.IndexByKey("move")
	if err != nil || i != move {
		t.Errorf("IndexByKey(move) = %d, %v", i, err)
	}
	name, err := a.NameByIndex(jump)
	if err != nil || name != "jump" {
		t.Errorf("NameByIndex(0) = %q, %v", name, err)
	}
	got, err := a.ActionByKey("move")
	if err != nil || got != Analog(0, 0) {
		t.Errorf("ActionByKey(move) = %+v, %v", got, err)
	}
}

func TestInputActions_Errors(t *testing.T) {
	a := NewInputActions()
	a.AddAction("jump", Digital(StateUp))

	if _, err := a.IndexByKey("fly"); !errors.Is(err, ErrUnrecognizedAction) {
		t.Errorf("IndexByKey err = %v, want ErrUnrecognizedAction", err)
	}
	if _, err := a.ActionByKey("fly"); !errors.Is(err, ErrUnrecognizedAction) {
		t.Errorf("ActionByKey err = %v, want ErrUnrecognizedAction", err)
	}
	for _, i := range []int{-1, 1, 99} {
		if _, err := a.ActionByIndex(i); !errors.Is(err, ErrActionIndexOutOfBounds) {
			t.Errorf("ActionByIndex(%d) err = %v", i, err)
		}
		if err := a.UpdateAction(i, Digital(StateDown)); !errors.Is(err, ErrActionIndexOutOfBounds) {
			t.Errorf("UpdateAction(%d) err = %v", i, err)
		}
		if _, err := a.NameByIndex(i); !errors.Is(err, ErrActionIndexOutOfBounds) {
			t.Errorf("NameByIndex(%d) err = %v", i, err)
		}
	}
}

func TestInputActions_ContinuousLastWriterWins(t *testing.T) {
	a := NewInputActions()
	i := a.AddAction("stick", Axis(0.8))
	if err := a.UpdateAction(i, Analog(0, 0)); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.ActionByIndex(i); got != Analog(0, 0) {
		t.Errorf("got %+v, want Analog(0, 0)", got)
	}
}

func TestInputActions_PressHoldRelease(t *testing.T) {
	a := NewInputActions()
	i := a.AddAction("fire", Digital(StateUp))

	seq := []struct {
		held bool
		want ActionState
	}{
		{true, StatePressed},
		{true, StateDown},
		{true, StateDown},
		{false, StateReleased},
		{false, StateUp},
		{true, StatePressed},
	}
	for step, s := range seq {
		signal := Digital(StateUp)
		if s.held {
			signal = Digital(StateDown)
		}
		if err := a.UpdateAction(i, signal); err != nil {
			t.Fatal(err)
		}
		got, _ := a.ActionByIndex(i)
		if got.State != s.want {
			t.Errorf("step %d: state = %v, want %v", step, got.State, s.want)
		}
	}
}

func TestInputActions_DuplicateNameRemaps(t *testing.T) {
	a := NewInputActions()
	a.AddAction("x", Digital(StateUp))
	second := a.AddAction("x", Axis(0))
	i, _ := a.IndexByKey("x")
	if i != second {
		t.Errorf("IndexByKey(x) = %d, want %d", i, second)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}

func TestAction_Predicates(t *testing.T) {
	tests := []struct {
		a                       Action
		down, pressed, released bool
	}{
		{Digital(StateUp), false, false, false},
		{Digital(StateDown), true, false, false},
		{Digital(StatePressed), true, true, false},
		{Digital(StateReleased), false, false, true},
		{Axis(1), false, false, false},
		{Analog(1, 1), false, false, false},
	}
	for _, tt := range tests {
		if tt.a.IsDown() != tt.down || tt.a.IsPressed() != tt.pressed || tt.a.IsReleased() != tt.released {
			t.Errorf("%+v: down=%v pressed=%v released=%v", tt.a, tt.a.IsDown(), tt.a.IsPressed(), tt.a.IsReleased())
		}
	}
}

func TestInputMap_AddAction(t *testing.T) {
	m := NewInputMap[string]()
	p0 := m.AddUser()
	p1 := m.AddUser()
	if p0 != 0 || p1 != 1 {
		t.Fatalf("users = %d, %d", p0, p1)
	}
	if err := m.AddAction(p1, "jump", []string{"space", "pad-a"}, Digital(StateUp)); err != nil {
		t.Fatal(err)
	}
	if len(m.Commands) != 1 {
		t.Fatalf("Commands = %d, want 1", len(m.Commands))
	}
	c := m.Commands[0]
	if c.User != p1 || c.Action != 0 || len(c.Commands) != 2 {
		t.Errorf("command = %+v", c)
	}
	u, _ := m.User(p1)
	if _, err := u.IndexByKey("jump"); err != nil {
		t.Errorf("user 1 missing jump: %v", err)
	}
	u0, _ := m.User(p0)
	if u0.Len() != 0 {
		t.Errorf("user 0 has %d actions, want 0", u0.Len())
	}

	if err := m.AddAction(5, "x", nil, Digital(StateUp)); !errors.Is(err, ErrUserIndexOutOfBounds) {
		t.Errorf("AddAction(5) err = %v, want ErrUserIndexOutOfBounds", err)
	}
	if _, err := m.User(-1); !errors.Is(err, ErrUserIndexOutOfBounds) {
		t.Errorf("User(-1) err = %v", err)
	}
}

func TestInputMap_PolledConsumed(t *testing.T) {
	m := NewInputMap[string]()
	u := m.AddUser()
	_ = m.AddAction(u, "fire", nil, Digital(StateUp))
	acts, _ := m.User(u)

	// A press polled in a frame with no update survives the next poll.
	_ = acts.UpdateAction(0, Digital(StateDown))
	m.MarkPolled()
	_ = acts.UpdateAction(0, Digital(StateDown))
	if got, _ := acts.ActionByIndex(0); got.State != StatePressed {
		t.Fatalf("state = %v, want pressed before consumption", got.State)
	}

	m.MarkConsumed()
	_ = acts.UpdateAction(0, Digital(StateDown))
	if got, _ := acts.ActionByIndex(0); got.State != StateDown {
		t.Errorf("state = %v, want down after consumption", got.State)
	}
}
