package ecs

import (
	"testing"

	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_Execute(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []stagehand.Instruction
	InstructionEventType.Subscribe(world, func(w donburi.World, ins stagehand.Instruction) {
		received = append(received, ins)
	})

	sink.Execute(stagehand.PlaySound(stagehand.Ticket{}, 0.5))
	sink.Execute(stagehand.Quit())

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}

	InstructionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Kind != stagehand.InstructionPlaySound || received[0].Volume != 0.5 {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Kind != stagehand.InstructionQuit {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_SeparateWorlds(t *testing.T) {
	a, b := donburi.NewWorld(), donburi.NewWorld()
	var gotA, gotB int
	InstructionEventType.Subscribe(a, func(donburi.World, stagehand.Instruction) { gotA++ })
	InstructionEventType.Subscribe(b, func(donburi.World, stagehand.Instruction) { gotB++ })

	NewDonburiSink(a).Execute(stagehand.Quit())
	InstructionEventType.ProcessEvents(a)
	InstructionEventType.ProcessEvents(b)

	if gotA != 1 || gotB != 0 {
		t.Errorf("gotA = %d, gotB = %d, want 1, 0", gotA, gotB)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	InstructionEventType.Subscribe(world, func(donburi.World, stagehand.Instruction) { count1++ })
	InstructionEventType.Subscribe(world, func(donburi.World, stagehand.Instruction) { count2++ })

	sink.Execute(stagehand.PlayMusic(stagehand.Ticket{}, -1, 1))
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
