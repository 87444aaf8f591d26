package ecs

import (
	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InstructionEventType is the Donburi event type for executed host
// instructions.
var InstructionEventType = events.NewEventType[stagehand.Instruction]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an InstructionSink backed by a Donburi world.
// Instructions are queued on InstructionEventType and delivered by
// ProcessEvents.
func NewDonburiSink(world donburi.World) stagehand.InstructionSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Execute(ins stagehand.Instruction) {
	InstructionEventType.Publish(s.world, ins)
}
