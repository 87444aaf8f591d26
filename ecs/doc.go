// Package ecs bridges stagehand host instructions into a [Donburi] world.
//
// [NewDonburiSink] publishes every instruction the Game executes as a typed
// event. Subscribe to [InstructionEventType] in your ECS systems to react to
// music changes, sound effects or quit requests:
//
//	sink := ecs.NewDonburiSink(world)
//	game.SetInstructionSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
