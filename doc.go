// Package stagehand is a scene-stack 2D game framework for [Ebitengine].
//
// A [Stage] owns a registry of scenes and an ordered active list. Each tick
// the stage updates scenes from the top down until one blocks, routes the
// messages and instructions they respond with, and each frame it collects
// draw batches from the highest covering scene upward. Resources live in
// append-only [ResourceStorage] values and are referenced by generational
// [Ticket] handles, so a scene can cache a ticket and find out cheaply when
// it has gone stale. Input is folded into named action slots per user with
// press and release edges.
//
// # Quick start
//
// [Run] creates a window, storage and input map and hands them to a setup
// function before the first frame:
//
//	stagehand.Run(stagehand.RunConfig{Title: "My Game"}, func(g *stagehand.Game) error {
//		g.Stage().AddScene("level", newLevel(), true)
//		return nil
//	})
//
// Declare assets and bindings in a YAML [Manifest] and apply it in setup:
//
//	m, err := stagehand.ReadManifest(os.DirFS("assets"), "game.yaml")
//	// ...
//	return m.Apply(g.Storage(), g.Input())
//
// # Scenes
//
// Implement [GameScene] (a [Scene] instantiated with the host types of this
// package). Update returns responses built with [SendMessage],
// [SendInstruction], [ShowScene] and [HideScene]. Draw returns a
// [DrawBatch] of sprite and text draws built with [Sprite] and [Text].
//
// The generic [Stage] and [Scene] types do not depend on Ebitengine and can
// be driven by any host, for example through [GameLoop].
//
// # Timing
//
// [Stepper] converts elapsed wall time into a whole number of fixed
// simulation steps and an interpolation factor for drawing. [Game] uses one
// internally; [GameLoop] drives an arbitrary [App] with it.
//
// # Testing
//
// [ScriptedDevice] injects key, mouse and cursor input; [TestRunner] plays a
// JSON script of input, waits and screenshots against a [Game].
//
// [Ebitengine]: https://ebitengine.org
package stagehand
