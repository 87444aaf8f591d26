package stagehand

import "fmt"

// StorageType names a resource category held by Storage.
type StorageType uint8

const (
	StorageData StorageType = iota
	StorageFont
	StorageMusic
	StorageSound
	StorageTexture
	StorageAtlas
)

func (t StorageType) String() string {
	switch t {
	case StorageData:
		return "Data"
	case StorageFont:
		return "Font"
	case StorageMusic:
		return "Music"
	case StorageSound:
		return "Sound"
	case StorageTexture:
		return "Texture"
	case StorageAtlas:
		return "Atlas"
	default:
		return fmt.Sprintf("StorageType(%d)", uint8(t))
	}
}

// Initialize is passed to every scene once before the first frame.
type Initialize struct {
	Input   *InputMap[Command]
	Storage *Storage
}

// Update is passed to scenes on every simulation step.
type Update struct {
	Input *InputMap[Command]
	// Info holds host notifications raised since the previous step.
	// Delivered to one step only; scenes must not retain the slice.
	Info []UpdateInfo
}

// UpdateInfo is a host notification delivered through Update.
type UpdateInfo uint8

const (
	// InfoMusicStopped is raised once whenever no music is playing,
	// including at startup.
	InfoMusicStopped UpdateInfo = iota
)

// InstructionKind selects the variant of an Instruction.
type InstructionKind uint8

const (
	InstructionPlayMusic InstructionKind = iota
	InstructionPlaySound
	InstructionQuit
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionPlayMusic:
		return "play-music"
	case InstructionPlaySound:
		return "play-sound"
	case InstructionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Instruction is a host-level side effect requested by a scene.
type Instruction struct {
	Kind   InstructionKind
	Ticket Ticket  // PlayMusic, PlaySound
	Loops  int     // PlayMusic: extra repetitions after the first play; negative loops forever
	Volume float64 // PlayMusic, PlaySound: 0..1
}

// PlayMusic requests music playback, replacing any current music.
func PlayMusic(t Ticket, loops int, volume float64) Instruction {
	return Instruction{Kind: InstructionPlayMusic, Ticket: t, Loops: loops, Volume: volume}
}

// PlaySound requests a one-shot sound effect.
func PlaySound(t Ticket, volume float64) Instruction {
	return Instruction{Kind: InstructionPlaySound, Ticket: t, Volume: volume}
}

// Quit requests the host to end the run loop after the current frame.
func Quit() Instruction {
	return Instruction{Kind: InstructionQuit}
}

// InstructionSink receives every instruction the host executes. Used to
// bridge instructions into other systems such as an ECS world.
type InstructionSink interface {
	Execute(ins Instruction)
}

// DrawContext is passed to scenes on every draw.
type DrawContext struct {
	Width, Height int
}

// GameScene is a Scene using the host types of this package.
type GameScene = Scene[string, *Initialize, *Update, string, Instruction, DrawContext, DrawBatch]

// GameStage is a Stage of GameScenes.
type GameStage = Stage[string, *Initialize, *Update, string, Instruction, DrawContext, DrawBatch]

// GameResponse is the response type emitted by GameScenes.
type GameResponse = Response[string, string, Instruction]

// NewGameStage creates an empty GameStage.
func NewGameStage() *GameStage {
	return NewStage[string, *Initialize, *Update, string, Instruction, DrawContext, DrawBatch]()
}

// SendMessage builds a message response for a GameScene.
func SendMessage(target, msg string) GameResponse {
	return Message[string, string, Instruction](target, msg)
}

// SendInstruction builds an instruction response for a GameScene.
func SendInstruction(ins Instruction) GameResponse {
	return Instruct[string, string](ins)
}

// ShowScene builds an activation response for a GameScene.
func ShowScene(key string) GameResponse {
	return Activate[string, string, Instruction](key)
}

// HideScene builds a deactivation response for a GameScene.
func HideScene(key string) GameResponse {
	return Deactivate[string, string, Instruction](key)
}
