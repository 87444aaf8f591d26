package stagehand

// Scene is one layer of per-frame behavior managed by a Stage: a player, a
// HUD, a pause menu. Applications implement it once per feature.
//
// The type parameters are chosen by the application and shared by every
// scene on a Stage:
//
//	K  scene key (usually string)
//	N  initialization context passed to Initialize
//	U  per-step update context
//	M  inter-scene message payload
//	I  host instruction payload
//	D  per-frame draw context
//	B  draw batch produced by Draw
//
// Blocking and Covering are queried every frame and never cached, so a scene
// may change them at any time (a menu that stops blocking once dismissed).
type Scene[K comparable, N, U, M, I, D, B any] interface {
	Initialize(init N)
	Update(update U, delta float64) []Response[K, M, I]
	Draw(draw D, interp float64) B
	ReceiveMessage(msg M)

	// Covering reports whether scenes below this one are hidden.
	Covering() bool
	// Blocking reports whether scenes below this one stop updating.
	Blocking() bool
}

// ResponseKind identifies the variant carried by a Response.
type ResponseKind uint8

const (
	ResponseMessage     ResponseKind = iota // payload for another scene's ReceiveMessage
	ResponseInstruction                     // payload for the host
	ResponseActivate                        // push a registered scene to the top of the active list
	ResponseDeactivate                      // remove a scene from the active list
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseMessage:
		return "message"
	case ResponseInstruction:
		return "instruction"
	case ResponseActivate:
		return "activate"
	case ResponseDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// Response is a value emitted by Scene.Update. Build one with Message,
// Instruct, Activate or Deactivate.
type Response[K comparable, M, I any] struct {
	Kind        ResponseKind
	Target      K // Message, Activate and Deactivate
	Message     M
	Instruction I
}

// Message addresses msg to the scene registered under target.
func Message[K comparable, M, I any](target K, msg M) Response[K, M, I] {
	return Response[K, M, I]{Kind: ResponseMessage, Target: target, Message: msg}
}

// Instruct hands ins to the host once the update pass finishes.
func Instruct[K comparable, M, I any](ins I) Response[K, M, I] {
	return Response[K, M, I]{Kind: ResponseInstruction, Instruction: ins}
}

// Activate asks the stage to put target on top of the active list after
// the current update pass.
func Activate[K comparable, M, I any](target K) Response[K, M, I] {
	return Response[K, M, I]{Kind: ResponseActivate, Target: target}
}

// Deactivate asks the stage to drop target from the active list after the
// current update pass.
func Deactivate[K comparable, M, I any](target K) Response[K, M, I] {
	return Response[K, M, I]{Kind: ResponseDeactivate, Target: target}
}
