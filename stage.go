package stagehand

import (
	"errors"
	"fmt"
	"slices"
)

// Stage errors. The not-found error types below match ErrSceneNotFound
// through errors.Is.
var (
	ErrNoScenesToUpdate = errors.New("stagehand: no scenes to update")
	ErrNoScenesToDraw   = errors.New("stagehand: no scenes to draw")
	ErrSceneNotFound    = errors.New("stagehand: scene not found")
)

// UpdateSceneNotFoundError reports an activation change naming a key that
// is not registered on the stage.
type UpdateSceneNotFoundError[K comparable] struct {
	Key K
}

func (e *UpdateSceneNotFoundError[K]) Error() string {
	return fmt.Sprintf("stagehand: no scene %v to activate or deactivate", e.Key)
}

func (e *UpdateSceneNotFoundError[K]) Is(target error) bool { return target == ErrSceneNotFound }

// MessageSceneNotFoundError reports a message addressed to an unregistered
// scene.
type MessageSceneNotFoundError[K comparable] struct {
	Key K
}

func (e *MessageSceneNotFoundError[K]) Error() string {
	return fmt.Sprintf("stagehand: no scene %v to receive message", e.Key)
}

func (e *MessageSceneNotFoundError[K]) Is(target error) bool { return target == ErrSceneNotFound }

// activation is a deferred change to the active list.
type activation[K comparable] struct {
	key      K
	activate bool
}

// Stage owns a registry of scenes and an ordered active list (bottom to
// top). Each frame the host calls Update zero or more times and Draw once.
//
// Update walks down from the top scene and stops after the first blocking
// scene. Draw starts at the highest covering scene and paints upward.
// Neither pass caches Blocking or Covering.
type Stage[K comparable, N, U, M, I, D, B any] struct {
	scenes  map[K]Scene[K, N, U, M, I, D, B]
	order   []K // registration order
	active  []K
	pending []activation[K]

	instructions []I // reused across steps
}

// NewStage creates an empty stage.
func NewStage[K comparable, N, U, M, I, D, B any]() *Stage[K, N, U, M, I, D, B] {
	return &Stage[K, N, U, M, I, D, B]{
		scenes: make(map[K]Scene[K, N, U, M, I, D, B]),
	}
}

// AddScene registers scene under key. When active is true the key is
// appended to the active list as the new top. Registering an existing key
// replaces the scene but keeps its place in the active list.
func (st *Stage[K, N, U, M, I, D, B]) AddScene(key K, scene Scene[K, N, U, M, I, D, B], active bool) {
	_, existed := st.scenes[key]
	st.scenes[key] = scene
	if !existed {
		st.order = append(st.order, key)
	}
	if active && !(existed && st.IsActive(key)) {
		st.active = append(st.active, key)
	}
}

// Scene returns the scene registered under key.
func (st *Stage[K, N, U, M, I, D, B]) Scene(key K) (Scene[K, N, U, M, I, D, B], bool) {
	s, ok := st.scenes[key]
	return s, ok
}

// Initialize calls Initialize on every registered scene in registration
// order, active or not.
func (st *Stage[K, N, U, M, I, D, B]) Initialize(init N) {
	for _, key := range st.order {
		st.scenes[key].Initialize(init)
	}
}

// Active returns a copy of the active keys, bottom first.
func (st *Stage[K, N, U, M, I, D, B]) Active() []K {
	return slices.Clone(st.active)
}

// IsActive reports whether key is in the active list.
func (st *Stage[K, N, U, M, I, D, B]) IsActive(key K) bool {
	return slices.Contains(st.active, key)
}

// Activate moves a registered scene to the top of the active list,
// appending it if it was inactive.
func (st *Stage[K, N, U, M, I, D, B]) Activate(key K) error {
	if _, ok := st.scenes[key]; !ok {
		return &UpdateSceneNotFoundError[K]{Key: key}
	}
	st.active = slices.DeleteFunc(st.active, func(k K) bool { return k == key })
	st.active = append(st.active, key)
	return nil
}

// Deactivate removes a registered scene from the active list. Deactivating
// an inactive scene does nothing.
func (st *Stage[K, N, U, M, I, D, B]) Deactivate(key K) error {
	if _, ok := st.scenes[key]; !ok {
		return &UpdateSceneNotFoundError[K]{Key: key}
	}
	st.active = slices.DeleteFunc(st.active, func(k K) bool { return k == key })
	return nil
}

// Update runs one simulation step. The top active scene always updates;
// the pass continues downward while the scene just updated is not blocking.
//
// Messages are delivered as soon as the emitting scene returns. Activation
// changes are applied after the pass. Instructions are returned in emission
// order. On error the step's instructions and activation changes are
// discarded.
func (st *Stage[K, N, U, M, I, D, B]) Update(update U, delta float64) ([]I, error) {
	if len(st.active) == 0 {
		return nil, ErrNoScenesToUpdate
	}

	st.instructions = st.instructions[:0]
	st.pending = st.pending[:0]

	i := len(st.active) - 1
	for {
		scene, err := st.activeScene(i)
		if err != nil {
			return nil, err
		}
		if err := st.dispatch(scene.Update(update, delta)); err != nil {
			st.pending = st.pending[:0]
			return nil, err
		}
		if i == 0 || scene.Blocking() {
			break
		}
		i--
	}

	for _, p := range st.pending {
		var err error
		if p.activate {
			err = st.Activate(p.key)
		} else {
			err = st.Deactivate(p.key)
		}
		if err != nil {
			st.pending = st.pending[:0]
			return nil, err
		}
	}
	st.pending = st.pending[:0]

	if len(st.instructions) == 0 {
		return nil, nil
	}
	return slices.Clone(st.instructions), nil
}

// dispatch routes one scene's responses.
func (st *Stage[K, N, U, M, I, D, B]) dispatch(responses []Response[K, M, I]) error {
	for _, r := range responses {
		switch r.Kind {
		case ResponseMessage:
			target, ok := st.scenes[r.Target]
			if !ok {
				return &MessageSceneNotFoundError[K]{Key: r.Target}
			}
			target.ReceiveMessage(r.Message)
		case ResponseInstruction:
			st.instructions = append(st.instructions, r.Instruction)
		case ResponseActivate:
			if _, ok := st.scenes[r.Target]; !ok {
				return &UpdateSceneNotFoundError[K]{Key: r.Target}
			}
			st.pending = append(st.pending, activation[K]{key: r.Target, activate: true})
		case ResponseDeactivate:
			if _, ok := st.scenes[r.Target]; !ok {
				return &UpdateSceneNotFoundError[K]{Key: r.Target}
			}
			st.pending = append(st.pending, activation[K]{key: r.Target})
		}
	}
	return nil
}

// Draw collects one batch per visible scene, bottom to top. Drawing starts
// at the highest covering scene, or at the bottom if none covers.
func (st *Stage[K, N, U, M, I, D, B]) Draw(draw D, interp float64) ([]B, error) {
	if len(st.active) == 0 {
		return nil, ErrNoScenesToDraw
	}

	start := len(st.active) - 1
	for start > 0 {
		scene, err := st.activeScene(start)
		if err != nil {
			return nil, err
		}
		if scene.Covering() {
			break
		}
		start--
	}

	batches := make([]B, 0, len(st.active)-start)
	for i := start; i < len(st.active); i++ {
		scene, err := st.activeScene(i)
		if err != nil {
			return nil, err
		}
		batches = append(batches, scene.Draw(draw, interp))
	}
	return batches, nil
}

func (st *Stage[K, N, U, M, I, D, B]) activeScene(i int) (Scene[K, N, U, M, I, D, B], error) {
	key := st.active[i]
	scene, ok := st.scenes[key]
	if !ok {
		return nil, &UpdateSceneNotFoundError[K]{Key: key}
	}
	return scene, nil
}
