package stagehand

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// DefaultSampleRate is the audio context sample rate used by Run.
const DefaultSampleRate = 44100

// audioPlayer is the subset of *audio.Player the Mixer drives.
type audioPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

// Mixer executes sound and music instructions against the Sounds and Music
// storages and reports music state back to scenes.
type Mixer struct {
	storage   *Storage
	newPlayer func(src io.Reader) (audioPlayer, error)

	music        audioPlayer
	sounds       []audioPlayer
	stopReported bool
}

// NewMixer creates a mixer playing through ctx.
func NewMixer(ctx *audio.Context, storage *Storage) *Mixer {
	return &Mixer{
		storage: storage,
		newPlayer: func(src io.Reader) (audioPlayer, error) {
			p, err := ctx.NewPlayer(src)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

// Execute runs a PlaySound or PlayMusic instruction. Other kinds are
// ignored.
func (m *Mixer) Execute(ins Instruction) error {
	switch ins.Kind {
	case InstructionPlaySound:
		return m.playSound(ins)
	case InstructionPlayMusic:
		return m.playMusic(ins)
	}
	return nil
}

func (m *Mixer) playSound(ins Instruction) error {
	if m.storage.Sounds == nil {
		return &UnknownStorageError{Storage: StorageSound.String()}
	}
	s, err := m.storage.Sounds.GetByTicket(ins.Ticket)
	if err != nil {
		return err
	}
	p, err := m.newPlayer(bytes.NewReader(s.PCM))
	if err != nil {
		return fmt.Errorf("stagehand: sound player: %w", err)
	}
	p.SetVolume(ins.Volume)
	p.Play()
	m.sounds = append(m.sounds, p)
	return nil
}

func (m *Mixer) playMusic(ins Instruction) error {
	if m.storage.Music == nil {
		return &UnknownStorageError{Storage: StorageMusic.String()}
	}
	s, err := m.storage.Music.GetByTicket(ins.Ticket)
	if err != nil {
		return err
	}
	var src io.Reader
	if ins.Loops < 0 {
		src = audio.NewInfiniteLoop(bytes.NewReader(s.PCM), int64(len(s.PCM)))
	} else {
		readers := make([]io.Reader, ins.Loops+1)
		for i := range readers {
			readers[i] = bytes.NewReader(s.PCM)
		}
		src = io.MultiReader(readers...)
	}
	p, err := m.newPlayer(src)
	if err != nil {
		return fmt.Errorf("stagehand: music player: %w", err)
	}
	m.StopMusic()
	p.SetVolume(ins.Volume)
	p.Play()
	m.music = p
	m.stopReported = false
	return nil
}

// StopMusic stops the current music, if any.
func (m *Mixer) StopMusic() {
	if m.music == nil {
		return
	}
	m.music.Pause()
	if err := m.music.Close(); err != nil {
		logger().Warn("close music player", "err", err)
	}
	m.music = nil
}

// Poll releases finished sound players and returns the notifications raised
// since the last call: InfoMusicStopped once each time music stops,
// including before any music has played.
func (m *Mixer) Poll() []UpdateInfo {
	live := m.sounds[:0]
	for _, p := range m.sounds {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			logger().Warn("close sound player", "err", err)
		}
	}
	clear(m.sounds[len(live):])
	m.sounds = live

	if m.music != nil && m.music.IsPlaying() {
		return nil
	}
	if m.stopReported {
		return nil
	}
	m.stopReported = true
	return []UpdateInfo{InfoMusicStopped}
}

// Playing returns the number of sound effects still playing.
func (m *Mixer) Playing() int { return len(m.sounds) }
