package stagehand

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontKey is the font storage key under which NewStorage registers
// the built-in Go Regular font.
const DefaultFontKey = "default"

// Typed storages used by Storage. Keys are asset names; load arguments are
// paths inside the storage's file system.
type (
	TextureStorage = ResourceStorage[string, *ebiten.Image, string]
	AtlasStorage   = ResourceStorage[string, *Atlas, string]
	FontStorage    = ResourceStorage[string, *text.GoTextFaceSource, string]
	SoundStorage   = ResourceStorage[string, *Sound, string]
	DataStorage    = ResourceStorage[string, []byte, string]
)

// Storage aggregates one ResourceStorage per StorageType and implements
// TicketManager. Sounds and Music are nil when no audio context was given.
type Storage struct {
	Textures *TextureStorage
	Atlases  *AtlasStorage
	Fonts    *FontStorage
	Sounds   *SoundStorage
	Music    *SoundStorage
	Data     *DataStorage
}

// NewStorage creates storages reading from fsys. Pass a nil audio context
// to run without sound; the Sound and Music categories are then unknown.
func NewStorage(fsys fs.FS, audioCtx *audio.Context) (*Storage, error) {
	s := &Storage{
		Textures: NewResourceStorage[string, *ebiten.Image, string](TextureLoader{FS: fsys}),
		Atlases:  NewResourceStorage[string, *Atlas, string](AtlasLoader{FS: fsys}),
		Fonts:    NewResourceStorage[string, *text.GoTextFaceSource, string](FontLoader{FS: fsys}),
		Data:     NewResourceStorage[string, []byte, string](DataLoader{FS: fsys}),
	}
	if audioCtx != nil {
		sl := SoundLoader{FS: fsys, SampleRate: audioCtx.SampleRate()}
		s.Sounds = NewResourceStorage[string, *Sound, string](sl)
		s.Music = NewResourceStorage[string, *Sound, string](sl)
	}
	src, err := DefaultFontSource()
	if err != nil {
		return nil, err
	}
	if err := s.Fonts.Insert(DefaultFontKey, src); err != nil {
		return nil, err
	}
	return s, nil
}

// GetTicketWithKey issues a ticket from the storage for category st.
func (s *Storage) GetTicketWithKey(st StorageType, key string) (Ticket, error) {
	switch st {
	case StorageTexture:
		return s.Textures.TakeTicket(key)
	case StorageAtlas:
		return s.Atlases.TakeTicket(key)
	case StorageFont:
		return s.Fonts.TakeTicket(key)
	case StorageData:
		return s.Data.TakeTicket(key)
	case StorageSound:
		if s.Sounds != nil {
			return s.Sounds.TakeTicket(key)
		}
	case StorageMusic:
		if s.Music != nil {
			return s.Music.TakeTicket(key)
		}
	}
	return Ticket{}, &UnknownStorageError{Storage: st.String()}
}

// Load loads key into the storage for category st.
func (s *Storage) Load(st StorageType, key, file string) error {
	var err error
	switch st {
	case StorageTexture:
		err = s.Textures.Load(key, file)
	case StorageAtlas:
		err = s.Atlases.Load(key, file)
	case StorageFont:
		err = s.Fonts.Load(key, file)
	case StorageData:
		err = s.Data.Load(key, file)
	case StorageSound:
		if s.Sounds == nil {
			return &UnknownStorageError{Storage: st.String()}
		}
		err = s.Sounds.Load(key, file)
	case StorageMusic:
		if s.Music == nil {
			return &UnknownStorageError{Storage: st.String()}
		}
		err = s.Music.Load(key, file)
	default:
		return &UnknownStorageError{Storage: st.String()}
	}
	if err != nil {
		logger().Error("load resource", "storage", st, "key", key, "file", file, "err", err)
	}
	return err
}

// Lock locks every storage.
func (s *Storage) Lock() {
	s.each(func(l locker) { l.Lock() })
}

// Unlock unlocks every storage, invalidating all outstanding tickets.
func (s *Storage) Unlock() {
	s.each(func(l locker) { l.Unlock() })
}

type locker interface {
	Lock()
	Unlock()
}

func (s *Storage) each(fn func(locker)) {
	fn(s.Textures)
	fn(s.Atlases)
	fn(s.Fonts)
	fn(s.Data)
	if s.Sounds != nil {
		fn(s.Sounds)
	}
	if s.Music != nil {
		fn(s.Music)
	}
}

// DefaultFontSource parses the bundled Go Regular font.
func DefaultFontSource() (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("stagehand: parse default font: %w", err)
	}
	return src, nil
}

// TextureLoader decodes PNG or JPEG files into ebiten images.
type TextureLoader struct {
	FS fs.FS
}

// Load decodes the image at name.
func (l TextureLoader) Load(name string) (*ebiten.Image, error) {
	f, err := openAsset(l.FS, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// AtlasLoader parses TexturePacker JSON files.
type AtlasLoader struct {
	FS fs.FS
}

// Load parses the atlas at name.
func (l AtlasLoader) Load(name string) (*Atlas, error) {
	data, err := readAsset(l.FS, name)
	if err != nil {
		return nil, err
	}
	return ParseAtlas(data)
}

// FontLoader parses TrueType and OpenType fonts for text/v2.
type FontLoader struct {
	FS fs.FS
}

// Load parses the font at name.
func (l FontLoader) Load(name string) (*text.GoTextFaceSource, error) {
	data, err := readAsset(l.FS, name)
	if err != nil {
		return nil, err
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return src, nil
}

// DataLoader reads files verbatim.
type DataLoader struct {
	FS fs.FS
}

// Load reads the file at name.
func (l DataLoader) Load(name string) ([]byte, error) {
	return readAsset(l.FS, name)
}

// Sound is decoded 16-bit stereo PCM at the audio context's sample rate.
type Sound struct {
	PCM []byte
}

// SoundLoader decodes WAV and Ogg Vorbis files, chosen by extension.
type SoundLoader struct {
	FS         fs.FS
	SampleRate int
}

// Load decodes the sound at name fully into memory.
func (l SoundLoader) Load(name string) (*Sound, error) {
	data, err := readAsset(l.FS, name)
	if err != nil {
		return nil, err
	}
	var stream io.Reader
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(l.SampleRate, bytes.NewReader(data))
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(l.SampleRate, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported sound format %q", path.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Sound{PCM: pcm}, nil
}

func openAsset(fsys fs.FS, name string) (fs.File, error) {
	if fsys == nil {
		return nil, fmt.Errorf("open %s: no asset file system", name)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func readAsset(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, fmt.Errorf("read %s: no asset file system", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
