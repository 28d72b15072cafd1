package backlight

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	DefaultLedsDir = "/sys/class/leds"
	DefaultDevice  = "smc::kbd_backlight"
)

var ErrInvalidLevel = errors.New("invalid level")

// Capability reports the maximum level a device accepts.
type Capability interface {
	MaxPath() string
	ReadMax() (int, error)
}

// Level is an open handle on a brightness resource. It is used for one
// read and one write, then closed.
type Level interface {
	Read() (int, error)
	Write(level int) error
	Close() error
}

// Store opens the brightness resource of a single device.
type Store interface {
	Path() string
	Open() (Level, error)
}

// ResourceError means the brightness resource could not be opened.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Sysfs exposes one LED class device: <Root>/<Device>/{brightness,max_brightness}.
type Sysfs struct {
	Fs     afero.Fs
	Root   string
	Device string
}

func NewSysfs(root, device string) *Sysfs {
	return &Sysfs{Fs: afero.NewOsFs(), Root: root, Device: device}
}

func (s *Sysfs) MaxPath() string {
	return filepath.Join(s.Root, s.Device, "max_brightness")
}

func (s *Sysfs) Path() string {
	return filepath.Join(s.Root, s.Device, "brightness")
}

func (s *Sysfs) ReadMax() (int, error) {
	return readInt(s.Fs, s.MaxPath())
}

// ReadLevel reads the current brightness without holding a handle.
func (s *Sysfs) ReadLevel() (int, error) {
	return readInt(s.Fs, s.Path())
}

func (s *Sysfs) Open() (Level, error) {
	f, err := s.Fs.OpenFile(s.Path(), os.O_RDWR, 0)
	if err != nil {
		return nil, &ResourceError{Path: s.Path(), Err: err}
	}
	return &fileLevel{f: f}, nil
}

type fileLevel struct {
	f afero.File
}

func (l *fileLevel) Read() (int, error) {
	data, err := io.ReadAll(l.f)
	if err != nil {
		return 0, err
	}
	return ParseLevel(data)
}

// Write replaces the whole content of the file with the decimal level.
func (l *fileLevel) Write(level int) error {
	if err := l.f.Truncate(0); err != nil {
		return err
	}
	if _, err := l.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.WriteString(l.f, strconv.Itoa(level))
	return err
}

func (l *fileLevel) Close() error {
	return l.f.Close()
}

// ParseLevel parses a single decimal integer, ignoring surrounding whitespace.
func ParseLevel(data []byte) (int, error) {
	s := strings.TrimSpace(string(data))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return v, nil
}

func readInt(fs afero.Fs, path string) (int, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, err
	}
	return ParseLevel(data)
}
