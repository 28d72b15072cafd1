package backlight

import (
	"fmt"
	"io"

	"github.com/godbus/dbus/v5"
)

const (
	logindDest    = "org.freedesktop.login1"
	logindSession = "/org/freedesktop/login1/session/auto"
	setBrightness = "org.freedesktop.login1.Session.SetBrightness"
)

// caller is the part of dbus.BusObject used by the logind writer.
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Logind reads the level from sysfs and writes it through systemd-logind,
// which lets the seat owner change LED brightness without write access to
// the sysfs file.
type Logind struct {
	Sysfs *Sysfs

	// session returns the caller's login session object; nil means the
	// system bus.
	session func() (caller, io.Closer, error)
}

func NewLogind(s *Sysfs) *Logind {
	return &Logind{Sysfs: s}
}

func systemSession() (caller, io.Closer, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return conn.Object(logindDest, logindSession), conn, nil
}

func (l *Logind) Path() string {
	return l.Sysfs.Path()
}

func (l *Logind) Open() (Level, error) {
	if _, err := l.Sysfs.Fs.Stat(l.Sysfs.Path()); err != nil {
		return nil, &ResourceError{Path: l.Sysfs.Path(), Err: err}
	}

	session := l.session
	if session == nil {
		session = systemSession
	}
	obj, closer, err := session()
	if err != nil {
		return nil, &ResourceError{Path: logindSession, Err: err}
	}
	return &logindLevel{sysfs: l.Sysfs, obj: obj, closer: closer}, nil
}

type logindLevel struct {
	sysfs  *Sysfs
	obj    caller
	closer io.Closer
}

func (l *logindLevel) Read() (int, error) {
	return l.sysfs.ReadLevel()
}

func (l *logindLevel) Write(level int) error {
	err := l.obj.Call(setBrightness, 0, "leds", l.sysfs.Device, uint32(level)).Store()
	if err != nil {
		return fmt.Errorf("failed to set brightness of %s via logind: %w", l.sysfs.Device, err)
	}
	return nil
}

func (l *logindLevel) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
