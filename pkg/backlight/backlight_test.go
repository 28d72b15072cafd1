package backlight

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSysfs(t *testing.T, level, maxLevel string) *Sysfs {
	t.Helper()
	s := &Sysfs{Fs: afero.NewMemMapFs(), Root: DefaultLedsDir, Device: DefaultDevice}
	if level != "" {
		require.NoError(t, afero.WriteFile(s.Fs, s.Path(), []byte(level), 0o644))
	}
	if maxLevel != "" {
		require.NoError(t, afero.WriteFile(s.Fs, s.MaxPath(), []byte(maxLevel), 0o444))
	}
	return s
}

func TestSysfsPaths(t *testing.T) {
	s := NewSysfs("/sys/class/leds", "tpacpi::kbd_backlight")
	assert.Equal(t, "/sys/class/leds/tpacpi::kbd_backlight/brightness", s.Path())
	assert.Equal(t, "/sys/class/leds/tpacpi::kbd_backlight/max_brightness", s.MaxPath())
}

func TestReadMax(t *testing.T) {
	s := newTestSysfs(t, "", "255\n")
	v, err := s.ReadMax()
	require.NoError(t, err)
	assert.Equal(t, 255, v)
}

func TestReadMax_Missing(t *testing.T) {
	s := newTestSysfs(t, "", "")
	_, err := s.ReadMax()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadMax_Garbage(t *testing.T) {
	s := newTestSysfs(t, "", "bright\n")
	_, err := s.ReadMax()
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"42\n", 42, false},
		{"  7 \n", 7, false},
		{"", 0, true},
		{"12abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel([]byte(tt.in))
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidLevel, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOpen_ReadWrite(t *testing.T) {
	s := newTestSysfs(t, "100\n", "100")

	lvl, err := s.Open()
	require.NoError(t, err)

	cur, err := lvl.Read()
	require.NoError(t, err)
	assert.Equal(t, 100, cur)

	require.NoError(t, lvl.Write(5))
	require.NoError(t, lvl.Close())

	data, err := afero.ReadFile(s.Fs, s.Path())
	require.NoError(t, err)
	assert.Equal(t, "5", string(data))
}

func TestOpen_Missing(t *testing.T) {
	s := newTestSysfs(t, "", "100")

	_, err := s.Open()
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, s.Path(), rerr.Path)
	assert.Contains(t, err.Error(), s.Path())
}

func TestOpen_ReadOnlyFs(t *testing.T) {
	s := newTestSysfs(t, "3", "100")
	s.Fs = afero.NewReadOnlyFs(s.Fs)

	_, err := s.Open()
	var rerr *ResourceError
	assert.ErrorAs(t, err, &rerr)
}

type fakeSession struct {
	calls  [][]interface{}
	err    error
	closed bool
}

func (f *fakeSession) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, append([]interface{}{method}, args...))
	return &dbus.Call{Err: f.err}
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func newTestLogind(s *Sysfs, fake *fakeSession) *Logind {
	l := NewLogind(s)
	l.session = func() (caller, io.Closer, error) {
		return fake, fake, nil
	}
	return l
}

func TestLogind_Write(t *testing.T) {
	s := newTestSysfs(t, "12", "100")
	fake := &fakeSession{}
	l := newTestLogind(s, fake)

	lvl, err := l.Open()
	require.NoError(t, err)

	cur, err := lvl.Read()
	require.NoError(t, err)
	assert.Equal(t, 12, cur)

	require.NoError(t, lvl.Write(40))
	require.NoError(t, lvl.Close())

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []interface{}{setBrightness, "leds", DefaultDevice, uint32(40)}, fake.calls[0])
	assert.True(t, fake.closed)

	// logind owns the write; the file itself is untouched
	data, err := afero.ReadFile(s.Fs, s.Path())
	require.NoError(t, err)
	assert.Equal(t, "12", string(data))
}

func TestLogind_CallFails(t *testing.T) {
	s := newTestSysfs(t, "12", "100")
	fake := &fakeSession{err: errors.New("access denied")}
	l := newTestLogind(s, fake)

	lvl, err := l.Open()
	require.NoError(t, err)
	defer lvl.Close()

	err = lvl.Write(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestLogind_MissingDevice(t *testing.T) {
	s := newTestSysfs(t, "", "100")
	l := newTestLogind(s, &fakeSession{})

	_, err := l.Open()
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, s.Path(), rerr.Path)
}

func TestLogind_NoBus(t *testing.T) {
	s := newTestSysfs(t, "1", "100")
	l := NewLogind(s)
	l.session = func() (caller, io.Closer, error) {
		return nil, nil, errors.New("no bus")
	}

	_, err := l.Open()
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, logindSession, rerr.Path)
}
