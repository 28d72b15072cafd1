package kbdinfo

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"

	"github.com/hoppxi/kbdlight/pkg/backlight"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newSysfs(t *testing.T, files map[string]string) *backlight.Sysfs {
	t.Helper()
	s := &backlight.Sysfs{Fs: afero.NewMemMapFs(), Root: backlight.DefaultLedsDir, Device: backlight.DefaultDevice}
	for name, content := range files {
		path := s.Path()
		if name == "max_brightness" {
			path = s.MaxPath()
		}
		require.NoError(t, afero.WriteFile(s.Fs, path, []byte(content), 0o644))
	}
	return s
}

func TestMaxLevel(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	s := newSysfs(t, map[string]string{"max_brightness": "3\n"})
	assert.Equal(t, 3, MaxLevel(s, 100, logger))
	assert.Empty(t, logs.String())
}

func TestMaxLevel_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"missing", nil, "file does not exist"},
		{"garbage", map[string]string{"max_brightness": "n/a"}, "invalid level"},
		{"zero", map[string]string{"max_brightness": "0"}, "got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			s := newSysfs(t, tt.files)

			assert.Equal(t, 100, MaxLevel(s, 100, log.New(&logs, "", 0)))
			assert.Contains(t, logs.String(), "Unable to obtain maximum level from "+s.MaxPath())
			assert.Contains(t, logs.String(), tt.want)
		})
	}
}

func TestGetKeyboardInfo(t *testing.T) {
	s := newSysfs(t, map[string]string{"brightness": "1\n"})

	info, err := GetKeyboardInfo(s, 3, "sysfs")
	require.NoError(t, err)
	assert.Equal(t, &KeyboardInfo{Device: backlight.DefaultDevice, Level: 1, Max: 3, Percent: 33, Backend: "sysfs"}, info)

	data, err := info.JSON()
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, float64(33), fromJSON["percent"])

	data, err = info.YAML()
	require.NoError(t, err)
	var fromYAML KeyboardInfo
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, *info, fromYAML)
}

func TestGetKeyboardInfo_Missing(t *testing.T) {
	s := newSysfs(t, nil)
	_, err := GetKeyboardInfo(s, 100, "sysfs")
	assert.Error(t, err)
}
