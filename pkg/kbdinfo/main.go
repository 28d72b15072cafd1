package kbdinfo

import (
	"encoding/json"
	"log"

	"github.com/hoppxi/kbdlight/pkg/backlight"
	"github.com/hoppxi/kbdlight/pkg/operation"
	"gopkg.in/yaml.v3"
)

type KeyboardInfo struct {
	Device  string `json:"device" yaml:"device"`
	Level   int    `json:"level" yaml:"level"`
	Max     int    `json:"max" yaml:"max"`
	Percent int    `json:"percent" yaml:"percent"`
	Backend string `json:"backend" yaml:"backend"`
}

// MaxLevel reads the device maximum, falling back to def when the
// capability file is missing, unreadable or holds no positive integer.
func MaxLevel(c backlight.Capability, def int, logger *log.Logger) int {
	v, err := c.ReadMax()
	if err == nil && v > 0 {
		return v
	}
	if err == nil {
		logger.Printf("Unable to obtain maximum level from %s: got %d, using %d", c.MaxPath(), v, def)
	} else {
		logger.Printf("Unable to obtain maximum level from %s: %v, using %d", c.MaxPath(), err, def)
	}
	return def
}

func GetKeyboardInfo(s *backlight.Sysfs, maxLevel int, backend string) (*KeyboardInfo, error) {
	level, err := s.ReadLevel()
	if err != nil {
		return nil, err
	}

	return &KeyboardInfo{
		Device:  s.Device,
		Level:   level,
		Max:     maxLevel,
		Percent: operation.Percent(level, maxLevel),
		Backend: backend,
	}, nil
}

func (i *KeyboardInfo) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}

func (i *KeyboardInfo) YAML() ([]byte, error) {
	return yaml.Marshal(i)
}
