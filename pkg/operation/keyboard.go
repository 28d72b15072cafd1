package operation

import (
	"errors"
	"fmt"
	"log"

	"github.com/hoppxi/kbdlight/pkg/action"
	"github.com/hoppxi/kbdlight/pkg/backlight"
)

var ErrNoAction = errors.New("no action selected")

type Result struct {
	Old int
	New int
}

type KeyboardController struct {
	Log     *log.Logger
	Verbose bool
}

// Clamp bounds level to [0, maxLevel].
func Clamp(level, maxLevel int) int {
	if level > maxLevel {
		return maxLevel
	}
	if level < 0 {
		return 0
	}
	return level
}

// Target computes the clamped level req leads to from current.
func Target(req action.Request, current, maxLevel int) (int, error) {
	var next int
	switch req.Action {
	case action.Increase:
		next = current + req.Operand
	case action.Decrease:
		next = current - req.Operand
	case action.Set:
		next = req.Operand
	case action.Zero:
		next = 0
	case action.Maximum:
		next = maxLevel
	default:
		return 0, ErrNoAction
	}
	return Clamp(next, maxLevel), nil
}

// Apply reads the current level from store, writes the level req asks for
// and reports both. Content that does not parse as a level counts as 0.
func (k *KeyboardController) Apply(store backlight.Store, req action.Request, maxLevel int) (Result, error) {
	if req.Action == action.None {
		return Result{}, ErrNoAction
	}

	lvl, err := store.Open()
	if err != nil {
		return Result{}, err
	}
	defer lvl.Close()

	current, err := lvl.Read()
	if err != nil {
		k.logf("unreadable level in %s, assuming 0: %v", store.Path(), err)
		current = 0
	}

	next, err := Target(req, current, maxLevel)
	if err != nil {
		return Result{}, err
	}
	if k.Verbose {
		k.logf("%s: %s %d -> %d (max %d)", store.Path(), req.Action, current, next, maxLevel)
	}

	if err := lvl.Write(next); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", store.Path(), err)
	}

	return Result{Old: current, New: next}, nil
}

func (k *KeyboardController) logf(format string, args ...any) {
	if k.Log != nil {
		k.Log.Printf(format, args...)
	}
}
