package action

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

type Action int

const (
	None Action = iota
	Increase
	Decrease
	Set
	Zero
	Maximum
)

func (a Action) String() string {
	switch a {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	case Set:
		return "set"
	case Zero:
		return "zero"
	case Maximum:
		return "maximum"
	default:
		return "none"
	}
}

// Request is the single action selected for a run. Operand is the
// increment for Increase/Decrease and the target level for Set.
type Request struct {
	Action     Action
	Operand    int
	HasOperand bool
}

var (
	ErrHelp            = errors.New("help requested")
	ErrInvalidArgument = errors.New("invalid argument")
)

// errSelected stops the flag scan once an action is chosen.
var errSelected = errors.New("action selected")

var operandActions = map[string]Action{
	"up":   Increase,
	"down": Decrease,
	"set":  Set,
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("kbdlight", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntP("up", "u", 0, "increase brightness by increment")
	fs.IntP("down", "d", 0, "decrease brightness by increment")
	fs.IntP("set", "s", 0, "set brightness to level")
	fs.BoolP("max", "m", false, "set brightness to the maximum")
	fs.BoolP("off", "o", false, "set brightness to 0")
	fs.BoolP("help", "h", false, "show help")
	return fs
}

// Parse scans args in order and returns the first action found. Arguments
// after it are not looked at. Operands must be integers in [0, maxLevel].
// A nil error with Action None means no action flag was given.
func Parse(args []string, maxLevel int) (Request, error) {
	var req Request

	fs := newFlagSet()
	err := fs.ParseAll(args, func(flag *pflag.Flag, value string) error {
		if a, ok := operandActions[flag.Name]; ok {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: -%s needs an integer, got %q", ErrInvalidArgument, flag.Shorthand, value)
			}
			if n < 0 || n > maxLevel {
				return fmt.Errorf("%w: -%s %d is outside 0..%d", ErrInvalidArgument, flag.Shorthand, n, maxLevel)
			}
			req = Request{Action: a, Operand: n, HasOperand: true}
			return errSelected
		}

		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: -%s takes no value, got %q", ErrInvalidArgument, flag.Shorthand, value)
		}
		if !on {
			return nil
		}

		switch flag.Name {
		case "help":
			return ErrHelp
		case "max":
			req = Request{Action: Maximum}
		case "off":
			req = Request{Action: Zero}
		}
		return errSelected
	})

	switch {
	case errors.Is(err, errSelected):
		return req, nil
	case errors.Is(err, ErrHelp), errors.Is(err, ErrInvalidArgument):
		return Request{}, err
	case err != nil:
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return req, nil
}

// Usage writes the help text for program to w.
func Usage(w io.Writer, program string, maxLevel int) {
	fmt.Fprintf(w, "Adjusts the keyboard backlight brightness.\n\n")
	fmt.Fprintf(w, "Usage: %s [option]\n", program)
	fmt.Fprintf(w, "       %s info [-f json|yaml]\n\n", program)
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprintf(w, "  -u, --up <n>     Increase brightness by n\n")
	fmt.Fprintf(w, "  -d, --down <n>   Decrease brightness by n\n")
	fmt.Fprintf(w, "  -s, --set <n>    Set brightness to n, between 0 and %d\n", maxLevel)
	fmt.Fprintf(w, "  -m, --max        Set brightness to the maximum (%d)\n", maxLevel)
	fmt.Fprintf(w, "  -o, --off        Set brightness to 0\n")
	fmt.Fprintf(w, "  -h, --help       Show this message\n\n")
	fmt.Fprintf(w, "Only the first option is used.\n\n")
	fmt.Fprintf(w, "Examples:\n")
	fmt.Fprintf(w, "  %s -u 5\n", program)
	fmt.Fprintf(w, "  %s -d 10\n", program)
	fmt.Fprintf(w, "  %s -s %d\n", program, maxLevel)
	fmt.Fprintf(w, "  %s -m\n", program)
	fmt.Fprintf(w, "  %s -o\n", program)
}
