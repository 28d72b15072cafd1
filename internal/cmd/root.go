package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hoppxi/kbdlight/internal/config"
	"github.com/hoppxi/kbdlight/pkg/action"
	"github.com/hoppxi/kbdlight/pkg/backlight"
	"github.com/hoppxi/kbdlight/pkg/kbdinfo"
	"github.com/hoppxi/kbdlight/pkg/operation"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

// errReported is returned once the user has already been told what went
// wrong; Execute only sets the exit status for it.
var errReported = errors.New("reported")

type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	log    *log.Logger

	loadConfig func() (*config.Config, error)
	notify     func(operation.Result, int) (uint32, error)

	cfg   *config.Config
	sysfs *backlight.Sysfs
	store backlight.Store
}

func newApp(stdout, stderr io.Writer, fs afero.Fs) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		fs:     fs,
		log:    log.New(stderr, "kbdlight: ", 0),
		loadConfig: func() (*config.Config, error) {
			return config.Load(config.New(os.Getenv("KBDLIGHT_CONFIG")))
		},
		notify: operation.Notify.Level,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "kbdlight [-u n | -d n | -s n | -m | -o | -h]",
		Version: Version,
		Short:   "Adjust the keyboard backlight brightness",
		Long: "kbdlight changes the brightness of the keyboard backlight exposed under\n" +
			"/sys/class/leds, clamped to the maximum the hardware reports.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.change(cmd.Root().Name(), args)
		},
	}

	root.AddCommand(newInfoCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.sysfs = &backlight.Sysfs{Fs: a.fs, Root: cfg.LedsDir, Device: cfg.Device}
	switch cfg.Backend {
	case config.BackendLogind:
		a.store = backlight.NewLogind(a.sysfs)
	default:
		a.store = a.sysfs
	}

	if cfg.Verbose {
		if cfg.File != "" {
			a.log.Printf("config: %s", cfg.File)
		}
		a.log.Printf("device %s via %s", a.sysfs.Path(), cfg.Backend)
	}
	return nil
}

func (a *app) change(program string, args []string) error {
	maxLevel := kbdinfo.MaxLevel(a.sysfs, a.cfg.DefaultMax, a.log)

	req, err := action.Parse(args, maxLevel)
	if err != nil {
		if !errors.Is(err, action.ErrHelp) {
			a.log.Println(err)
		}
		action.Usage(a.stdout, program, maxLevel)
		return errReported
	}

	keyboard := &operation.KeyboardController{Log: a.log, Verbose: a.cfg.Verbose}
	res, err := keyboard.Apply(a.store, req, maxLevel)
	if errors.Is(err, operation.ErrNoAction) {
		action.Usage(a.stdout, program, maxLevel)
		return errReported
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Changed level from %d to %d\n", res.Old, res.New)

	if a.cfg.Notify {
		if _, err := a.notify(res, maxLevel); err != nil {
			a.log.Printf("notification not shown: %v", err)
		}
	}
	return nil
}

func (a *app) execute(args []string) int {
	if args == nil {
		args = []string{}
	}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			a.log.Println(err)
		}
		return 1
	}
	return 0
}

func Execute() {
	a := newApp(os.Stdout, os.Stderr, afero.NewOsFs())
	os.Exit(a.execute(os.Args[1:]))
}
