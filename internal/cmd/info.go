package cmd

import (
	"fmt"

	"github.com/hoppxi/kbdlight/pkg/kbdinfo"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the keyboard backlight state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (use json or yaml)", format)
			}

			maxLevel := kbdinfo.MaxLevel(a.sysfs, a.cfg.DefaultMax, a.log)
			info, err := kbdinfo.GetKeyboardInfo(a.sysfs, maxLevel, a.cfg.Backend)
			if err != nil {
				return fmt.Errorf("failed to read keyboard backlight: %w", err)
			}

			var out []byte
			if format == "yaml" {
				out, err = info.YAML()
			} else {
				out, err = info.JSON()
				out = append(out, '\n')
			}
			if err != nil {
				return err
			}

			_, err = a.stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	return cmd
}
