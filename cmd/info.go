package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// CreateInfoCmd creates the info command.
func CreateInfoCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "info <device>",
		Short: "Show the capabilities and formats of a device",
		Long: "Opens one device for the selected buffer type and prints its capabilities, " +
			"format catalog, and frame sizes. Fails when the device cannot serve the buffer type.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := setup(cmd, &opts)
			if err != nil {
				return err
			}
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			dev, err := v4l2.Open(path, bt, deviceOpenOptions()...)
			if err != nil {
				return err
			}
			defer dev.Close()

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), devices.NewReport(dev, "", time.Now()))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dev.String())
			return err
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}
