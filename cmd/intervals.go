package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

type intervalJSON struct {
	Kind   string  `json:"kind"`
	Min    string  `json:"min"`
	Max    string  `json:"max"`
	Step   string  `json:"step,omitempty"`
	MaxFPS float64 `json:"max_fps"`
	MinFPS float64 `json:"min_fps"`
}

// CreateIntervalsCmd creates the intervals command.
func CreateIntervalsCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "intervals <device> <fourcc> <WIDTHxHEIGHT>",
		Short: "List frame intervals for a format and frame size",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := setup(cmd, &opts)
			if err != nil {
				return err
			}
			fourcc, err := v4l2.ParseFourCC(args[1])
			if err != nil {
				return err
			}
			size, err := v4l2.ParseResolution(args[2])
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

			intervals, err := dev.FrameIntervals(fourcc, size.Width, size.Height)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				rows := make([]intervalJSON, 0, len(intervals))
				for _, iv := range intervals {
					row := intervalJSON{
						Kind:   iv.Kind().String(),
						Min:    iv.Min().String(),
						Max:    iv.Max().String(),
						MaxFPS: iv.Min().FPS(),
						MinFPS: iv.Max().FPS(),
					}
					if iv.Kind() == v4l2.FrameSizeStepwise {
						row.Step = iv.Step().String()
					}
					rows = append(rows, row)
				}
				return writeJSON(out, rows)
			}

			if len(intervals) == 0 {
				fmt.Fprintf(out, "%s %s: no frame intervals reported\n", fourcc, size)
				return nil
			}
			for _, iv := range intervals {
				fmt.Fprintln(out, iv.String())
			}
			return nil
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}
