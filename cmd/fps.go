package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// CreateFPSCmd creates the fps command.
func CreateFPSCmd() *cobra.Command {
	var (
		opts         cliOptions
		highQuality  bool
		extendedMode uint32
		buffers      uint32
	)

	cmd := &cobra.Command{
		Use:   "fps <device> [rate]",
		Short: "Show or set the streaming frame rate",
		Long: "Without a rate, prints the current streaming parameters. With a rate, asks the " +
			"driver for that many frames per second and prints the rate it accepted.",
		Args: cobra.RangeArgs(1, 2),
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

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				rate, err := strconv.ParseUint(args[1], 10, 32)
				if err != nil || rate == 0 {
					return fmt.Errorf("invalid frame rate %q", args[1])
				}
				var parmOpts []v4l2.ParmOption
				if highQuality {
					parmOpts = append(parmOpts, v4l2.WithMode(v4l2.ModeHighQuality))
				}
				if extendedMode != 0 {
					parmOpts = append(parmOpts, v4l2.WithExtendedMode(extendedMode))
				}
				if buffers != 0 {
					parmOpts = append(parmOpts, v4l2.WithBuffers(buffers))
				}
				got, err := dev.SetFrameRate(uint32(rate), parmOpts...)
				if err != nil {
					return err
				}
				if opts.JSON {
					return writeJSON(out, map[string]any{"requested": rate, "fps": got})
				}
				_, err = fmt.Fprintf(out, "%s: %.3f fps\n", path, got)
				return err
			}

			parm, err := dev.StreamParm(bt)
			if err != nil {
				return err
			}
			p := parm.Parm()
			if opts.JSON {
				return writeJSON(out, map[string]any{
					"buffer_type":    bt.String(),
					"time_per_frame": p.TimePerFrame.String(),
					"fps":            p.TimePerFrame.FPS(),
					"mode":           uint32(p.Mode),
					"extended_mode":  p.ExtendedMode,
					"buffers":        p.Buffers,
				})
			}
			_, err = fmt.Fprintf(out, "%s: %s s per frame (%.3f fps)\n", path, p.TimePerFrame, p.TimePerFrame.FPS())
			return err
		},
	}
	addCommonFlags(cmd, &opts)
	f := cmd.Flags()
	f.BoolVar(&highQuality, "high-quality", false, "Request the driver's high quality capture mode")
	f.Uint32Var(&extendedMode, "extended-mode", 0, "Driver specific extended mode")
	f.Uint32Var(&buffers, "buffers", 0, "Read/write buffer count hint")
	return cmd
}
