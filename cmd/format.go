package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// CreateFormatCmd creates the format command.
func CreateFormatCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "format <device> [WIDTHxHEIGHT [fourcc]]",
		Short: "Show or set the image format",
		Long: "Without a size, prints the current image format. With a size, and optionally a " +
			"pixel format, asks the driver for it and prints the format it chose. The pixel " +
			"format defaults to the current one.",
		Args: cobra.RangeArgs(1, 3),
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

			f, err := dev.Format()
			if err != nil {
				return err
			}

			if len(args) > 1 {
				size, err := v4l2.ParseResolution(args[1])
				if err != nil {
					return err
				}
				fourcc := f.FourCC
				if len(args) == 3 {
					if fourcc, err = v4l2.ParseFourCC(args[2]); err != nil {
						return err
					}
				}
				if f, err = dev.SetFormat(size.Width, size.Height, fourcc); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				return writeJSON(out, map[string]any{
					"width":          f.Width,
					"height":         f.Height,
					"fourcc":         f.FourCC.String(),
					"bytes_per_line": f.BytesPerLine,
					"size_image":     f.SizeImage,
				})
			}
			_, err = fmt.Fprintf(out, "%s: %s\n", path, f)
			return err
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}
