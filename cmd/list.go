package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/internal/devices"
)

// CreateListCmd creates the list command.
func CreateListCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List video devices",
		Long:  "Enumerates /dev/video* nodes and probes each one for the selected buffer type.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt, err := setup(cmd, &opts)
			if err != nil {
				return err
			}
			reports, err := newRegistry(bt).Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), reports)
			}
			return printDeviceTable(cmd.OutOrStdout(), reports)
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

func printDeviceTable(w io.Writer, reports []devices.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No video devices found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tCARD\tDRIVER\tFORMATS\tSTATUS\tPROBED")
	for _, r := range reports {
		status := "ok"
		switch {
		case r.NotCapable:
			status = "not " + r.BufferType
		case !r.OK():
			status = "error: " + r.Error
		}

		fourccs := make([]string, 0, len(r.Formats))
		for _, f := range r.Formats {
			fourccs = append(fourccs, f.FourCC)
		}
		formats := strings.Join(fourccs, ",")
		if formats == "" {
			formats = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path, r.Card, r.Driver, formats, status, humanize.Time(r.ProbedAt))
	}
	return tw.Flush()
}
