package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

type controlRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Min     int32  `json:"min"`
	Max     int32  `json:"max"`
	Step    int32  `json:"step"`
	Default int32  `json:"default"`
	Value   *int32 `json:"value,omitempty"`
	Flags   string `json:"flags,omitempty"`
}

// CreateCtrlCmd creates the ctrl command.
func CreateCtrlCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "ctrl <device> [control [value]]",
		Short: "List, read or change device controls",
		Long: "Without a control, lists every control the driver exposes with its current value. " +
			"Controls are named as v4l2-ctl names them (white_balance_automatic, auto_exposure, " +
			"focus_automatic_continuous) or by numeric id. Boolean values accept on/off.",
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

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return listControls(out, dev, opts.JSON)
			}

			id, err := v4l2.ParseControlID(args[1])
			if err != nil {
				return err
			}

			var value int32
			if len(args) == 3 {
				requested, err := parseControlValue(args[2])
				if err != nil {
					return err
				}
				if value, err = dev.SetControl(id, requested); err != nil {
					return err
				}
			} else if value, err = dev.Control(id); err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(out, map[string]any{"id": id.String(), "value": value})
			}
			_, err = fmt.Fprintf(out, "%s: %d\n", id, value)
			return err
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

func listControls(w io.Writer, dev *v4l2.VideoDevice, asJSON bool) error {
	controls, err := dev.Controls()
	if err != nil {
		return err
	}

	rows := make([]controlRow, 0, len(controls))
	for _, c := range controls {
		row := controlRow{
			ID:      c.ID.String(),
			Name:    c.Name,
			Type:    c.Type.String(),
			Min:     c.Min,
			Max:     c.Max,
			Step:    c.Step,
			Default: c.Default,
			Flags:   c.Flags.String(),
		}
		if c.Readable() {
			if v, err := dev.Control(c.ID); err == nil {
				row.Value = &v
			}
		}
		rows = append(rows, row)
	}

	if asJSON {
		return writeJSON(w, rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No controls")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTROL\tTYPE\tMIN\tMAX\tSTEP\tDEFAULT\tVALUE\tFLAGS")
	for _, r := range rows {
		value := "-"
		if r.Value != nil {
			value = strconv.Itoa(int(*r.Value))
		}
		flags := r.Flags
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Type, r.Min, r.Max, r.Step, r.Default, value, flags)
	}
	return tw.Flush()
}

func parseControlValue(s string) (int32, error) {
	switch strings.ToLower(s) {
	case "on", "true":
		return 1, nil
	case "off", "false":
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid control value %q", s)
	}
	return int32(v), nil
}
