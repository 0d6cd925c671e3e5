// Package parse implements the parse command: decode a textual
// identifier and print every rendering of it.
package parse

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guidscan/guidscan/internal/cli/helpers"
	"github.com/guidscan/guidscan/internal/guid"
)

// forms collects every rendering of one identifier for JSON output.
type forms struct {
	Dashed  string `json:"dashed"`
	Braced  string `json:"braced"`
	Struct  string `json:"struct"`
	Bytes   string `json:"bytes"`
	Variant int    `json:"variant"`
	Version int    `json:"version"`
}

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <identifier>",
		Short: "Parse a textual identifier and print its forms",
		Long: `Parse a textual identifier and print its canonical forms.

Accepts the braced, dashed, and bare 32-hex-digit forms, upper or lower
case.

Examples:
  guidscan parse '{6F9619FF-8B86-D011-B42D-00C04FC964FF}'
  guidscan parse 6f9619ff-8b86-d011-b42d-00c04fc964ff
  guidscan parse 6F9619FF8B86D011B42D00C04FC964FF --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON}); err != nil {
				return err
			}

			g, err := guid.Parse(args[0])
			if err != nil {
				return err
			}

			if helpers.OutputFormat(format) == helpers.FormatJSON {
				f := &helpers.JSONFormatter{}
				return f.Format(forms{
					Dashed:  g.String(),
					Braced:  g.Braced(),
					Struct:  g.StructForm(),
					Bytes:   g.ByteForm(),
					Variant: g.Variant(),
					Version: g.Version(),
				}, cmd.OutOrStdout())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dashed  : %s\n", g.String())
			fmt.Fprintf(out, "braced  : %s\n", g.Braced())
			fmt.Fprintf(out, "struct  : %s\n", g.StructForm())
			fmt.Fprintf(out, "bytes   : %s\n", g.ByteForm())
			fmt.Fprintf(out, "variant : %d\n", g.Variant())
			fmt.Fprintf(out, "version : %d\n", g.Version())
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable,
		[]helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON})

	return cmd
}
