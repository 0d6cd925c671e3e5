package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guidscan/guidscan/internal/cli/helpers"
	xerrors "github.com/guidscan/guidscan/internal/errors"
	"github.com/guidscan/guidscan/internal/guid"
)

// NewFindCmd creates the find command.
func NewFindCmd() *cobra.Command {
	var (
		format      string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "find <identifier>",
		Short: "Look up an identifier in the catalog",
		Long: `Look up an identifier across every catalog category.

Examples:
  guidscan find '{6F9619FF-8B86-D011-B42D-00C04FC964FF}'
  guidscan find 6f9619ff-8b86-d011-b42d-00c04fc964ff --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supportedFormats()); err != nil {
				return err
			}

			g, err := guid.Parse(args[0])
			if err != nil {
				return err
			}

			cat, err := openCatalog(cmd, catalogPath)
			if err != nil {
				return err
			}
			defer xerrors.DeferClose(helpers.NewLogger(cmd), cat, "closing catalog")

			entries, err := cat.Lookup(g)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no catalog entries\n", g.Braced())
				return nil
			}

			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			return formatter.Format(toRows(entries), cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, supportedFormats())
	helpers.AddCatalogFlag(cmd, &catalogPath)

	return cmd
}

func supportedFormats() []helpers.OutputFormat {
	return []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON, helpers.FormatCSV}
}
