package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	storepkg "github.com/guidscan/guidscan/internal/catalog"
	"github.com/guidscan/guidscan/internal/cli/helpers"
	xerrors "github.com/guidscan/guidscan/internal/errors"
)

// NewEnumCmd creates the enum command.
func NewEnumCmd() *cobra.Command {
	var (
		format      string
		catalogPath string
		limit       int
	)

	names := make([]string, len(storepkg.Categories))
	for i, c := range storepkg.Categories {
		names[i] = string(c)
	}

	cmd := &cobra.Command{
		Use:   "enum <category>",
		Short: "Enumerate one catalog category",
		Long: `Enumerate the registrations of one catalog category in key order.

Categories: ` + strings.Join(names, ", ") + `

Examples:
  guidscan enum clsid
  guidscan enum interface --limit 20 --format csv`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supportedFormats()); err != nil {
				return err
			}

			category, err := storepkg.ParseCategory(args[0])
			if err != nil {
				return err
			}

			cat, err := openCatalog(cmd, catalogPath)
			if err != nil {
				return err
			}
			defer xerrors.DeferClose(helpers.NewLogger(cmd), cat, "closing catalog")

			entries, err := cat.Enum(category, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no registrations\n", category)
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
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum registrations to list (0 = all)")

	return cmd
}
