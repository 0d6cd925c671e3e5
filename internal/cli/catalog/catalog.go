// Package catalog implements the catalog, find, and enum commands:
// management of and lookups against the registration directory.
package catalog

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	storepkg "github.com/guidscan/guidscan/internal/catalog"
	"github.com/guidscan/guidscan/internal/cli/helpers"
	"github.com/guidscan/guidscan/internal/config"
	xerrors "github.com/guidscan/guidscan/internal/errors"
)

// entryRow flattens a catalog entry for tabular output.
type entryRow struct {
	Category string `json:"category" header:"CATEGORY"`
	GUID     string `json:"guid" header:"GUID"`
	Name     string `json:"name" header:"NAME"`
	Server   string `json:"server,omitempty" header:"SERVER"`
	ProgID   string `json:"progid,omitempty" header:"PROGID"`
}

func toRows(entries []storepkg.Entry) []entryRow {
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		rows[i] = entryRow{
			Category: string(e.Category),
			GUID:     e.GUID.Braced(),
			Name:     e.Record.Name,
			Server:   e.Record.Server,
			ProgID:   e.Record.ProgID,
		}
	}
	return rows
}

// openCatalog resolves the catalog path (flag > env > config) and opens it.
func openCatalog(cmd *cobra.Command, override string) (*storepkg.Catalog, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	path := override
	if path == "" {
		path = loader.CatalogPath(cfg)
	}
	return storepkg.Open(path, helpers.NewLogger(cmd))
}

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the registration catalog",
		Long: `Manage the registration catalog: the local database of known
identifier registrations that find, enum, and scan --catalog read.`,
	}

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newPathCmd())

	return cmd
}

func newImportCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "import <snapshot.yaml>",
		Short: "Import a YAML registration snapshot",
		Long: `Import a YAML registration snapshot into the catalog.

The snapshot maps categories (clsid, interface, typelib, appid) to
identifier keys with registration records:

  clsid:
    "{6F9619FF-8B86-D011-B42D-00C04FC964FF}":
      name: SQLOLEDB
      server: sqloledb.dll

The import is transactional: a malformed snapshot leaves the catalog
untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			logger := helpers.NewLogger(cmd)
			defer xerrors.DeferClose(logger, f, "closing snapshot")

			cat, err := openCatalog(cmd, catalogPath)
			if err != nil {
				return err
			}
			defer xerrors.DeferClose(logger, cat, "closing catalog")

			n, err := cat.Import(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", n)
			return nil
		},
	}

	helpers.AddCatalogFlag(cmd, &catalogPath)

	return cmd
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved catalog database path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.CatalogPath(cfg))
			return nil
		},
	}
}
