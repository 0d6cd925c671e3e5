package cli

import (
	"github.com/spf13/cobra"

	catalogcmd "github.com/guidscan/guidscan/internal/cli/catalog"
	"github.com/guidscan/guidscan/internal/cli/newcmd"
	"github.com/guidscan/guidscan/internal/cli/parse"
	scancmd "github.com/guidscan/guidscan/internal/cli/scan"
	"github.com/guidscan/guidscan/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "guidscan",
	Short: "guidscan - find structured identifiers in files and trees",
	Long: `Find, parse, and catalog 128-bit structured identifiers (GUIDs).

guidscan streams files in chunks, matching the textual braced and dashed
forms and, optionally, the raw 16-byte in-memory layout via a variant-bit
heuristic. Findings are deduplicated across the whole walk and can be
cross-referenced against a local registration catalog.

Common workflows:
- guidscan parse: decode one identifier into all of its forms
- guidscan scan: sweep a file or tree and list what it contains
- guidscan find/enum: query the registration catalog
- guidscan catalog import: load a registration snapshot`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(parse.NewParseCmd())
	rootCmd.AddCommand(newcmd.NewNewCmd())
	rootCmd.AddCommand(scancmd.NewScanCmd())
	rootCmd.AddCommand(catalogcmd.NewFindCmd())
	rootCmd.AddCommand(catalogcmd.NewEnumCmd())
	rootCmd.AddCommand(catalogcmd.NewCatalogCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("guidscan version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
