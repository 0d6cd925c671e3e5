// Package newcmd implements the new command: generate fresh random
// identifiers.
package newcmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/guidscan/guidscan/internal/guid"
)

// NewNewCmd creates the new command.
func NewNewCmd() *cobra.Command {
	var (
		count  int
		braced bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate random version-4 identifiers",
		Long: `Generate random version-4 identifiers, one per line.

Examples:
  guidscan new
  guidscan new --count 5 --braced`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			for i := 0; i < count; i++ {
				g, err := guid.Parse(uuid.NewString())
				if err != nil {
					return fmt.Errorf("generate identifier: %w", err)
				}
				if braced {
					fmt.Fprintln(cmd.OutOrStdout(), g.Braced())
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), g.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of identifiers to generate")
	cmd.Flags().BoolVarP(&braced, "braced", "b", false, "Print the braced form")

	return cmd
}
