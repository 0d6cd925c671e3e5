// Package scan implements the scan command: walk a file or directory
// tree and report every structured identifier found.
package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	catalogstore "github.com/guidscan/guidscan/internal/catalog"
	"github.com/guidscan/guidscan/internal/cli/helpers"
	"github.com/guidscan/guidscan/internal/config"
	xerrors "github.com/guidscan/guidscan/internal/errors"
	"github.com/guidscan/guidscan/internal/guid"
	"github.com/guidscan/guidscan/internal/scan"
)

// report is the JSON rendering of a finished scan.
type report struct {
	Stats   scan.Stats                      `json:"stats"`
	Unique  []guid.GUID                     `json:"unique"`
	Catalog map[string][]catalogstore.Entry `json:"catalog,omitempty"`
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	var (
		recursive bool
		text      bool
		binary    bool
		strict    bool
		locations bool
		crossRef  bool
		workers   int
		chunkSize int
		overlap   int
		format    string
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a file or directory tree for identifiers",
		Long: `Scan a file or directory tree for structured identifiers.

Textual matching finds the braced and dashed forms; binary matching
(--binary) additionally inspects every 16-byte window for the raw
in-memory layout, using the tail marker bits as a heuristic. --strict
narrows binary matching to windows whose version nibble is also
plausible.

Symbolic links are never followed. Unreadable files are skipped and
counted, not fatal.

Examples:
  guidscan scan ./build --recursive
  guidscan scan firmware.bin --binary --strict --locations
  guidscan scan ./dist -r --catalog --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON}); err != nil {
				return err
			}

			logger := helpers.NewLogger(cmd)
			loader := config.NewLoader()
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			// Flags left at zero fall back to the persisted defaults.
			if chunkSize == 0 {
				chunkSize = cfg.Scan.ChunkSize
			}
			if overlap == 0 {
				overlap = cfg.Scan.Overlap
			}
			if workers == 0 {
				workers = cfg.Scan.Workers
			}

			opts := scan.Options{
				Recursive: recursive,
				Text:      text,
				Binary:    binary || strict,
				Strict:    strict,
				Locations: locations,
				ChunkSize: chunkSize,
				Overlap:   overlap,
				Workers:   workers,
				Logger:    logger,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			asJSON := helpers.OutputFormat(format) == helpers.FormatJSON
			enc := json.NewEncoder(cmd.OutOrStdout())

			session := scan.NewSession(opts)
			matches := session.Start(ctx, args[0])
			for m := range matches {
				if asJSON {
					if err := enc.Encode(m); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %12d  %-13s %s\n", m.ID.Braced(), m.Offset, m.Kind, m.Path)
			}

			summary, err := session.Wait()
			if err != nil {
				return err
			}

			unique := slices.SortedFunc(summary.Unique(), func(a, b guid.GUID) int {
				return strings.Compare(a.String(), b.String())
			})

			var registrations map[string][]catalogstore.Entry
			if crossRef {
				registrations = lookupAll(loader, cfg, logger, unique)
			}

			if asJSON {
				return enc.Encode(report{
					Stats:   summary.Stats,
					Unique:  unique,
					Catalog: registrations,
				})
			}

			printSummary(cmd, summary, unique, registrations)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&text, "text", true, "Match textual forms")
	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "Match the raw 16-byte layout heuristically")
	cmd.Flags().BoolVar(&strict, "strict", false, "Binary matching also requires a plausible version nibble (implies --binary)")
	cmd.Flags().BoolVarP(&locations, "locations", "l", false, "Report every match with its file offset")
	cmd.Flags().BoolVarP(&crossRef, "catalog", "c", false, "Cross-reference unique identifiers against the catalog")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent file scanners (0 = configured default)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Read chunk size in bytes (0 = configured default)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "Chunk overlap in bytes (0 = configured default)")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable,
		[]helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON})

	return cmd
}

// lookupAll cross-references each unique identifier against the catalog,
// keyed by braced form. Lookup failures are warnings, not fatal: an
// identifier that cannot be resolved is simply reported unannotated.
func lookupAll(loader *config.Loader, cfg *config.Config, logger zerolog.Logger, unique []guid.GUID) map[string][]catalogstore.Entry {
	cat, err := catalogstore.Open(loader.CatalogPath(cfg), logger)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog unavailable, skipping cross-reference")
		return nil
	}
	defer xerrors.DeferClose(logger, cat, "closing catalog")

	out := make(map[string][]catalogstore.Entry)
	for _, g := range unique {
		entries, err := cat.Lookup(g)
		if err != nil {
			logger.Warn().Err(err).Str("guid", g.Braced()).Msg("catalog lookup failed")
			continue
		}
		if len(entries) > 0 {
			out[g.Braced()] = entries
		}
	}
	return out
}

func printSummary(cmd *cobra.Command, summary *scan.Summary, unique []guid.GUID, registrations map[string][]catalogstore.Entry) {
	out := cmd.OutOrStdout()
	st := summary.Stats
	fmt.Fprintf(out, "files scanned : %d\n", st.FilesScanned)
	fmt.Fprintf(out, "files skipped : %d\n", st.FilesSkipped)
	fmt.Fprintf(out, "bytes scanned : %d\n", st.BytesScanned)
	fmt.Fprintf(out, "text hits     : %d\n", st.TextHits)
	fmt.Fprintf(out, "binary hits   : %d\n", st.BinaryHits)
	fmt.Fprintf(out, "duplicates    : %d\n", st.DuplicateFiles)
	fmt.Fprintf(out, "unique        : %d\n", summary.UniqueCount())

	for _, g := range unique {
		fmt.Fprintln(out, g.Braced())
		for _, e := range registrations[g.Braced()] {
			fmt.Fprintf(out, "    %-9s %s", e.Category, e.Record.Name)
			if e.Record.Server != "" {
				fmt.Fprintf(out, "  (%s)", e.Record.Server)
			}
			fmt.Fprintln(out)
		}
	}
}
