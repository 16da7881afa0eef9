package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bettercorq/internal/availability"
	"bettercorq/internal/domain"
)

var encodeGranularity int

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode selected grid cells as intervals",
		Long: `Reads a JSON array of cells ([{"day":"2025-11-10","slot":"08:30"}, ...]) from file or
stdin and prints the maximal free intervals covering them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEncodeCmd,
	}
	cmd.Flags().IntVar(&encodeGranularity, "granularity", 0, "slot length in minutes (default GRID_GRANULARITY_MINUTES)")
	return cmd
}

func runEncodeCmd(cmd *cobra.Command, args []string) error {
	g := domain.Granularity(encodeGranularity)
	if g == 0 {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		g = domain.Granularity(cfg.GridGranularity)
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	skipped, err := encodeCells(in, cmd.OutOrStdout(), g)
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d cells not aligned to %d minutes\n", skipped, int(g))
	}
	return nil
}

// encodeCells reads cells from r and writes their interval encoding to w. Misaligned cells
// are skipped and counted.
func encodeCells(r io.Reader, w io.Writer, g domain.Granularity) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	var cells []domain.GridCoordinate
	if err := json.NewDecoder(r).Decode(&cells); err != nil {
		return 0, fmt.Errorf("failed to decode cells: %w", err)
	}
	set := domain.NewSelectionSet()
	skipped := 0
	for _, c := range cells {
		if !g.Aligned(c.Slot) {
			skipped++
			continue
		}
		set[c] = struct{}{}
	}
	intervals := availability.NewCodec(g).Encode(set)
	if intervals == nil {
		intervals = []domain.Interval{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return skipped, enc.Encode(intervals)
}
