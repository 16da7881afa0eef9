package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bettercorq/internal/availability"
	"bettercorq/internal/domain"
	"bettercorq/internal/repository/memory"
	"bettercorq/internal/services"
)

var (
	matchSources   []string
	matchTolerance int
	matchDays      string
	matchFormat    string
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Print the events that fit the stored free time",
		Long: "Loads events from the given sources (EVENT_SOURCES by default) for the current week " +
			"and prints those overlapping the stored free intervals. The stored catalog is not modified.",
		Args: cobra.NoArgs,
		RunE: runMatchCmd,
	}
	cmd.Flags().StringSliceVar(&matchSources, "events", nil, "event file or ICS URL (repeatable)")
	cmd.Flags().IntVar(&matchTolerance, "tolerance", -1, "tolerance in minutes (default MATCH_TOLERANCE_MINUTES)")
	cmd.Flags().StringVar(&matchDays, "days", "", "comma separated weekdays, e.g. Mon,Tue")
	cmd.Flags().StringVar(&matchFormat, "format", "table", "output format: table or json")
	return cmd
}

func runMatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	specs := matchSources
	if len(specs) == 0 {
		specs = cfg.EventSources
	}
	if len(specs) == 0 {
		return fmt.Errorf("no event sources: pass --events or set EVENT_SOURCES")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger, specs)
	if err != nil {
		return err
	}
	defer func() { _ = a.stores.close() }()

	gridCfg, err := cfg.Grid()
	if err != nil {
		return err
	}
	events := services.NewEventService(memory.NewStore(), a.sources, a.stores.records, a.availability, gridCfg, cfg.MatchTolerance, logger, cfg.ContextTimeout)
	if _, err := events.RefreshCatalog(ctx); err != nil {
		return err
	}

	q, err := matchQuery(cmd.Flags().Changed("tolerance"), matchTolerance, matchDays)
	if err != nil {
		return err
	}
	matched, err := events.MatchedEvents(ctx, q)
	if err != nil {
		return err
	}
	return writeEvents(cmd.OutOrStdout(), matched, matchFormat, gridCfg.Location)
}

func matchQuery(toleranceSet bool, tolerance int, days string) (domain.MatchQuery, error) {
	var q domain.MatchQuery
	if toleranceSet {
		q.ToleranceMinutes = &tolerance
	}
	for _, name := range strings.Split(days, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		wd, err := availability.ParseWeekday(name)
		if err != nil {
			return q, err
		}
		q.Weekdays = append(q.Weekdays, wd)
	}
	return q, nil
}

func writeEvents(w io.Writer, events []domain.CandidateEvent, format string, loc *time.Location) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DAY\tSTART\tEND\tNAME\tLOCATION\tORGANIZATION")
		for _, ev := range events {
			start, end := ev.Start.In(loc), ev.End.In(loc)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				start.Format("Mon 2006-01-02"), start.Format("15:04"), end.Format("15:04"),
				ev.Name, ev.Location, ev.Organization)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q", format)
}
