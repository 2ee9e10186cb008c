package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fentz26/hartsched/internal/store"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Inspect a recorded dispatch trace",
}

var traceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded dispatch events",
	RunE:  runTraceList,
}

var traceSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show event counts per action",
	RunE:  runTraceSummary,
}

var (
	traceDBPath string
	traceAction string
	traceLimit  int
)

func init() {
	traceCmd.AddCommand(traceListCmd, traceSummaryCmd)

	traceCmd.PersistentFlags().StringVar(&traceDBPath, "db", "", "Trace SQLite database (required)")
	traceCmd.MarkPersistentFlagRequired("db")

	traceListCmd.Flags().StringVar(&traceAction, "action", "", "Filter by action (e.g. pick.steal)")
	traceListCmd.Flags().IntVar(&traceLimit, "limit", 100, "Maximum events to show (0 = all)")
}

func runTraceList(cmd *cobra.Command, args []string) error {
	s, err := store.New(traceDBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.ListEvents(traceAction, traceLimit)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tHART\tVICTIM\tTASK\tDETAILS")
	for _, ev := range events {
		victim := "-"
		if ev.Victim >= 0 {
			victim = fmt.Sprintf("%d", ev.Victim)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			ev.Timestamp.Format("15:04:05.000"), ev.Action, ev.Hart, victim, truncateID(ev.TaskID), ev.Details)
	}
	w.Flush()
	return nil
}

func runTraceSummary(cmd *cobra.Command, args []string) error {
	s, err := store.New(traceDBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.CountByAction()
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		fmt.Println("No events found")
		return nil
	}

	actions := make([]string, 0, len(counts))
	for a := range counts {
		actions = append(actions, a)
	}
	sort.Strings(actions)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tCOUNT")
	for _, a := range actions {
		fmt.Fprintf(w, "%s\t%d\n", a, counts[a])
	}
	w.Flush()
	return nil
}

// --- Helpers ---

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
