package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fentz26/hartsched/internal/sim"
	"github.com/fentz26/hartsched/internal/store"
	"github.com/fentz26/hartsched/internal/trace"
	"github.com/fentz26/hartsched/internal/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated workload over the dispatcher",
	RunE:  runRun,
}

var (
	runHarts    int
	runTasks    int
	runPolicy   string
	runSlice    int
	runWork     int
	runCancel   int
	runSeed     int64
	runInterval time.Duration
	runDBPath   string
	runTUI      bool
)

func init() {
	runCmd.Flags().IntVar(&runHarts, "harts", 4, "Number of harts")
	runCmd.Flags().IntVar(&runTasks, "tasks", 64, "Total tasks to seed")
	runCmd.Flags().StringVar(&runPolicy, "policy", sim.PolicyFIFO, "Per-hart policy (fifo, rr, fair)")
	runCmd.Flags().IntVar(&runSlice, "slice", 5, "Round-robin time slice in ticks")
	runCmd.Flags().IntVar(&runWork, "work", 8, "Ticks of work per task")
	runCmd.Flags().IntVar(&runCancel, "cancel", 0, "Tasks each hart cancels after seeding")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "RNG seed for fair-policy nice values")
	runCmd.Flags().DurationVar(&runInterval, "tick", 0, "Delay per tick (e.g. 5ms), slows the run down")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "Record a trace to this SQLite database")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show a live monitor while the workload drains")
}

func runRun(cmd *cobra.Command, args []string) error {
	var rec trace.Recorder = trace.Nop{}
	if runDBPath != "" {
		s, err := store.New(runDBPath)
		if err != nil {
			return fmt.Errorf("open trace store: %w", err)
		}
		defer s.Close()
		rec = trace.NewStoreRecorder(s)
	}

	cfg := &sim.Config{
		Harts:        runHarts,
		Tasks:        runTasks,
		Policy:       runPolicy,
		TimeSlice:    runSlice,
		WorkTicks:    runWork,
		Cancel:       runCancel,
		TickInterval: runInterval,
		Seed:         runSeed,
	}

	s, err := sim.New(cfg, rec)
	if err != nil {
		return err
	}

	start := time.Now()
	if runTUI {
		s.Start()
		if err := tui.Run(s); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
		s.Wait()
	} else {
		log.Printf("Running %d tasks on %d harts (%s policy)", cfg.Tasks, cfg.Harts, cfg.Policy)
		s.Run()
	}
	elapsed := time.Since(start)

	printStats(s, elapsed)
	return nil
}

func printStats(s *sim.Sim, elapsed time.Duration) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HART\tSEEDED\tCANCELED\tPICKED\tSTOLEN\tIDLE\tREQUEUES\tCOMPLETED")
	var total sim.HartStats
	for i, h := range s.Stats() {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			i, h.Seeded, h.Canceled, h.Picked, h.Stolen, h.Idle, h.Requeues, h.Completed)
		total.Seeded += h.Seeded
		total.Canceled += h.Canceled
		total.Picked += h.Picked
		total.Stolen += h.Stolen
		total.Idle += h.Idle
		total.Requeues += h.Requeues
		total.Completed += h.Completed
	}
	fmt.Fprintf(w, "all\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		total.Seeded, total.Canceled, total.Picked, total.Stolen, total.Idle, total.Requeues, total.Completed)
	w.Flush()
	fmt.Printf("Drained in %s\n", elapsed.Round(time.Millisecond))
}
