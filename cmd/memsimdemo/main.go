// Command memsimdemo builds a memsim.Controller from command-line
// flags, drives it with a synthetic address stream, and prints a
// statistics summary. It is an illustrative driver over the public
// memsim API, not part of the library itself.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim"
	"github.com/sarchlab/memsim/internal/tracer"
)

var (
	technology string
	fidelity   string
	speedMTs   int
	numReqs    int
	traceDB    string
)

var rootCmd = &cobra.Command{
	Use:   "memsimdemo",
	Short: "Drive a memsim.Controller with a synthetic request stream and report statistics.",
	Run:   run,
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("memsimdemo: no .env file loaded: %v", err)
	}

	defaultTraceDB := os.Getenv("MEMSIM_TRACE_DB")

	rootCmd.Flags().StringVar(&technology, "technology", "LPDDR5", "memory technology (DDR5, LPDDR5, LPDDR5X, LPDDR6, HBM3, HBM3E, HBM4, GDDR6, GDDR7, IDEAL)")
	rootCmd.Flags().StringVar(&fidelity, "fidelity", "CYCLE_ACCURATE", "simulation fidelity (BEHAVIORAL, TRANSACTIONAL, CYCLE_ACCURATE)")
	rootCmd.Flags().IntVar(&speedMTs, "speed", 6400, "speed grade in MT/s")
	rootCmd.Flags().IntVar(&numReqs, "requests", 1000, "number of synthetic requests to submit")
	rootCmd.Flags().StringVar(&traceDB, "trace-db", defaultTraceDB, "optional path to a SQLite trace database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	tech, err := parseTechnology(technology)
	if err != nil {
		log.Fatalf("memsimdemo: %v", err)
	}

	fid, err := parseFidelity(fidelity)
	if err != nil {
		log.Fatalf("memsimdemo: %v", err)
	}

	b := memsim.MakeBuilder().
		WithTechnology(tech, speedMTs).
		WithFidelity(fid).
		WithStatistics(true).
		WithInvariants(true)

	if traceDB != "" {
		sink, err := tracer.NewSQLiteSink(traceDB)
		if err != nil {
			log.Fatalf("memsimdemo: opening trace database: %v", err)
		}

		b = b.WithTraceSink(sink)
	}

	ctrl, err := b.Build()
	if err != nil {
		log.Fatalf("memsimdemo: building controller: %v", err)
	}

	fmt.Printf("Controller: %s-%d @ %s\n", technology, speedMTs, fid)
	fmt.Printf("Submitting %d synthetic requests...\n\n", numReqs)

	rng := rand.New(rand.NewSource(1))

	for i := 0; i < numReqs; i++ {
		addr := rng.Uint64() % (1 << 24)
		typ := memsim.Read
		if rng.Intn(4) == 0 {
			typ = memsim.Write
		}

		req := memsim.NewRequest(addr, 64, typ, memsim.PriorityNormal, nil)

		for {
			_, err := ctrl.Submit(req)
			if err == nil {
				break
			}

			if _, ok := err.(*memsim.QueueFullError); ok {
				ctrl.Tick()
				continue
			}

			log.Fatalf("memsimdemo: submit: %v", err)
		}
	}

	ctrl.Drain()

	printStats(ctrl.Statistics())

	if v := ctrl.Violations(); len(v) > 0 {
		fmt.Printf("\n%d timing violations recorded\n", len(v))
	}
}

func printStats(s memsim.Statistics) {
	fmt.Println("--- Statistics ---")
	fmt.Printf("Total requests: %d\n", s.TotalRequests())
	fmt.Printf("  Reads:  %d\n", s.Reads)
	fmt.Printf("  Writes: %d\n", s.Writes)
	fmt.Printf("Avg read latency:  %.2f cycles\n", s.AvgReadLatency())
	fmt.Printf("Avg write latency: %.2f cycles\n", s.AvgWriteLatency())
	fmt.Printf("Page hit rate:     %.2f%%\n", s.PageHitRate()*100)
	fmt.Printf("Page conflict rate: %.2f%%\n", s.PageConflictRate()*100)
	fmt.Printf("Refreshes issued:  %d\n", s.RefreshCount)
}

func parseTechnology(s string) (memsim.Technology, error) {
	switch s {
	case "DDR5":
		return memsim.DDR5, nil
	case "LPDDR5":
		return memsim.LPDDR5, nil
	case "LPDDR5X":
		return memsim.LPDDR5X, nil
	case "LPDDR6":
		return memsim.LPDDR6, nil
	case "HBM3":
		return memsim.HBM3, nil
	case "HBM3E":
		return memsim.HBM3E, nil
	case "HBM4":
		return memsim.HBM4, nil
	case "GDDR6":
		return memsim.GDDR6, nil
	case "GDDR7":
		return memsim.GDDR7, nil
	case "IDEAL":
		return memsim.IDEAL, nil
	default:
		return 0, fmt.Errorf("unknown technology %q", s)
	}
}

func parseFidelity(s string) (memsim.Fidelity, error) {
	switch s {
	case "BEHAVIORAL":
		return memsim.Behavioral, nil
	case "TRANSACTIONAL":
		return memsim.Transactional, nil
	case "CYCLE_ACCURATE":
		return memsim.CycleAccurate, nil
	default:
		return 0, fmt.Errorf("unknown fidelity %q", s)
	}
}
