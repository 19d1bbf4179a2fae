package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	s "github.com/bnclabs/gosettings"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avinwick/tsalloc/alloc"
)

var (
	churnVariant  string
	churnWorkers  int
	churnOps      int
	churnMaxSize  int
	churnSeed     int64
	churnCapacity int64
)

func init() {
	cmd := newChurnCmd()
	cmd.Flags().StringVar(&churnVariant, "variant", "locked", "Allocator variant: locked or partitioned")
	cmd.Flags().IntVar(&churnWorkers, "workers", 8, "Number of concurrent workers")
	cmd.Flags().IntVar(&churnOps, "ops", 1_000_000, "Operations per worker")
	cmd.Flags().IntVar(&churnMaxSize, "max-size", 256, "Maximum allocation size in bytes")
	cmd.Flags().Int64Var(&churnSeed, "seed", 42, "Base RNG seed")
	cmd.Flags().Int64Var(&churnCapacity, "capacity", alloc.DefaultCapacity, "Heap reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newChurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "churn",
		Short: "Run an interleaved alloc/free workload",
		Long: `The churn command runs workers that continuously allocate and
release blocks of random sizes, then prints wall time, throughput and
the allocator's internal counters.

Example:
  allocstress churn --variant locked --workers 8 --ops 1000000
  allocstress churn --variant partitioned --workers 16 --max-size 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChurn()
		},
	}
}

func runChurn() error {
	setts := s.Settings{"arena.capacity": churnCapacity}

	handles := make([]alloc.Allocator, churnWorkers)
	var stats func() alloc.Stats
	var closer func() error

	switch churnVariant {
	case "locked":
		la, err := alloc.NewLocked(setts)
		if err != nil {
			return err
		}
		for i := range handles {
			handles[i] = la
		}
		stats, closer = la.Stats, la.Close
	case "partitioned":
		pa, err := alloc.NewPartitioned(setts)
		if err != nil {
			return err
		}
		for i := range handles {
			handles[i] = pa.Owner(alloc.Owner(i))
		}
		stats, closer = pa.Stats, pa.Close
	default:
		return fmt.Errorf("unknown variant %q (want locked or partitioned)", churnVariant)
	}
	defer closer()

	log.Debug("starting churn",
		"variant", churnVariant, "workers", churnWorkers, "ops", churnOps)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(churnWorkers)
	for n := 0; n < churnWorkers; n++ {
		go func(n int) {
			defer wg.Done()
			worker(handles[n], churnSeed+int64(n))
		}(n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	totalOps := int64(churnWorkers) * int64(churnOps)
	p := message.NewPrinter(language.English)
	p.Printf("%s: %d workers, %d ops in %v (%s ops/sec)\n",
		churnVariant, churnWorkers, totalOps, elapsed.Round(time.Millisecond),
		humanize.Comma(int64(float64(totalOps)/elapsed.Seconds())))
	fmt.Println(stats())
	return nil
}

// worker keeps roughly a thousand blocks live, releasing a random one
// whenever the window is full.
func worker(a alloc.Allocator, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	live := make([]alloc.Ref, 0, 1024)

	for i := 0; i < churnOps; i++ {
		if len(live) < cap(live) && rng.Intn(3) != 0 {
			ref, err := a.Alloc(uint64(1 + rng.Intn(churnMaxSize)))
			if err != nil {
				log.Debug("alloc failed", "err", err)
				continue
			}
			live = append(live, ref)
		} else if len(live) > 0 {
			idx := rng.Intn(len(live))
			a.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	for _, ref := range live {
		a.Free(ref)
	}
}
