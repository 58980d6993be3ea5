// Command nblfqbench drives nblfq's OwningQueue under configurable
// producer/consumer concurrency, checks (outside force-push mode) that
// the number of values popped equals the number pushed, reports
// throughput, and renders a chart
// comparing it against the internal/baseline comparison queue.
package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/gsingh-ds/go-nblfq"
	"github.com/gsingh-ds/go-nblfq/internal/baseline"
)

var cli struct {
	Capacity    int    `help:"Ring capacity." default:"1024"`
	Producers   int    `help:"Number of producer goroutines." default:"4"`
	Consumers   int    `help:"Number of consumer goroutines." default:"4"`
	PerProducer int    `help:"Items pushed by each producer." default:"100000"`
	ForcePush   bool   `help:"Use ForcePush instead of Push."`
	Chart       string `help:"Path to write the comparison chart HTML to." default:"nblfqbench.html"`
}

func main() {
	kong.Parse(&cli)

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "cmd", "nblfqbench")

	nblfqRate, err := runNblfq(logger)
	if err != nil {
		level.Error(logger).Log("msg", "nblfq run failed", "err", err)
		os.Exit(1)
	}
	baselineRate := runBaseline(logger)

	level.Info(logger).Log(
		"msg", "run complete",
		"nblfq_ops_per_sec", fmt.Sprintf("%.0f", nblfqRate),
		"baseline_ops_per_sec", fmt.Sprintf("%.0f", baselineRate),
	)

	if err := renderChart(cli.Chart, nblfqRate, baselineRate); err != nil {
		level.Error(logger).Log("msg", "failed to render chart", "err", err)
		os.Exit(1)
	}
}

// runNblfq drives an OwningQueue with cli.Producers producers and
// cli.Consumers consumers, each producer pushing cli.PerProducer
// sequential values, and returns the measured throughput in ops/sec.
// It fails loudly (non-zero exit, via the returned error) if the total
// popped count does not match the total pushed count.
func runNblfq(logger log.Logger) (float64, error) {
	q := nblfq.NewOwningQueue[uint64](cli.Capacity)

	total := uint64(cli.Producers) * uint64(cli.PerProducer)
	var popped uint64

	var producersWG, consumersWG sync.WaitGroup
	done := make(chan struct{})
	start := time.Now()

	producersWG.Add(cli.Producers)
	for p := 0; p < cli.Producers; p++ {
		go func(base uint64) {
			defer producersWG.Done()
			for i := uint64(0); i < uint64(cli.PerProducer); i++ {
				v := base + i
				if cli.ForcePush {
					q.ForcePush(v)
					continue
				}
				for q.Push(v) != nil {
					// ring momentarily full; retry
				}
			}
		}(uint64(p) * uint64(cli.PerProducer))
	}

	consumersWG.Add(cli.Consumers)
	for c := 0; c < cli.Consumers; c++ {
		go func() {
			defer consumersWG.Done()
			for {
				if _, ok := q.Pop(); ok {
					atomic.AddUint64(&popped, 1)
					continue
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	producersWG.Wait()
	if cli.ForcePush {
		// Displaced items mean popped will never reach total; give
		// consumers a brief grace period to drain what is left
		// instead of waiting for an exact count.
		time.Sleep(50 * time.Millisecond)
	} else {
		// Producers are finished; let consumers keep draining until
		// every pushed item has been popped, then signal them to
		// stop. This keeps the demo bounded without adding a blocking
		// primitive to the queue itself.
		for atomic.LoadUint64(&popped) < total {
		}
	}
	close(done)
	consumersWG.Wait()
	elapsed := time.Since(start)

	if cli.ForcePush {
		level.Info(logger).Log("msg", "force-push run: displaced items are expected, skipping count check")
	} else if popped != total {
		return 0, fmt.Errorf("pushed %d items but popped %d", total, popped)
	}

	return float64(total) / elapsed.Seconds(), nil
}

// runBaseline drives the 1024cores comparison queue the same way,
// single-producer/single-consumer since internal/baseline.Queue's
// convenience runners assume that pattern.
func runBaseline(logger log.Logger) float64 {
	q := baseline.New[uint64](uint64(nextPow2(cli.Capacity)))
	total := uint64(cli.PerProducer)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		i := uint64(0)
		q.RunProducer(func() (uint64, bool) {
			if i >= total {
				return 0, true
			}
			v := i
			i++
			return v, false
		})
	}()
	go func() {
		defer wg.Done()
		var n uint64
		for n < total {
			if _, ok := q.Poll(); ok {
				n++
			}
		}
	}()
	wg.Wait()
	elapsed := time.Since(start)

	level.Debug(logger).Log("msg", "baseline run complete", "items", total)
	return float64(total) / elapsed.Seconds()
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func renderChart(path string, nblfqRate, baselineRate float64) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "nblfq vs. baseline throughput",
			Subtitle: "ops/sec, higher is better",
		}),
	)
	bar.SetXAxis([]string{"nblfq", "baseline (1024cores MPMC)"}).
		AddSeries("ops/sec", []opts.BarData{
			{Value: nblfqRate},
			{Value: baselineRate},
		})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
