package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/spool-ml/spool/internal/parallel"
	itape "github.com/spool-ml/spool/internal/tape"
	"github.com/spool-ml/spool/num"
	"github.com/spool-ml/spool/reverse"
	"github.com/spool-ml/spool/tape"
)

func loadOptions() tape.Options {
	if configPath == "" {
		return tape.DefaultOptions()
	}
	opts, err := tape.LoadOptions(configPath)
	if err != nil {
		fatal("loading options", "path", configPath, "error", err)
	}
	return opts
}

// workload chains reps operations off one input and returns the output.
func workload(x reverse.Active[num.Float64], reps int) reverse.Active[num.Float64] {
	y := x
	for r := 0; r < reps; r++ {
		y = y.Mul(x).Sin().Add(x)
	}
	return y
}

func benchOne(t *tape.Tape[num.Float64], size, reps int) float64 {
	sum := 0.0
	inputs := make([]reverse.Active[num.Float64], size)
	outputs := make([]reverse.Active[num.Float64], size)
	for i := range inputs {
		inputs[i] = reverse.Input(t, num.F(0.1+float64(i)/float64(size)))
		outputs[i] = workload(inputs[i], reps)
		outputs[i].RegisterOutput()
	}
	for i := range outputs {
		outputs[i].SetGradient(num.F(1))
	}
	t.Evaluate()
	for i := range inputs {
		sum += inputs[i].Gradient().Float()
	}
	return sum
}

func runBench(cmd *cobra.Command, args []string) {
	opts := loadOptions()

	if primalMode {
		runBenchPrimal(opts)
		return
	}

	slog.Info("recording", "size", benchSize, "reps", benchReps, "workers", workers)
	start := time.Now()
	var stats *tape.Statistics
	var sum float64

	if workers <= 1 {
		t := tape.New[num.Float64](opts)
		t.SetActive()
		sum = benchOne(t, benchSize, benchReps)
		stats = t.Statistics()
		if outPath != "" {
			info, err := tape.WriteFile(t, outPath)
			if err != nil {
				fatal("writing tape file", "path", outPath, "error", err)
			}
			slog.Info("wrote tape file", "path", outPath, "id", info.ID, "statements", info.Statements)
		}
	} else {
		sums := make([]float64, workers)
		tapes := parallel.EachTape(workers, opts, func(w int, t *itape.Tape[num.Float64]) {
			sums[w] = benchOne(t, benchSize, benchReps)
		})
		stats = tapes[0].Statistics()
		for _, t := range tapes[1:] {
			stats.Combine(t.Statistics(), tape.CombineSum)
		}
		for _, s := range sums {
			sum += s
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("gradient checksum: %g\n", sum)
	fmt.Printf("elapsed: %s\n", elapsed)
	if rowFormat {
		fmt.Println(stats.FormatHeaderRow())
		fmt.Println(stats.FormatRow())
	} else {
		fmt.Print(stats.FormatBlock())
	}
}

// runBenchPrimal records on the primal-value tape, evaluates once, then
// shifts every input and replays to show primal re-evaluation.
func runBenchPrimal(opts tape.Options) {
	t := tape.NewPrimal[num.Float64](opts)
	t.SetActive()

	inputs := make([]reverse.PrimalActive[num.Float64], benchSize)
	outputs := make([]reverse.PrimalActive[num.Float64], benchSize)
	for i := range inputs {
		inputs[i] = reverse.PrimalInput(t, num.F(0.1+float64(i)/float64(benchSize)))
		y := inputs[i]
		for r := 0; r < benchReps; r++ {
			y = y.Mul(inputs[i]).Add(inputs[i])
		}
		outputs[i] = y
	}
	for i := range outputs {
		outputs[i].SetGradient(num.F(1))
	}
	t.Evaluate()

	sum := 0.0
	for i := range inputs {
		sum += inputs[i].Gradient().Float()
	}
	fmt.Printf("gradient checksum: %g\n", sum)

	// Replay under shifted inputs without recording again.
	for i := range inputs {
		t.SetInput(inputs[i].Identifier(), num.F(0.2+float64(i)/float64(benchSize)))
	}
	t.EvaluatePrimal()
	fmt.Printf("replayed primal of first output: %g\n", t.Primal(outputs[0].Identifier()).Float())
}
