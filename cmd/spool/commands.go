package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

var (
	configPath string
	benchSize  int
	benchReps  int
	workers    int
	rowFormat  bool
	primalMode bool
	outPath    string
	showStats  bool

	rootCmd = &cobra.Command{
		Use:   "spool",
		Short: "Tape-based automatic differentiation for Go",
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spool %s\n", version)
		},
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Record and evaluate a synthetic workload, then report tape statistics",
		Run:   runBench,
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print header information of a persisted tape file",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}
)

func init() {
	benchCmd.Flags().StringVar(&configPath, "config", "", "YAML file with tape options")
	benchCmd.Flags().IntVar(&benchSize, "size", 1000, "number of independent inputs")
	benchCmd.Flags().IntVar(&benchReps, "reps", 10, "operations chained per input")
	benchCmd.Flags().IntVar(&workers, "workers", 1, "worker goroutines, one tape each")
	benchCmd.Flags().BoolVar(&rowFormat, "row", false, "print statistics as a single ;-separated row")
	benchCmd.Flags().BoolVar(&primalMode, "primal", false, "use the primal-value tape instead of the Jacobian tape")
	benchCmd.Flags().StringVar(&outPath, "out", "", "persist the recorded tape to this file (single worker, Jacobian tape)")

	inspectCmd.Flags().BoolVar(&showStats, "stats", false, "load the tape and print full statistics")

	rootCmd.AddCommand(versionCmd, benchCmd, inspectCmd)
}
