package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spool-ml/spool/tape"
)

func runInspect(cmd *cobra.Command, args []string) {
	path := args[0]

	info, err := tape.ReadInfo(path)
	if err != nil {
		fatal("reading tape file", "path", path, "error", err)
	}
	fmt.Printf("file:               %s\n", path)
	fmt.Printf("id:                 %s\n", info.ID)
	fmt.Printf("version:            %d\n", info.Version)
	fmt.Printf("statements:         %d\n", info.Statements)
	fmt.Printf("entries:            %d\n", info.Entries)
	fmt.Printf("largest identifier: %d\n", info.LargestIdentifier)

	if !showStats {
		return
	}
	t, _, err := tape.ReadFile(tape.DefaultOptions(), path)
	if err != nil {
		fatal("loading tape file", "path", path, "error", err)
	}
	fmt.Print(t.Statistics().FormatBlock())
}
