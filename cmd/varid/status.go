package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omicsdb/varid/internal/duckdb"
)

func newStatusCmd() *cobra.Command {
	var runsLimit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored variant counts and recent ingest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return runStatus(cmd.OutOrStdout(), store, runsLimit)
		},
	}

	cmd.Flags().IntVar(&runsLimit, "runs", 10, "how many recent ingest runs to show")

	return cmd
}

func runStatus(w io.Writer, store *duckdb.Store, runsLimit int) error {
	counts, err := store.TableCounts()
	if err != nil {
		return err
	}

	var total int64
	for _, c := range counts {
		total += c.Rows
	}

	fmt.Fprintf(w, "Database: %s\n", viper.GetString("database.path"))
	fmt.Fprintf(w, "Variants: %d across %d tables\n", total, len(counts))

	if len(counts) > 0 {
		fmt.Fprintln(w)
		for _, c := range counts {
			fmt.Fprintf(w, "  %-24s %d\n", c.Table, c.Rows)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(w, "\nNo ingest runs recorded.\n")
		return nil
	}

	fmt.Fprintf(w, "\nRecent ingest runs:\n")
	if runsLimit > 0 && len(runs) > runsLimit {
		runs = runs[:runsLimit]
	}
	for _, run := range runs {
		state := fmt.Sprintf("%d variants", run.Variants)
		if run.FinishedAt == nil {
			state = "unfinished"
		}
		fmt.Fprintf(w, "  %s  %-20s %-4s %-14s run %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			filepath.Base(run.SourcePath), run.Format, state, run.RunID)
	}
	return nil
}
