package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omicsdb/varid/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	var (
		format    string
		batchSize int
		workers   int
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Load variant files into the database",
		Long: `Read VCF (plain or gzipped) or MAF files, compute an identifier for each
variant, and store the records. A file that already completed an ingest (same
path, size, and modification time) is skipped unless --force is given. Use "-"
to read a VCF from stdin.`,
		Example: `  varid ingest cohort.vcf.gz
  varid ingest --format maf data_mutations.txt
  varid ingest --db /data/variants.duckdb --workers 8 a.vcf b.vcf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("batch-size") {
				batchSize = viper.GetInt("ingest.batch_size")
			}
			if !cmd.Flags().Changed("workers") {
				workers = viper.GetInt("ingest.workers")
			}

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ing := ingest.NewIngestor(store)
			ing.SetLogger(logger)
			ing.SetBatchSize(batchSize)
			ing.SetWorkers(workers)
			ing.SetForce(force)

			for _, path := range args {
				summary, err := ing.IngestFile(path, format)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				printSummary(cmd.ErrOrStderr(), summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", ingest.FormatAuto, "input format: auto, vcf, or maf")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records buffered per database write (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "identifier workers, 0 for one per CPU (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "re-ingest even if this file was ingested before")

	return cmd
}

func printSummary(w io.Writer, s *ingest.Summary) {
	if s.AlreadyIngested {
		fmt.Fprintf(w, "%s: already ingested as run %s (%d variants), skipping\n",
			s.Source, s.RunID, s.Inserted)
		return
	}

	fmt.Fprintf(w, "Ingested %s (%s) in %s\n", s.Source, s.Format, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Rows parsed: %d\n", s.Parsed)
	fmt.Fprintf(w, "  Variants:    %d (%d SNVs, %d indels)\n", s.Variants, s.SNVs, s.Indels)
	fmt.Fprintf(w, "  Inserted:    %d\n", s.Inserted)
	if s.Duplicates > 0 {
		fmt.Fprintf(w, "  Duplicates:  %d\n", s.Duplicates)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped:     %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "  Run ID:      %s\n", s.RunID)
}
