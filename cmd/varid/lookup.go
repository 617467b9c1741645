package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omicsdb/varid/internal/duckdb"
	"github.com/omicsdb/varid/internal/output"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <identifier>...",
		Short: "Fetch stored records by identifier",
		Long: `Look up variant records by identifier. Each identifier is routed to its
chromosome's table; results are written as tab-separated rows on stdout.
Identifiers with no stored record are reported on stderr.`,
		Example: `  varid lookup ga4gh:VA:7:v9TQXvNOQeG1vNRVJCWlD_a1tRf_m2AP
  varid lookup ga4gh:VA:SPECIAL:13-32340301-T-*`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var lookup duckdb.VariantLookup = store
			if size := viper.GetInt("lookup.cache_size"); size > 0 {
				cached, err := duckdb.NewCachedStore(store, size)
				if err != nil {
					return err
				}
				lookup = cached
			}

			tw := output.NewTabWriter(cmd.OutOrStdout())
			if err := tw.WriteHeader(); err != nil {
				return err
			}

			missing := 0
			for _, id := range args {
				rec, err := lookup.Lookup(id)
				if err != nil {
					return err
				}
				if rec == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "not found: %s\n", id)
					missing++
					continue
				}
				if err := tw.Write(rec); err != nil {
					return err
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if missing > 0 {
				return fmt.Errorf("%d of %d identifiers not found", missing, len(args))
			}
			return nil
		},
	}

	return cmd
}
