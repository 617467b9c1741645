package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omicsdb/varid/internal/vrs"
)

func newIDCmd() *cobra.Command {
	var routing bool

	cmd := &cobra.Command{
		Use:   "id <chrom:pos:ref:alt>...",
		Short: "Compute identifiers for variant tuples",
		Long: `Compute the identifier for one or more variants written as
chrom:pos:ref:alt (chrom-pos-ref-alt also works). Write a blank allele as "-"
or leave it empty; "*" is the wildcard allele and produces the special
identifier form. No database is touched.`,
		Example: `  varid id 7:55174772:GGAATTAAGAGAAGC:-
  varid id chr7:140753336:A:T chrX:66931243:T:*
  varid id --routing 12:25245350:C:A`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runID(cmd.OutOrStdout(), args, routing)
		},
	}

	cmd.Flags().BoolVar(&routing, "routing", false, "also print the shard table and lookup query for each identifier")

	return cmd
}

func runID(w io.Writer, specs []string, routing bool) error {
	for _, raw := range specs {
		spec, err := vrs.ParseVariantSpec(raw)
		if err != nil {
			return err
		}

		id, err := vrs.GenerateRaw(spec.Chrom, spec.Pos, spec.Ref, spec.Alt)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%s\n", raw, id)

		if routing {
			if err := printRouting(w, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// printRouting shows where a lookup for the identifier would go: the shard
// table, the query template, and its parameters.
func printRouting(w io.Writer, id string) error {
	table, err := vrs.TableNameFor(id)
	if err != nil {
		return err
	}
	lq, err := vrs.BuildLookupQuery(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  table: %s\n", table)
	fmt.Fprintf(w, "  query: %s\n", strings.ReplaceAll(lq.Query, "\n", "\n         "))

	names := make([]string, 0, len(lq.Params))
	for name := range lq.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  @%s = %s\n", name, lq.Params[name])
	}
	return nil
}
