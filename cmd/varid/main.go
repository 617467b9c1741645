// Package main provides the varid command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/omicsdb/varid/internal/duckdb"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "varid",
		Short: "Deterministic variant identifiers with storage routing",
		Long: `varid derives a stable identifier for a genomic variant from its
chromosome, position, and alleles, and stores the records in DuckDB tables
sharded by chromosome. The same variant always gets the same identifier, so
cohorts ingested at different times line up without coordination.`,
		Example: `  # Compute an identifier without touching the database
  varid id 7:55174772:GGAATTAAGAGAAGC:-

  # Load a VCF or MAF file
  varid ingest cohort.vcf.gz

  # Fetch a stored record
  varid lookup ga4gh:VA:7:v9TQXvNOQeG1vNRVJCWlD_a1tRf_m2AP`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.varid.yaml)")
	cmd.PersistentFlags().String("db", "", "DuckDB database file (default ~/.varid/variants.duckdb)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// The --db flag wins over VARID_DATABASE_PATH, the config file, and the
	// built-in default, in that order.
	_ = viper.BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newIDCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.varid.yaml (or an explicit --config file) and wires
// VARID_* environment variables. A missing default config file is fine; a
// missing explicit one is an error.
func initConfig(cfgFile string) error {
	viper.SetDefault("database.path", defaultDBPath())
	viper.SetDefault("ingest.batch_size", 1000)
	viper.SetDefault("ingest.workers", 0)
	viper.SetDefault("lookup.cache_size", 1024)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".varid")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VARID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// defaultDBPath returns the default database location, ~/.varid/variants.duckdb.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "variants.duckdb"
	}
	return filepath.Join(home, ".varid", "variants.duckdb")
}

// openStore opens the configured database.
func openStore() (*duckdb.Store, error) {
	path := viper.GetString("database.path")
	store, err := duckdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return store, nil
}

// newLogger builds the logger handed to library code. Without --verbose the
// libraries stay quiet and the commands print their own output.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
