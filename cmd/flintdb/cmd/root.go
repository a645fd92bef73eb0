// Package cmd implements the flintdb demonstration CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vaasu2002/flintdb"
)

var (
	dirFlag          string
	configFlag       string
	segmentBytesFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "flintdb",
	Short: "Log-structured key-value store",
	Long: `flintdb is a minimal log-structured key-value store: writes append to
segment files that rotate at a size threshold, reads resolve through
per-segment in-memory indexes rebuilt by replay on open.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "./flintdb-data",
		"data directory")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"yaml config file")
	rootCmd.PersistentFlags().Int64Var(&segmentBytesFlag, "max-segment-bytes", 0,
		"rotation threshold in bytes (overrides config)")
}

// openDB builds the config from flags and opens the database.
func openDB() (*flintdb.DB, error) {
	cfg := flintdb.DefaultConfig()
	if configFlag != "" {
		loaded, err := flintdb.LoadConfig(configFlag)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if segmentBytesFlag > 0 {
		cfg.MaxSegmentBytes = segmentBytesFlag
	}
	return flintdb.Open(dirFlag, cfg)
}
