package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fillCount int

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Write a batch of demo records and read a few back",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		for i := 0; i < fillCount; i++ {
			key := int64(i)
			if err := db.Set(key, fmt.Appendf(nil, "value-%d", i)); err != nil {
				return err
			}
		}

		// Overwrite one key so the demo shows last-write-wins.
		if err := db.Set(0, []byte("overwritten")); err != nil {
			return err
		}

		for _, key := range []int64{0, int64(fillCount) - 1, int64(fillCount)} {
			value, found := db.Get(key)
			if !found {
				fmt.Printf("%d: <not found>\n", key)
				continue
			}
			fmt.Printf("%d: %s\n", key, value)
		}
		return nil
	},
}

func init() {
	fillCmd.Flags().IntVarP(&fillCount, "count", "n", 100, "number of records to write")
	rootCmd.AddCommand(fillCmd)
}
