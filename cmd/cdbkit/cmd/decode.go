package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/pcmtools/cdbkit/pkg/cdb"
	"github.com/pcmtools/cdbkit/pkg/relational"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file.cdb>",
	Short: "Decode a CDB file into a SQLite database",
	Long: `Decode a CDB file into a SQLite database file.

Example:
  cdbkit decode OfficialDatabase.cdb -o official.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = args[0] + ".db"
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		db, err := cdb.Decode(raw)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}

		if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to replace %s: %w", output, err)
		}

		sqlDB, err := sql.Open("sqlite", output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer sqlDB.Close()

		if err := relational.Build(sqlDB, db); err != nil {
			return err
		}

		fmt.Printf("Decoded %d tables into %s\n", len(db.Tables), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("output", "o", "", "Output SQLite file (default: <input>.db)")
}
