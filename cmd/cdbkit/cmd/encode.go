package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/pcmtools/cdbkit/pkg/cdb"
	"github.com/pcmtools/cdbkit/pkg/relational"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <file.db>",
	Short: "Encode a SQLite database back into a CDB file",
	Long: `Encode a SQLite database, as produced by decode, back into a
compressed CDB file the game accepts.

Example:
  cdbkit encode official.db -o OfficialDatabase.cdb`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = strings.TrimSuffix(args[0], ".db") + ".cdb"
		}

		sqlDB, err := sql.Open("sqlite", args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer sqlDB.Close()

		db, err := relational.Inspect(sqlDB)
		if err != nil {
			return err
		}

		raw, err := cdb.Encode(db)
		if err != nil {
			return err
		}

		if err := os.WriteFile(output, raw, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

		fmt.Printf("Encoded %d tables into %s\n", len(db.Tables), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("output", "o", "", "Output CDB file (default: <input> with a trailing .db replaced by .cdb)")
}
