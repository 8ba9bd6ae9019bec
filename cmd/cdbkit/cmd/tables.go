package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pcmtools/cdbkit/pkg/cdb"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables <file.cdb>",
	Short: "List the tables in a CDB file",
	Long: `List the tables in a CDB file with their identifiers, row counts
and column counts.

Example:
  cdbkit tables OfficialDatabase.cdb`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		db, err := cdb.Decode(raw)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROWS\tCOLUMNS")
		for _, t := range db.Tables {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", t.ID, t.Name, t.Rows, len(t.Columns))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
