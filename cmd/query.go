package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docassist/docassist/internal/vectordb"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query <text>...",
	Short: "Search indexed documents by semantic similarity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, _, index, cat, _, err := openComponents(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		query := strings.Join(args, " ")
		results, err := index.Query(ctx, []string{query}, queryLimit)
		if err != nil {
			return err
		}

		fmt.Println(strings.TrimSuffix(vectordb.FormatMatches(results[0]), "\n"))
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum number of results")
	rootCmd.AddCommand(queryCmd)
}
