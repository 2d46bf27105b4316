package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	ingestInclude []string
	ingestExclude []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-directory>...",
	Short: "Store documents and index their text for semantic search",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, _, _, cat, pipeline, err := openComponents(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		include := cfg.Include
		exclude := cfg.Exclude
		if len(ingestInclude) > 0 {
			include = ingestInclude
		}
		if len(ingestExclude) > 0 {
			exclude = ingestExclude
		}

		total := 0
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("stat %q: %w", arg, err)
			}

			if !info.IsDir() {
				res, err := pipeline.IngestFile(ctx, arg)
				if err != nil {
					return err
				}
				fmt.Printf("ingested %s (%d chunks)\n", res.Filename, res.Chunks)
				total++
				continue
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription(fmt.Sprintf("ingesting %s", arg)),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSpinnerType(14),
			)
			results, err := pipeline.IngestDir(ctx, arg, include, exclude, func(path string) {
				bar.Describe(fmt.Sprintf("ingesting %s", filepath.Base(path)))
				bar.Add(1)
			})
			bar.Finish()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			for _, res := range results {
				fmt.Printf("ingested %s (%d chunks)\n", res.Filename, res.Chunks)
			}
			total += len(results)
		}

		fmt.Printf("done: %d document(s) ingested\n", total)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "glob patterns to include (overrides config)")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "glob patterns to exclude (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}
