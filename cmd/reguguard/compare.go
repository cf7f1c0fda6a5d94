package main

import (
	"fmt"
	"os"

	"reguguard-backend/compare"
	"reguguard-backend/extract"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "compare [ai-file] [human-file]",
		Short: "Compare an AI-updated SOP with a human-edited version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := make([]string, 2)
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				doc, err := extract.Extract(data, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				texts[i] = doc.FullText
			}

			res := compare.Compare(texts[0], texts[1])
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Clauses: %d AI, %d human, %d matched\n", res.AIClauses, res.HumanClauses, res.MatchedPairs)
			fmt.Fprintf(out, "Human enhancements: %d, weaknesses: %d\n", len(res.HumanEnhancements), len(res.HumanWeaknesses))
			for _, d := range res.KeyDifferences {
				fmt.Fprintf(out, "  %s -> %s: %s (similarity %.2f)\n", d.AITitle, d.HumanTitle, d.Classification, d.Similarity)
			}
			fmt.Fprintln(out, "Recommendations:")
			for _, r := range res.Recommendations {
				fmt.Fprintf(out, "  - %s\n", r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	return cmd
}
