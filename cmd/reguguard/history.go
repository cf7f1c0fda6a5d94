package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or delete stored analyses",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			summaries, err := a.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No analyses yet.")
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(out, "%s  %s  %3d  %-6s  %s  (%s)\n",
					s.AnalysisID, s.Timestamp.Format("2006-01-02 15:04"), s.ComplianceScore, s.RiskLevel, s.DocumentName, s.Domain)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "maximum number of analyses")

	show := &cobra.Command{
		Use:   "show [analysis-id]",
		Short: "Print a stored analysis as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.History.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entry)
		},
	}

	del := &cobra.Command{
		Use:   "delete [analysis-id]",
		Short: "Delete a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.History.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
