package main

import (
	"fmt"
	"os"
	"path/filepath"

	"reguguard-backend/service"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		domain     string
		domainOnly bool
		offline    bool
		noAI       bool
		force      bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze an SOP document (.pdf, .docx or .txt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Analysis.Analyze(cmd.Context(), service.AnalyzeRequest{
				Data:       data,
				Filename:   filepath.Base(args[0]),
				Domain:     domain,
				DomainOnly: domainOnly,
				UseAI:      !noAI,
				Force:      force,
				Offline:    offline,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printAnalysis(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "industry domain (detected when empty)")
	cmd.Flags().BoolVar(&domainOnly, "domain-only", false, "scrape only the domain specific sources")
	cmd.Flags().BoolVar(&offline, "offline", false, "use the built-in regulations instead of scraping")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "use the rule-based analysis only")
	cmd.Flags().BoolVar(&force, "force", false, "analyze even when the document does not look like an SOP")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printAnalysis(cmd *cobra.Command, res *service.AnalyzeResult) {
	out := cmd.OutOrStdout()
	rep := res.Report
	fmt.Fprintf(out, "Analysis %s\n", res.AnalysisID)
	fmt.Fprintf(out, "Document:    %s\n", res.DocumentName)
	fmt.Fprintf(out, "Domain:      %s (confidence %.2f)\n", res.Domain.Domain, res.Domain.Confidence)
	fmt.Fprintf(out, "Score:       %d/100, %s risk\n", rep.OverallScore, rep.OverallRiskLevel)
	fmt.Fprintf(out, "Method:      %s\n", rep.AnalysisMethod)
	fmt.Fprintf(out, "Regulations: %d\n", res.RegulationsCount)
	fmt.Fprintf(out, "Debt:        $%.0f\n\n", rep.ComplianceDebtEstimate)
	fmt.Fprintln(out, rep.ExecutiveSummary)

	fmt.Fprintf(out, "\nFindings (%d):\n", len(rep.Findings))
	for i, f := range rep.Findings {
		fmt.Fprintf(out, "  %d. [%s] %s: %s\n", i, f.RiskLevel, f.Area, f.Status)
		if f.Issue != "" {
			fmt.Fprintf(out, "     Issue: %s\n", f.Issue)
		}
	}
	if len(rep.MissingElements) > 0 {
		fmt.Fprintln(out, "\nMissing elements:")
		for _, m := range rep.MissingElements {
			fmt.Fprintf(out, "  - %s\n", m)
		}
	}
}
