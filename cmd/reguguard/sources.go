package main

import (
	"fmt"
	"strings"

	"reguguard-backend/scraper"

	"github.com/spf13/cobra"
)

func newSourcesCmd() *cobra.Command {
	var (
		domain     string
		domainOnly bool
	)
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the regulation sources scraped for a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if groups := scraper.SourceGroups(domain); len(groups) > 0 {
				fmt.Fprintf(out, "Domain groups: %s\n", strings.Join(groups, ", "))
			}
			for _, src := range scraper.Sources(domain, domainOnly) {
				fmt.Fprintf(out, "%-24s %-18s %s\n", src.Category, src.Name, src.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "industry domain")
	cmd.Flags().BoolVar(&domainOnly, "domain-only", false, "list only the domain specific sources")
	return cmd
}
