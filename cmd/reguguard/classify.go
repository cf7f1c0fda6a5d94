package main

import (
	"fmt"
	"os"
	"path/filepath"

	"reguguard-backend/service"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Run the SOP gate and domain detection on a document",
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

			res, err := a.Analysis.Classify(cmd.Context(), service.AnalyzeRequest{Data: data, Filename: filepath.Base(args[0])})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SOP:    %v (%s)\n", res.SOP.IsSOP, res.SOP.DocumentType)
			fmt.Fprintf(out, "        %s\n", res.SOP.Reason)
			fmt.Fprintf(out, "Domain: %s (confidence %.2f)\n", res.Domain.Domain, res.Domain.Confidence)
			fmt.Fprintf(out, "        %s\n", res.Domain.Reason)
			return nil
		},
	}
}
