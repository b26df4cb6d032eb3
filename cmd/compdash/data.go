package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"compdash/cmd/compdash/ui"
	"compdash/internal/api"
	"compdash/internal/model"
	"compdash/internal/report"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a dataset (.csv, .xlsx, .xls, .json)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		resp, err := client.Upload(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s: %d rows, file id %s\n",
			resp.Filename, resp.Rows, resp.FileID)
		return nil
	},
}

var executeMode string

var executeCmd = &cobra.Command{
	Use:   "execute <file-id>",
	Short: "Run the compliance analysis workflow on an uploaded dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := model.RunMode(executeMode)
		if mode != model.ModeQuick && mode != model.ModeFull {
			return fmt.Errorf("invalid mode %q: use quick or full", executeMode)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ExecuteTimeout())
		defer cancel()
		fmt.Fprintf(cmd.OutOrStdout(), "Running %s analysis...\n", mode)
		resp, err := client.Execute(ctx, args[0], mode)
		if err != nil {
			return err
		}
		for _, st := range resp.Stages {
			line := fmt.Sprintf("%s %s", ui.StageMark(st.Status), st.Name)
			if st.RecordsProcessed > 0 {
				line += fmt.Sprintf("  (%d records, %.1fs)", st.RecordsProcessed, st.ExecutionTime)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if model.AllCompleted(resp.Stages) {
			fmt.Fprintln(cmd.OutOrStdout(), "Analysis complete.")
		}
		return nil
	},
}

var (
	resultsFramework string
	resultsStatus    string
	resultsLimit     int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List compliance results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		resp, err := client.Results(ctx, api.ResultsQuery{
			Framework: resultsFramework,
			Status:    resultsStatus,
			Limit:     resultsLimit,
		})
		if err != nil {
			return err
		}
		if len(resp.Results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results.")
			return nil
		}

		t := ui.NewSimpleTable("Compliance Results",
			[]string{"Framework", "Obligation", "Status", "Severity", "Confidence"})
		for _, r := range resp.Results {
			t.AddRow(r.Framework, r.ObligationID, string(r.Status), string(r.Severity),
				fmt.Sprintf("%.0f%%", r.Confidence*100))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.View(ui.DefaultStyles()))
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records\n", len(resp.Results), resp.Total)
		return nil
	},
}

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all compliance results to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		resp, err := client.Results(ctx, api.ResultsQuery{})
		if err != nil {
			return err
		}
		path, err := report.Export(exportDir, resp.Results, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(resp.Results), path)
		return nil
	},
}

func init() {
	executeCmd.Flags().StringVarP(&executeMode, "mode", "m", "full", "analysis mode: quick or full")
	resultsCmd.Flags().StringVar(&resultsFramework, "framework", "", "filter by framework")
	resultsCmd.Flags().StringVar(&resultsStatus, "status", "", "filter by status")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 100, "maximum records")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "output directory")
}
