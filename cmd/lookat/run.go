package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/lookat"
)

// Run executes the run command. Failed sources are reported but do not
// fail the command; only a run that cannot start does.
func (c *RunCmd) Run(deps *Dependencies) error {
	report, err := deps.Ingestion.RunIngestion(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(deps.Stdout, report)
	return nil
}

// printReport writes a human-readable run summary.
func printReport(w io.Writer, report *lookat.RunReport) {
	for _, cat := range report.Categories {
		fmt.Fprintf(w, "%s: %d added, %d skipped (%d sources)\n",
			cat.CategoryName, cat.ArticlesAdded, cat.ArticlesSkipped, cat.SourcesCount)
		for _, src := range cat.Sources {
			if !src.Success {
				fmt.Fprintf(w, "  fail %s (%s): %s\n", src.SourceName, truncateURL(src.SourceURL, 60), src.Error)
			}
		}
	}
	fmt.Fprintf(w, "Total: %d added, %d skipped, %d failed sources\n",
		report.TotalAdded, report.TotalSkipped, len(report.Failed()))
}

// truncateURL shortens a URL for display, keeping the end which is more informative.
func truncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
