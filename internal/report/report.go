// Package report prints the operator summary of a discovery run.
package report

import (
	"fmt"
	"io"
	"slices"

	"github.com/nimscan/blueprint-discovery/internal/discovery"
)

// Write prints the run summary: totals, every advisory anomaly (missing,
// invalid, fetch failures, duplicate mappings) and the set of blueprints
// that did not make it into the generated file.
func Write(w io.Writer, result *discovery.Result, outputPath string) {
	fmt.Fprintf(w, "Total resources processed: %d\n", result.TotalResources)
	if len(result.Repos) > 0 {
		fmt.Fprintf(w, "Wrote %d repos to %s\n", len(result.Repos), outputPath)
	} else {
		fmt.Fprintln(w, "Resolved no repositories; nothing written")
	}

	if len(result.FetchErrors) > 0 {
		fmt.Fprintln(w, "Failed to fetch spec for:")
		for _, resourceID := range result.FetchErrors {
			fmt.Fprintf(w, "  - %s\n", resourceID)
		}
	}

	if len(result.Missing) > 0 {
		fmt.Fprintln(w, "Missing GitHub URL for:")
		for _, resourceID := range result.Missing {
			fmt.Fprintf(w, "  - %s\n", resourceID)
		}
	}

	if len(result.Invalid) > 0 {
		fmt.Fprintln(w, "Invalid GitHub URL for:")
		for _, ref := range result.Invalid {
			fmt.Fprintf(w, "  - %s: %s\n", ref.ResourceID, ref.RawURL)
		}
	}

	duplicates := result.Duplicates()
	if len(duplicates) > 0 {
		fmt.Fprintln(w, "Multiple blueprints mapped to same repo:")
		repos := make([]string, 0, len(duplicates))
		for repo := range duplicates {
			repos = append(repos, repo)
		}
		slices.Sort(repos)
		for _, repo := range repos {
			fmt.Fprintf(w, "  - %s\n", repo)
			for _, resourceID := range duplicates[repo] {
				fmt.Fprintf(w, "    * %s\n", resourceID)
			}
		}
	}

	if notWritten := result.NotWritten(); len(notWritten) > 0 {
		fmt.Fprintln(w, "Blueprints not written to repos.yaml:")
		for _, resourceID := range notWritten {
			fmt.Fprintf(w, "  - %s\n", resourceID)
		}
	}
}
