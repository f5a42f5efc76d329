// Package writer renders the resolved repository set into the repos.yaml
// configuration consumed by the nim-usage-scanner.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScannerConfig mirrors the schema the scanner expects from repos.yaml.
// It exists so tests can prove the rendered output parses back into the
// consumer's shape.
type ScannerConfig struct {
	Version  string       `yaml:"version"`
	Defaults Defaults     `yaml:"defaults"`
	Repos    []RepoConfig `yaml:"repos"`
}

// Defaults holds the settings applied to all repositories
type Defaults struct {
	Branch string `yaml:"branch"`
	Depth  int    `yaml:"depth"`
}

// RepoConfig is a single repository entry
type RepoConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Branch  string `yaml:"branch"`
	Enabled bool   `yaml:"enabled"`
}

// CloneURL derives the stable clone URL for an "owner/repo" identity
func CloneURL(repoName string) string {
	return fmt.Sprintf("https://github.com/%s.git", repoName)
}

// Render produces the repos.yaml content for the given repository names.
// The rendering is line-oriented rather than marshalled so the emitted
// comments and field order stay byte-stable across runs.
func Render(repoNames []string, branch string, depth int) string {
	lines := []string{
		"# NIM Usage Scanner Configuration",
		"# This file defines the repositories to scan for NIM usage",
		"",
		`version: "1.0"`,
		"",
		"# Default settings applied to all repositories",
		"defaults:",
		fmt.Sprintf("  branch: %s", branch),
		fmt.Sprintf("  depth: %d", depth),
		"",
		"# List of repositories to scan",
		"repos:",
	}

	for _, name := range repoNames {
		lines = append(lines,
			fmt.Sprintf("  - name: %s", name),
			fmt.Sprintf("    url: %s", CloneURL(name)),
			fmt.Sprintf("    branch: %s", branch),
			"    enabled: true",
			"",
		)
	}

	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n") + "\n"
}

// WriteFile renders the configuration and writes it to path, creating
// parent directories as needed.
func WriteFile(path string, repoNames []string, branch string, depth int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	content := Render(repoNames, branch, depth)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
