package extract

import (
	"regexp"
	"strings"
)

// githubRepoPattern matches a GitHub repository reference anywhere in a URL.
// The owner segment excludes '/', the repo segment additionally excludes
// fragment and query delimiters.
var githubRepoPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/#?]+)`)

// ParseRepoName derives the canonical "owner/repo" identity from a raw URL.
// Returns false for anything that is not a GitHub repository URL, including
// other hosting domains; it never panics on malformed input.
func ParseRepoName(rawURL string) (string, bool) {
	match := githubRepoPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}

	owner := match[1]
	repo := strings.TrimSuffix(match[2], ".git")

	return owner + "/" + repo, true
}
