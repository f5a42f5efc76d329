package discovery

import (
	"slices"
)

// InvalidRef records a resource whose extracted reference did not parse as a
// GitHub repository. The offending URL is kept verbatim for diagnosis.
type InvalidRef struct {
	ResourceID string
	RawURL     string
}

// Result is the aggregate outcome of one discovery run
type Result struct {
	// Repos is the sorted set of distinct resolved repository identities
	Repos []string

	// Missing lists resources whose spec contained no reference at all,
	// sorted and deduplicated
	Missing []string

	// Invalid lists resources whose reference failed to parse, in fold order
	Invalid []InvalidRef

	// FetchErrors lists resources whose spec could not be fetched, sorted
	FetchErrors []string

	// RepoToResources maps each repository identity to every resource that
	// resolved to it, in fold order. The first entry per identity is the
	// authoritative one.
	RepoToResources map[string][]string

	// TotalResources counts distinct resources seen across all pages
	TotalResources int
}

// Duplicates returns the repository identities that more than one resource
// resolved to, with their full resource lists.
func (r *Result) Duplicates() map[string][]string {
	duplicates := make(map[string][]string)
	for repo, resources := range r.RepoToResources {
		if len(resources) > 1 {
			duplicates[repo] = resources
		}
	}
	return duplicates
}

// NotWritten returns the sorted set of resources that do not contribute an
// entry to the generated configuration: those with no reference, plus the
// non-authoritative members of each duplicate mapping.
func (r *Result) NotWritten() []string {
	set := make(map[string]struct{})
	for _, resourceID := range r.Missing {
		set[resourceID] = struct{}{}
	}
	for _, resources := range r.Duplicates() {
		for _, resourceID := range resources[1:] {
			set[resourceID] = struct{}{}
		}
	}

	notWritten := make([]string, 0, len(set))
	for resourceID := range set {
		notWritten = append(notWritten, resourceID)
	}
	slices.Sort(notWritten)
	return notWritten
}

// sortedUnique returns a sorted copy with duplicates removed
func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
