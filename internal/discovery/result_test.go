package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Duplicates(t *testing.T) {
	t.Parallel()

	result := &Result{
		RepoToResources: map[string][]string{
			"acme/solo":   {"r1"},
			"acme/shared": {"r2", "r3", "r4"},
			"acme/pair":   {"r5", "r6"},
		},
	}

	duplicates := result.Duplicates()
	assert.Equal(t, map[string][]string{
		"acme/shared": {"r2", "r3", "r4"},
		"acme/pair":   {"r5", "r6"},
	}, duplicates)
}

func TestResult_NotWritten(t *testing.T) {
	t.Parallel()

	result := &Result{
		Missing: []string{"r9", "r1"},
		RepoToResources: map[string][]string{
			"acme/shared": {"r2", "r3"},
			"acme/solo":   {"r4"},
		},
	}

	// Missing resources plus the non-authoritative duplicate members, sorted.
	assert.Equal(t, []string{"r1", "r3", "r9"}, result.NotWritten())
}

func TestResult_NotWrittenEmpty(t *testing.T) {
	t.Parallel()

	result := &Result{
		RepoToResources: map[string][]string{"acme/solo": {"r1"}},
	}
	assert.Empty(t, result.NotWritten())
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "a", "b", "a", "c"}))
	assert.Empty(t, sortedUnique(nil))
}
