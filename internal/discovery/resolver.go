// Package discovery drives the blueprint resolution pipeline: paginated
// catalog discovery, concurrent per-resource spec fetches and aggregation of
// the resolved repository identities.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nimscan/blueprint-discovery/internal/extract"
	"github.com/nimscan/blueprint-discovery/internal/ngc"
)

// ErrNoRepositories is returned when a run finishes without resolving a
// single repository. It is the only condition that fails the run; every
// other anomaly is advisory.
var ErrNoRepositories = errors.New("no repositories found in the catalog")

// DefaultWorkers is the default width of the per-page spec fetch pool
const DefaultWorkers = 8

// Resolver walks the catalog page by page and resolves every blueprint to
// its source repository
type Resolver struct {
	catalog ngc.Client
	query   ngc.SearchQuery
	workers int
	logger  *slog.Logger
}

// NewResolver creates a resolver. workers below 1 falls back to
// DefaultWorkers; a nil logger falls back to slog.Default().
func NewResolver(catalog ngc.Client, query ngc.SearchQuery, workers int, logger *slog.Logger) *Resolver {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		catalog: catalog,
		query:   query,
		workers: workers,
		logger:  logger,
	}
}

// outcome classifies the resolution of a single resource
type outcome struct {
	kind   outcomeKind
	repo   string
	rawURL string
}

type outcomeKind int

const (
	outcomeResolved outcomeKind = iota
	outcomeNoReference
	outcomeInvalidReference
	outcomeFetchFailed
)

// Run executes the full discovery pipeline. Pages are fetched sequentially;
// within a page, spec fetches run on a bounded worker pool and every
// dispatched fetch is awaited before the next page is requested. Per-resource
// failures never abort the run; the only terminal condition is resolving
// zero repositories, reported as ErrNoRepositories alongside the aggregate.
func (r *Resolver) Run(ctx context.Context) (*Result, error) {
	agg := newAggregate()
	seen := make(map[string]struct{})

	var totalExpected *int
	page := 0

	for {
		resultPage, err := r.catalog.SearchPage(ctx, r.query, page)
		if err != nil {
			return nil, fmt.Errorf("catalog page %d: %w", page, err)
		}

		if totalExpected == nil && resultPage.ResultTotal != nil {
			totalExpected = resultPage.ResultTotal
			r.logger.Info("Catalog reported total blueprints", "total", *totalExpected)
		}

		resources := resultPage.FlattenResources()
		if len(resources) == 0 {
			break
		}

		// First-sight bookkeeping happens here, single-threaded, before any
		// fetch is dispatched. A resourceId returned on multiple pages is
		// fetched and counted exactly once.
		var batch []ngc.Resource
		for _, resource := range resources {
			if resource.ResourceID == "" || resource.Name == "" {
				continue
			}
			if _, ok := seen[resource.ResourceID]; ok {
				continue
			}
			seen[resource.ResourceID] = struct{}{}
			agg.totalResources++
			batch = append(batch, resource)
		}

		r.logger.Debug("Processing catalog page",
			"page", page,
			"resources", len(resources),
			"new", len(batch))

		r.processBatch(ctx, batch, agg)

		if totalExpected != nil && (page+1)*r.query.PageSize >= *totalExpected {
			break
		}
		page++
	}

	result := agg.finalize()
	if len(result.Repos) == 0 {
		return result, ErrNoRepositories
	}
	return result, nil
}

// processBatch resolves one page's worth of new resources on a bounded
// worker pool. The fold into the aggregate is serialized behind a mutex;
// completion order across workers is unconstrained.
func (r *Resolver) processBatch(ctx context.Context, batch []ngc.Resource, agg *aggregate) {
	var (
		group errgroup.Group
		mu    sync.Mutex
	)
	group.SetLimit(r.workers)

	for _, resource := range batch {
		group.Go(func() error {
			resolved := r.resolveResource(ctx, resource.ResourceID)

			mu.Lock()
			agg.fold(resource.ResourceID, resolved)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return an error; failures are folded as outcomes.
	_ = group.Wait()
}

// resolveResource fetches one resource's spec and classifies it
func (r *Resolver) resolveResource(ctx context.Context, resourceID string) outcome {
	spec, err := r.catalog.FetchSpec(ctx, resourceID)
	if err != nil {
		r.logger.Warn("Failed to fetch spec",
			"resource", resourceID,
			"error", err)
		return outcome{kind: outcomeFetchFailed}
	}

	rawURL, found := extract.FindRepoURL(spec)
	if !found {
		return outcome{kind: outcomeNoReference}
	}

	repo, ok := extract.ParseRepoName(rawURL)
	if !ok {
		return outcome{kind: outcomeInvalidReference, rawURL: rawURL}
	}

	return outcome{kind: outcomeResolved, repo: repo}
}

// aggregate is the single mutable state of a run. All folds go through
// fold() under the resolver's mutex.
type aggregate struct {
	repos           []string
	missing         []string
	invalid         []InvalidRef
	fetchFailed     []string
	repoToResources map[string][]string
	totalResources  int
}

func newAggregate() *aggregate {
	return &aggregate{
		repoToResources: make(map[string][]string),
	}
}

func (a *aggregate) fold(resourceID string, o outcome) {
	switch o.kind {
	case outcomeResolved:
		a.repos = append(a.repos, o.repo)
		a.repoToResources[o.repo] = append(a.repoToResources[o.repo], resourceID)
	case outcomeNoReference:
		a.missing = append(a.missing, resourceID)
	case outcomeInvalidReference:
		a.invalid = append(a.invalid, InvalidRef{ResourceID: resourceID, RawURL: o.rawURL})
	case outcomeFetchFailed:
		a.fetchFailed = append(a.fetchFailed, resourceID)
	}
}

func (a *aggregate) finalize() *Result {
	return &Result{
		Repos:           sortedUnique(a.repos),
		Missing:         sortedUnique(a.missing),
		Invalid:         a.invalid,
		FetchErrors:     sortedUnique(a.fetchFailed),
		RepoToResources: a.repoToResources,
		TotalResources:  a.totalResources,
	}
}
