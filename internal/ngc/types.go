package ngc

// SearchQuery holds the catalog search parameters shared by all pages of one run
type SearchQuery struct {
	// OrgName is the NGC organization whose catalog is searched
	OrgName string

	// Label filters catalog entries by label value (e.g. "blueprint")
	Label string

	// PageSize is the number of entries requested per page
	PageSize int
}

// SearchResultPage is one page of catalog search results.
// Results are grouped; FlattenResources joins all groups into one list.
type SearchResultPage struct {
	// ResultTotal is the registry-reported total result count.
	// Only present on some responses, hence the pointer.
	ResultTotal *int `json:"resultTotal,omitempty"`

	Results []ResultGroup `json:"results"`
}

// ResultGroup is a grouped collection of catalog entries within a search page
type ResultGroup struct {
	Resources []Resource `json:"resources"`
}

// Resource identifies a single catalog entry
type Resource struct {
	ResourceID string `json:"resourceId"`
	Name       string `json:"name"`
}

// FlattenResources joins all result groups into a single resource list,
// preserving page order.
func (p *SearchResultPage) FlattenResources() []Resource {
	var resources []Resource
	for _, group := range p.Results {
		resources = append(resources, group.Resources...)
	}
	return resources
}
