package query

import (
	"slices"

	"registry-client/internal/models"
)

// DefaultPageSize is the page size of every list view
const DefaultPageSize = 10

// View describes one list view: the collection it shows and the search and
// sort fields the Gateway accepts for it
type View struct {
	Collection   models.Collection
	SearchFields []string
	SortFields   []string
	DefaultSort  string
	PageSize     int
}

// Views of the registry
var (
	OrganizationsView = View{
		Collection:   models.CollectionOrganizations,
		SearchFields: []string{"name", "fullName", "postalAddress.zipCode", "postalAddress.town.name"},
		SortFields:   []string{"id", "name", "fullName", "employeesCount", "rating", "annualTurnover", "type", "creationDate"},
		DefaultSort:  "id",
		PageSize:     DefaultPageSize,
	}
	CoordinatesView = View{
		Collection:  models.CollectionCoordinates,
		SortFields:  []string{"id", "x", "y"},
		DefaultSort: "id",
		PageSize:    DefaultPageSize,
	}
	AddressesView = View{
		Collection:  models.CollectionAddresses,
		SortFields:  []string{"id", "zipCode"},
		DefaultSort: "id",
		PageSize:    DefaultPageSize,
	}
	LocationsView = View{
		Collection:  models.CollectionLocations,
		SortFields:  []string{"id", "name", "x", "y", "z"},
		DefaultSort: "id",
		PageSize:    DefaultPageSize,
	}
	ImportsView = View{
		Collection:  models.CollectionImports,
		SortFields:  []string{"id"},
		DefaultSort: "id",
		PageSize:    DefaultPageSize,
	}
)

// ViewFor returns the view of a collection
func ViewFor(c models.Collection) (View, bool) {
	switch c {
	case models.CollectionOrganizations:
		return OrganizationsView, true
	case models.CollectionCoordinates:
		return CoordinatesView, true
	case models.CollectionAddresses:
		return AddressesView, true
	case models.CollectionLocations:
		return LocationsView, true
	case models.CollectionImports:
		return ImportsView, true
	}
	return View{}, false
}

// WithPageSize returns a copy of the view using size rows per page
func (v View) WithPageSize(size int) View {
	if size > 0 {
		v.PageSize = size
	}
	return v
}

// AllowsSearch reports whether field is a search field of the view
func (v View) AllowsSearch(field string) bool {
	return slices.Contains(v.SearchFields, field)
}

// AllowsSort reports whether field is a sort field of the view
func (v View) AllowsSort(field string) bool {
	return slices.Contains(v.SortFields, field)
}
