package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"registry-client/internal/models"

	"github.com/gin-gonic/gin"
)

// CascadeRequiredCode is the conflict code the fake Gateway sends when a
// delete is blocked by references
const CascadeRequiredCode = "CASCADE_REQUIRED"

// RecordedRequest is one request seen by the fake Gateway
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

type failure struct {
	method string
	path   string
	status int
	body   gin.H
}

type addressRecord struct {
	id     int64
	zip    *string
	townID int64
}

type organizationRecord struct {
	org           models.Organization
	coordinatesID int64
	postalID      int64
	officialID    int64
}

type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

// FakeGateway is an in-memory Remote Resource Gateway served by gin. It keeps
// the reference rules of the real service so cascade deletion can be tested
// end to end.
type FakeGateway struct {
	*HTTPTestSuite

	// CascadeFlagStyle makes conflicts carry "requiresCascade": true instead
	// of the code field
	CascadeFlagStyle bool

	mu            sync.Mutex
	nextID        int64
	organizations map[int64]*organizationRecord
	coordinates   map[int64]models.Coordinates
	addresses     map[int64]*addressRecord
	locations     map[int64]models.Location
	imports       []models.ImportOperation
	requests      []RecordedRequest
	failures      []failure
}

// NewFakeGateway creates an empty fake Gateway with its routes registered
func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{
		HTTPTestSuite: SetupHTTPTest(),
		nextID:        1000,
		organizations: map[int64]*organizationRecord{},
		coordinates:   map[int64]models.Coordinates{},
		addresses:     map[int64]*addressRecord{},
		locations:     map[int64]models.Location{},
	}
	g.setupRoutes()
	return g
}

// Start serves the fake Gateway over HTTP until the test ends and returns its
// base URL
func (g *FakeGateway) Start(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(g.Router)
	t.Cleanup(server.Close)
	return server.URL
}

// Requests returns the requests seen so far
func (g *FakeGateway) Requests() []RecordedRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]RecordedRequest, len(g.requests))
	copy(out, g.requests)
	return out
}

// RequestsTo returns the requests seen for method and path
func (g *FakeGateway) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range g.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// FailNext makes the next request to method and path answer with status and
// body instead of being served
func (g *FakeGateway) FailNext(method, path string, status int, body gin.H) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = append(g.failures, failure{method: method, path: path, status: status, body: body})
}

// AddCoordinates stores coordinates and returns them with their identity
func (g *FakeGateway) AddCoordinates(x, y int64) models.Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCoordinates(models.CoordinatesPayload{X: x, Y: y})
}

// AddLocation stores a town and returns it with its identity
func (g *FakeGateway) AddLocation(name string, x, y int64, z float64) models.Location {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createLocation(models.LocationPayload{Name: name, X: x, Y: y, Z: z})
}

// AddAddress stores an address referencing an existing town (0 for none)
func (g *FakeGateway) AddAddress(zip *string, townID int64) models.Address {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.addresses[g.nextID] = &addressRecord{id: g.nextID, zip: zip, townID: townID}
	return *g.renderAddress(g.nextID)
}

// AddOrganization stores an organization exactly as a POST would
func (g *FakeGateway) AddOrganization(payload models.OrganizationPayload) (models.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.storeOrganization(0, payload)
}

// RemoveOrganization deletes an organization behind the client's back
func (g *FakeGateway) RemoveOrganization(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.organizations, id)
}

// AddImport appends an entry to the import history
func (g *FakeGateway) AddImport(op models.ImportOperation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.imports = append(g.imports, op)
}

// SetImportStatus changes the status of an import history entry
func (g *FakeGateway) SetImportStatus(id int64, status models.ImportStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.imports {
		if g.imports[i].ID == id {
			g.imports[i].Status = status
		}
	}
}

// Count returns the number of stored entities of a collection
func (g *FakeGateway) Count(collection models.Collection) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch collection {
	case models.CollectionOrganizations:
		return len(g.organizations)
	case models.CollectionCoordinates:
		return len(g.coordinates)
	case models.CollectionAddresses:
		return len(g.addresses)
	case models.CollectionLocations:
		return len(g.locations)
	case models.CollectionImports:
		return len(g.imports)
	}
	return 0
}

// Organization returns a stored organization
func (g *FakeGateway) Organization(id int64) (models.Organization, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.organizations[id]
	if !ok {
		return models.Organization{}, false
	}
	return g.renderOrganization(rec), true
}

func (g *FakeGateway) setupRoutes() {
	g.Router.Use(g.record)

	api := g.Router.Group("/api")

	orgs := api.Group("/organizations")
	orgs.GET("", g.listOrganizations)
	orgs.GET("/types", g.organizationTypes)
	orgs.GET("/:id", g.getOrganization)
	orgs.POST("", g.createOrganization)
	orgs.PUT("/:id", g.updateOrganization)
	orgs.DELETE("/:id", g.deleteOrganization)

	coords := api.Group("/coordinates")
	coords.GET("", g.listCoordinates)
	coords.GET("/:id", g.getCoordinates)
	coords.POST("", g.postCoordinates)
	coords.DELETE("/:id", g.deleteCoordinates)

	addrs := api.Group("/addresses")
	addrs.GET("", g.listAddresses)
	addrs.GET("/:id", g.getAddress)
	addrs.DELETE("/:id", g.deleteAddress)

	locs := api.Group("/locations")
	locs.GET("", g.listLocations)
	locs.GET("/:id", g.getLocation)
	locs.POST("", g.postLocation)
	locs.DELETE("/:id", g.deleteLocation)

	api.GET("/imports", g.listImports)

	ops := api.Group("/operations")
	ops.GET("/minimal-coordinates", g.minimalCoordinates)
	ops.GET("/group-by-rating", g.groupByRating)
	ops.GET("/count-by-type", g.countByType)
	ops.POST("/dismiss-employees", g.dismissEmployees)
	ops.POST("/absorb", g.absorb)
}

func (g *FakeGateway) record(c *gin.Context) {
	g.mu.Lock()
	g.requests = append(g.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
	})
	for i, f := range g.failures {
		if f.method == c.Request.Method && f.path == c.Request.URL.Path {
			g.failures = append(g.failures[:i], g.failures[i+1:]...)
			g.mu.Unlock()
			c.AbortWithStatusJSON(f.status, f.body)
			return
		}
	}
	g.mu.Unlock()
	c.Next()
}

func (g *FakeGateway) fail(c *gin.Context, err error) {
	if reqErr, ok := err.(*requestError); ok {
		c.JSON(reqErr.status, gin.H{"error": reqErr.message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (g *FakeGateway) conflict(c *gin.Context, entity string, id int64) {
	body := gin.H{"error": fmt.Sprintf("%s %d is still referenced", entity, id)}
	if g.CascadeFlagStyle {
		body["requiresCascade"] = true
	} else {
		body["code"] = CascadeRequiredCode
	}
	c.JSON(http.StatusConflict, body)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// listParams is the parsed paging query of a list request
type listParams struct {
	page        int
	size        int
	sort        string
	desc        bool
	search      string
	searchField string
}

func parseListParams(c *gin.Context) listParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 {
		size = 10
	}
	return listParams{
		page:        page,
		size:        size,
		sort:        c.Query("sort"),
		desc:        c.Query("dir") == string(models.SortDesc),
		search:      strings.ToLower(c.Query("search")),
		searchField: c.DefaultQuery("searchField", "name"),
	}
}

func compareKeys(a, b interface{}) int {
	switch av := a.(type) {
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

// respondPage filters, sorts and slices items the way the Gateway does
func respondPage[T any](c *gin.Context, items []T, id func(T) int64, key func(T, string) (interface{}, bool), text func(T, string) (string, bool)) {
	params := parseListParams(c)

	if params.search != "" {
		filtered := items[:0]
		for _, item := range items {
			value, ok := text(item, params.searchField)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown search field " + params.searchField})
				return
			}
			if strings.Contains(strings.ToLower(value), params.search) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	field := params.sort
	if field == "" {
		field = "id"
	}
	if _, ok := key(*new(T), field); !ok && field != "id" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort field " + field})
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		var cmp int
		if field == "id" {
			cmp = compareKeys(id(items[i]), id(items[j]))
		} else {
			ki, _ := key(items[i], field)
			kj, _ := key(items[j], field)
			cmp = compareKeys(ki, kj)
		}
		if params.desc {
			return cmp > 0
		}
		return cmp < 0
	})

	total := len(items)
	totalPages := (total + params.size - 1) / params.size
	start := params.page * params.size
	if start > total {
		start = total
	}
	end := start + params.size
	if end > total {
		end = total
	}
	content := append([]T{}, items[start:end]...)

	c.JSON(http.StatusOK, models.Page[T]{
		Content:       content,
		TotalPages:    totalPages,
		TotalElements: int64(total),
		Number:        params.page,
		Size:          params.size,
	})
}

func (g *FakeGateway) listOrganizations(c *gin.Context) {
	g.mu.Lock()
	items := make([]models.Organization, 0, len(g.organizations))
	for _, rec := range g.organizations {
		items = append(items, g.renderOrganization(rec))
	}
	g.mu.Unlock()

	respondPage(c, items,
		func(o models.Organization) int64 { return o.ID },
		func(o models.Organization, field string) (interface{}, bool) {
			switch field {
			case "name":
				return o.Name, true
			case "employeesCount":
				return o.EmployeesCount, true
			case "type":
				return string(o.Type), true
			case "rating":
				return floatOrZero(o.Rating), true
			case "annualTurnover":
				return floatOrZero(o.AnnualTurnover), true
			}
			return nil, false
		},
		func(o models.Organization, field string) (string, bool) {
			switch field {
			case "name":
				return o.Name, true
			case "fullName":
				return stringOrEmpty(o.FullName), true
			case "postalAddress.zipCode":
				if o.PostalAddress == nil {
					return "", true
				}
				return stringOrEmpty(o.PostalAddress.ZipCode), true
			case "postalAddress.town.name":
				if o.PostalAddress == nil || o.PostalAddress.Town == nil {
					return "", true
				}
				return o.PostalAddress.Town.Name, true
			}
			return "", false
		})
}

func (g *FakeGateway) organizationTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.OrganizationTypes)
}

func (g *FakeGateway) getOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, found := g.Organization(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	c.JSON(http.StatusOK, org)
}

func (g *FakeGateway) createOrganization(c *gin.Context) {
	var payload models.OrganizationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.mu.Lock()
	org, err := g.storeOrganization(0, payload)
	g.mu.Unlock()
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (g *FakeGateway) updateOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload models.OrganizationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.mu.Lock()
	org, err := g.storeOrganization(id, payload)
	g.mu.Unlock()
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (g *FakeGateway) deleteOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.organizations[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	delete(g.organizations, id)
	c.Status(http.StatusNoContent)
}

func (g *FakeGateway) listCoordinates(c *gin.Context) {
	g.mu.Lock()
	items := make([]models.Coordinates, 0, len(g.coordinates))
	for _, coords := range g.coordinates {
		items = append(items, coords)
	}
	g.mu.Unlock()

	respondPage(c, items,
		func(v models.Coordinates) int64 { return v.ID },
		func(v models.Coordinates, field string) (interface{}, bool) {
			switch field {
			case "x":
				return v.X, true
			case "y":
				return v.Y, true
			}
			return nil, false
		},
		func(v models.Coordinates, field string) (string, bool) {
			return "", false
		})
}

func (g *FakeGateway) getCoordinates(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	coords, found := g.coordinates[id]
	g.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "coordinates not found"})
		return
	}
	c.JSON(http.StatusOK, coords)
}

func (g *FakeGateway) postCoordinates(c *gin.Context) {
	var payload models.CoordinatesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.mu.Lock()
	coords := g.createCoordinates(payload)
	g.mu.Unlock()
	c.JSON(http.StatusCreated, coords)
}

func (g *FakeGateway) deleteCoordinates(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.coordinates[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "coordinates not found"})
		return
	}
	var refs []int64
	for orgID, rec := range g.organizations {
		if rec.coordinatesID == id {
			refs = append(refs, orgID)
		}
	}
	if len(refs) > 0 && c.Query("cascadeDelete") != "true" {
		g.conflict(c, "coordinates", id)
		return
	}
	for _, orgID := range refs {
		delete(g.organizations, orgID)
	}
	delete(g.coordinates, id)
	c.Status(http.StatusNoContent)
}

func (g *FakeGateway) listAddresses(c *gin.Context) {
	g.mu.Lock()
	items := make([]models.Address, 0, len(g.addresses))
	for id := range g.addresses {
		items = append(items, *g.renderAddress(id))
	}
	g.mu.Unlock()

	respondPage(c, items,
		func(v models.Address) int64 { return v.ID },
		func(v models.Address, field string) (interface{}, bool) {
			if field == "zipCode" {
				return stringOrEmpty(v.ZipCode), true
			}
			return nil, false
		},
		func(v models.Address, field string) (string, bool) {
			switch field {
			case "zipCode":
				return stringOrEmpty(v.ZipCode), true
			case "town.name":
				if v.Town == nil {
					return "", true
				}
				return v.Town.Name, true
			}
			return "", false
		})
}

func (g *FakeGateway) getAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.addresses[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	c.JSON(http.StatusOK, g.renderAddress(id))
}

func (g *FakeGateway) deleteAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.addresses[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	refs := g.organizationsUsingAddress(id)
	if len(refs) > 0 && c.Query("cascadeDelete") != "true" {
		g.conflict(c, "address", id)
		return
	}
	for _, orgID := range refs {
		delete(g.organizations, orgID)
	}
	delete(g.addresses, id)
	c.Status(http.StatusNoContent)
}

func (g *FakeGateway) listLocations(c *gin.Context) {
	g.mu.Lock()
	items := make([]models.Location, 0, len(g.locations))
	for _, loc := range g.locations {
		items = append(items, loc)
	}
	g.mu.Unlock()

	respondPage(c, items,
		func(v models.Location) int64 { return v.ID },
		func(v models.Location, field string) (interface{}, bool) {
			if field == "name" {
				return v.Name, true
			}
			return nil, false
		},
		func(v models.Location, field string) (string, bool) {
			if field == "name" {
				return v.Name, true
			}
			return "", false
		})
}

func (g *FakeGateway) getLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	loc, found := g.locations[id]
	g.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (g *FakeGateway) postLocation(c *gin.Context) {
	var payload models.LocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.mu.Lock()
	loc := g.createLocation(payload)
	g.mu.Unlock()
	c.JSON(http.StatusCreated, loc)
}

func (g *FakeGateway) deleteLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.locations[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	var addressRefs []int64
	for addrID, rec := range g.addresses {
		if rec.townID == id {
			addressRefs = append(addressRefs, addrID)
		}
	}
	if len(addressRefs) > 0 && c.Query("cascadeDelete") != "true" {
		g.conflict(c, "location", id)
		return
	}
	for _, addrID := range addressRefs {
		for _, orgID := range g.organizationsUsingAddress(addrID) {
			delete(g.organizations, orgID)
		}
		delete(g.addresses, addrID)
	}
	delete(g.locations, id)
	c.Status(http.StatusNoContent)
}

func (g *FakeGateway) listImports(c *gin.Context) {
	g.mu.Lock()
	items := append([]models.ImportOperation{}, g.imports...)
	g.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (g *FakeGateway) minimalCoordinates(c *gin.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var best *organizationRecord
	for _, rec := range g.organizations {
		coords := g.coordinates[rec.coordinatesID]
		if best == nil {
			best = rec
			continue
		}
		current := g.coordinates[best.coordinatesID]
		if coords.X < current.X || (coords.X == current.X && coords.Y < current.Y) ||
			(coords == current && rec.org.ID < best.org.ID) {
			best = rec
		}
	}
	if best == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no organizations"})
		return
	}
	c.JSON(http.StatusOK, g.renderOrganization(best))
}

func (g *FakeGateway) groupByRating(c *gin.Context) {
	g.mu.Lock()
	counts := map[float64]int64{}
	for _, rec := range g.organizations {
		if rec.org.Rating != nil {
			counts[*rec.org.Rating]++
		}
	}
	g.mu.Unlock()

	groups := make([]models.RatingGroup, 0, len(counts))
	for rating, count := range counts {
		groups = append(groups, models.RatingGroup{Rating: rating, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Rating < groups[j].Rating })
	c.JSON(http.StatusOK, groups)
}

func (g *FakeGateway) countByType(c *gin.Context) {
	orgType := models.OrganizationType(c.Query("type"))
	if !orgType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown organization type"})
		return
	}
	g.mu.Lock()
	var count int64
	for _, rec := range g.organizations {
		if rec.org.Type == orgType {
			count++
		}
	}
	g.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (g *FakeGateway) dismissEmployees(c *gin.Context) {
	id, ok := queryID(c, "organizationId")
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, found := g.organizations[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	rec.org.EmployeesCount = 0
	c.JSON(http.StatusOK, models.OperationMessage{Message: fmt.Sprintf("all employees of organization %d dismissed", id)})
}

func (g *FakeGateway) absorb(c *gin.Context) {
	absorbingID, ok := queryID(c, "absorbingId")
	if !ok {
		return
	}
	absorbedID, ok := queryID(c, "absorbedId")
	if !ok {
		return
	}
	if absorbingID == absorbedID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an organization cannot absorb itself"})
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	absorbing, found := g.organizations[absorbingID]
	absorbed, foundAbsorbed := g.organizations[absorbedID]
	if !found || !foundAbsorbed {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	absorbing.org.EmployeesCount += absorbed.org.EmployeesCount
	delete(g.organizations, absorbedID)
	c.JSON(http.StatusOK, models.OperationMessage{Message: fmt.Sprintf("organization %d absorbed %d", absorbingID, absorbedID)})
}

// storeOrganization creates (id == 0) or replaces an organization. The caller
// holds g.mu.
func (g *FakeGateway) storeOrganization(id int64, p models.OrganizationPayload) (models.Organization, error) {
	if id != 0 {
		if _, found := g.organizations[id]; !found {
			return models.Organization{}, &requestError{status: http.StatusNotFound, message: "organization not found"}
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "name must not be blank"}
	}
	if p.EmployeesCount < 0 {
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "employeesCount must not be negative"}
	}
	if !p.Type.IsValid() {
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "unknown organization type"}
	}

	var coordinatesID int64
	switch {
	case p.CoordinatesID != nil && p.Coordinates != nil:
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "coordinates: both id and inline object given"}
	case p.CoordinatesID != nil:
		if _, found := g.coordinates[*p.CoordinatesID]; !found {
			return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "coordinates not found"}
		}
		coordinatesID = *p.CoordinatesID
	case p.Coordinates != nil:
		coordinatesID = g.createCoordinates(*p.Coordinates).ID
	default:
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "coordinates are required"}
	}

	postalID, err := g.resolveAddress("postalAddress", p.PostalAddressID, p.PostalAddress)
	if err != nil {
		return models.Organization{}, err
	}
	if postalID == 0 {
		return models.Organization{}, &requestError{status: http.StatusBadRequest, message: "postalAddress is required"}
	}

	officialID := postalID
	if !p.ReusePostalAddressAsOfficial {
		officialID, err = g.resolveAddress("officialAddress", p.OfficialAddressID, p.OfficialAddress)
		if err != nil {
			return models.Organization{}, err
		}
	}

	if id == 0 {
		g.nextID++
		id = g.nextID
	}
	rec := &organizationRecord{
		org: models.Organization{
			ID:             id,
			Name:           p.Name,
			FullName:       p.FullName,
			EmployeesCount: p.EmployeesCount,
			Type:           p.Type,
			Rating:         p.Rating,
			AnnualTurnover: p.AnnualTurnover,
		},
		coordinatesID: coordinatesID,
		postalID:      postalID,
		officialID:    officialID,
	}
	g.organizations[id] = rec
	return g.renderOrganization(rec), nil
}

func (g *FakeGateway) resolveAddress(path string, id *int64, inline *models.AddressPayload) (int64, error) {
	switch {
	case id != nil && inline != nil:
		return 0, &requestError{status: http.StatusBadRequest, message: path + ": both id and inline object given"}
	case id != nil:
		if _, found := g.addresses[*id]; !found {
			return 0, &requestError{status: http.StatusBadRequest, message: path + ": address not found"}
		}
		return *id, nil
	case inline != nil:
		var townID int64
		switch {
		case inline.TownID != nil:
			if _, found := g.locations[*inline.TownID]; !found {
				return 0, &requestError{status: http.StatusBadRequest, message: path + ": town not found"}
			}
			townID = *inline.TownID
		case inline.Town != nil:
			townID = g.createLocation(*inline.Town).ID
		}
		g.nextID++
		g.addresses[g.nextID] = &addressRecord{id: g.nextID, zip: inline.ZipCode, townID: townID}
		return g.nextID, nil
	}
	return 0, nil
}

func (g *FakeGateway) createCoordinates(p models.CoordinatesPayload) models.Coordinates {
	g.nextID++
	coords := models.Coordinates{ID: g.nextID, X: p.X, Y: p.Y}
	g.coordinates[coords.ID] = coords
	return coords
}

func (g *FakeGateway) createLocation(p models.LocationPayload) models.Location {
	g.nextID++
	loc := models.Location{ID: g.nextID, Name: p.Name, X: p.X, Y: p.Y, Z: p.Z}
	g.locations[loc.ID] = loc
	return loc
}

func (g *FakeGateway) organizationsUsingAddress(addressID int64) []int64 {
	var refs []int64
	for orgID, rec := range g.organizations {
		if rec.postalID == addressID || rec.officialID == addressID {
			refs = append(refs, orgID)
		}
	}
	return refs
}

func (g *FakeGateway) renderAddress(id int64) *models.Address {
	rec, ok := g.addresses[id]
	if !ok {
		return nil
	}
	addr := &models.Address{ID: rec.id, ZipCode: rec.zip}
	if loc, found := g.locations[rec.townID]; found {
		addr.Town = &loc
	}
	return addr
}

func (g *FakeGateway) renderOrganization(rec *organizationRecord) models.Organization {
	org := rec.org
	if coords, found := g.coordinates[rec.coordinatesID]; found {
		org.Coordinates = &coords
	}
	org.PostalAddress = g.renderAddress(rec.postalID)
	org.OfficialAddress = g.renderAddress(rec.officialID)
	return org
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
