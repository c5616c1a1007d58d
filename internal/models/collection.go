package models

// Collection names a Gateway entity collection. The same name is used for the
// REST path segment and for the push topic.
type Collection string

const (
	CollectionOrganizations Collection = "organizations"
	CollectionCoordinates   Collection = "coordinates"
	CollectionAddresses     Collection = "addresses"
	CollectionLocations     Collection = "locations"
	CollectionImports       Collection = "imports"
)

// Collections lists every collection with a push topic
var Collections = []Collection{
	CollectionOrganizations,
	CollectionCoordinates,
	CollectionAddresses,
	CollectionLocations,
	CollectionImports,
}

// Path returns the REST path of the collection
func (c Collection) Path() string {
	if c == CollectionImports {
		return "/api/imports"
	}
	return "/api/" + string(c)
}

// Topic returns the push topic of the collection
func (c Collection) Topic() string {
	return "/topic/" + string(c)
}

// CollectionFromTopic resolves a push topic back to its collection
func CollectionFromTopic(topic string) (Collection, bool) {
	for _, c := range Collections {
		if c.Topic() == topic {
			return c, true
		}
	}
	return "", false
}

// ParseCollection resolves a user supplied collection name
func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Entity returns the singular entity name used in errors and notices
func (c Collection) Entity() string {
	switch c {
	case CollectionOrganizations:
		return "organization"
	case CollectionCoordinates:
		return "coordinates"
	case CollectionAddresses:
		return "address"
	case CollectionLocations:
		return "location"
	case CollectionImports:
		return "import"
	}
	return string(c)
}

// Dependents returns the collections whose rows a cascading delete of c can
// remove
func (c Collection) Dependents() []Collection {
	switch c {
	case CollectionCoordinates:
		return []Collection{CollectionOrganizations}
	case CollectionAddresses:
		return []Collection{CollectionOrganizations}
	case CollectionLocations:
		return []Collection{CollectionAddresses, CollectionOrganizations}
	}
	return nil
}
