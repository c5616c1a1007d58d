package models

// CoordinatesPayload is the inline creation object for coordinates
type CoordinatesPayload struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
}

// LocationPayload is the inline creation object for a town
type LocationPayload struct {
	Name string  `json:"name" yaml:"name"`
	X    int64   `json:"x" yaml:"x"`
	Y    int64   `json:"y" yaml:"y"`
	Z    float64 `json:"z" yaml:"z"`
}

// AddressPayload is the inline creation object for an address. Exactly one of
// TownID and Town is set.
type AddressPayload struct {
	ZipCode *string          `json:"zipCode,omitempty" yaml:"zipCode,omitempty"`
	TownID  *int64           `json:"townId,omitempty" yaml:"townId,omitempty"`
	Town    *LocationPayload `json:"town,omitempty" yaml:"town,omitempty"`
}

// OrganizationPayload is the create/update body for an organization. For each
// sub-entity slot either the <slot>Id field or the inline <slot> object is set,
// never both.
type OrganizationPayload struct {
	Name           string           `json:"name" yaml:"name"`
	FullName       *string          `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	EmployeesCount int64            `json:"employeesCount" yaml:"employeesCount"`
	Type           OrganizationType `json:"type" yaml:"type"`
	Rating         *float64         `json:"rating,omitempty" yaml:"rating,omitempty"`
	AnnualTurnover *float64         `json:"annualTurnover,omitempty" yaml:"annualTurnover,omitempty"`

	CoordinatesID *int64              `json:"coordinatesId,omitempty" yaml:"coordinatesId,omitempty"`
	Coordinates   *CoordinatesPayload `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`

	PostalAddressID *int64          `json:"postalAddressId,omitempty" yaml:"postalAddressId,omitempty"`
	PostalAddress   *AddressPayload `json:"postalAddress,omitempty" yaml:"postalAddress,omitempty"`

	OfficialAddressID *int64          `json:"officialAddressId,omitempty" yaml:"officialAddressId,omitempty"`
	OfficialAddress   *AddressPayload `json:"officialAddress,omitempty" yaml:"officialAddress,omitempty"`

	ReusePostalAddressAsOfficial bool `json:"reusePostalAddressAsOfficial" yaml:"reusePostalAddressAsOfficial"`
}

// AddressResolution is either a reference to an existing address or an
// inline creation object
type AddressResolution struct {
	ID     *int64
	Inline *AddressPayload
}

// OfficialAddressResolution returns what the Gateway stores as the official
// address. With reuse enabled the official slot is empty and the postal
// resolution is used.
func (p *OrganizationPayload) OfficialAddressResolution() AddressResolution {
	if p.ReusePostalAddressAsOfficial {
		return AddressResolution{ID: p.PostalAddressID, Inline: p.PostalAddress}
	}
	return AddressResolution{ID: p.OfficialAddressID, Inline: p.OfficialAddress}
}

// CreatesReferences reports which reference collections receive new rows when
// this payload is stored
func (p *OrganizationPayload) CreatesReferences() []Collection {
	var out []Collection
	if p.Coordinates != nil {
		out = append(out, CollectionCoordinates)
	}
	inlineAddress := p.PostalAddress != nil || (!p.ReusePostalAddressAsOfficial && p.OfficialAddress != nil)
	if inlineAddress {
		out = append(out, CollectionAddresses)
	}
	for _, a := range []*AddressPayload{p.PostalAddress, p.OfficialAddress} {
		if a != nil && a.Town != nil {
			out = append(out, CollectionLocations)
			break
		}
	}
	return out
}
