package form

import (
	"strconv"

	"registry-client/internal/models"
)

// FromOrganization builds the edit form of a fetched organization. Every
// sub-entity is a reference to the row the organization already uses, so an
// unchanged edit keeps the shared rows. The inline fields carry the current
// values for display and for switching a slot to inline. The official address
// is marked as reused when it is the same row as the postal address.
func FromOrganization(org models.Organization) Organization {
	return fromOrganization(org, SlotReference)
}

// InlineFromOrganization builds a form that re-creates every sub-entity of org
// inline, e.g. to copy an organization onto new rows
func InlineFromOrganization(org models.Organization) Organization {
	return fromOrganization(org, SlotInline)
}

func fromOrganization(org models.Organization, mode SlotMode) Organization {
	f := Organization{
		Name:           org.Name,
		FullName:       derefString(org.FullName),
		EmployeesCount: strconv.FormatInt(org.EmployeesCount, 10),
		Type:           string(org.Type),
		Rating:         formatOptionalFloat(org.Rating),
		AnnualTurnover: formatOptionalFloat(org.AnnualTurnover),
	}

	if org.Coordinates != nil {
		f.Coordinates = CoordinatesSlot{
			Mode: mode,
			Inline: CoordinatesInput{
				X: strconv.FormatInt(org.Coordinates.X, 10),
				Y: strconv.FormatInt(org.Coordinates.Y, 10),
			},
		}
		if mode == SlotReference {
			f.Coordinates.ID = org.Coordinates.ID
		}
	}

	f.PostalAddress = addressSlot(org.PostalAddress, mode)
	if org.PostalAddress != nil && org.OfficialAddress != nil && org.PostalAddress.ID == org.OfficialAddress.ID {
		f.ReusePostalAddressAsOfficial = true
	} else {
		f.OfficialAddress = addressSlot(org.OfficialAddress, mode)
	}
	return f
}

func addressSlot(a *models.Address, mode SlotMode) AddressSlot {
	if a == nil {
		return AddressSlot{}
	}
	slot := AddressSlot{
		Mode:   mode,
		Inline: AddressInput{ZipCode: derefString(a.ZipCode)},
	}
	if mode == SlotReference {
		slot.ID = a.ID
	}
	if a.Town != nil {
		slot.Inline.Town = LocationSlot{
			Mode: mode,
			Inline: LocationInput{
				Name: a.Town.Name,
				X:    strconv.FormatInt(a.Town.X, 10),
				Y:    strconv.FormatInt(a.Town.Y, 10),
				Z:    strconv.FormatFloat(a.Town.Z, 'g', -1, 64),
			},
		}
		if mode == SlotReference {
			slot.Inline.Town.ID = a.Town.ID
		}
	}
	return slot
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
