package testutils

import (
	"time"

	"registry-client/internal/models"
)

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization with every slot filled
func (f *OrganizationFactory) Create() *models.Organization {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Organization{
		ID:              1,
		Name:            "Test Organization",
		FullName:        StringPtr("Test Organization LLC"),
		EmployeesCount:  25,
		Type:            models.OrganizationTypeCommercial,
		Rating:          Float64Ptr(4.5),
		AnnualTurnover:  Float64Ptr(125000),
		CreationDate:    &created,
		Coordinates:     NewCoordinatesFactory().Create(),
		PostalAddress:   NewAddressFactory().Create(),
		OfficialAddress: NewAddressFactory().WithID(11),
	}
}

// WithID sets a custom identity for the organization
func (f *OrganizationFactory) WithID(id int64) *models.Organization {
	org := f.Create()
	org.ID = id
	return org
}

// WithName sets a custom name for the organization
func (f *OrganizationFactory) WithName(name string) *models.Organization {
	org := f.Create()
	org.Name = name
	org.FullName = StringPtr(name + " LLC")
	return org
}

// Payload creates an organization payload that references existing entities
func (f *OrganizationFactory) Payload() *models.OrganizationPayload {
	return &models.OrganizationPayload{
		Name:              "Test Organization",
		FullName:          StringPtr("Test Organization LLC"),
		EmployeesCount:    25,
		Type:              models.OrganizationTypeCommercial,
		Rating:            Float64Ptr(4.5),
		AnnualTurnover:    Float64Ptr(125000),
		CoordinatesID:     Int64Ptr(1),
		PostalAddressID:   Int64Ptr(10),
		OfficialAddressID: Int64Ptr(11),
	}
}

// CoordinatesFactory provides methods to create test Coordinates data
type CoordinatesFactory struct{}

// NewCoordinatesFactory creates a new CoordinatesFactory
func NewCoordinatesFactory() *CoordinatesFactory {
	return &CoordinatesFactory{}
}

// Create creates test Coordinates with default values
func (f *CoordinatesFactory) Create() *models.Coordinates {
	return &models.Coordinates{ID: 1, X: 10, Y: 20}
}

// WithID sets a custom identity for the coordinates
func (f *CoordinatesFactory) WithID(id int64) *models.Coordinates {
	c := f.Create()
	c.ID = id
	return c
}

// LocationFactory provides methods to create test Location data
type LocationFactory struct{}

// NewLocationFactory creates a new LocationFactory
func NewLocationFactory() *LocationFactory {
	return &LocationFactory{}
}

// Create creates a test Location with default values
func (f *LocationFactory) Create() *models.Location {
	return &models.Location{ID: 100, Name: "Springfield", X: 1, Y: 2, Z: 3.5}
}

// WithID sets a custom identity for the location
func (f *LocationFactory) WithID(id int64) *models.Location {
	l := f.Create()
	l.ID = id
	return l
}

// AddressFactory provides methods to create test Address data
type AddressFactory struct{}

// NewAddressFactory creates a new AddressFactory
func NewAddressFactory() *AddressFactory {
	return &AddressFactory{}
}

// Create creates a test Address with default values
func (f *AddressFactory) Create() *models.Address {
	return &models.Address{
		ID:      10,
		ZipCode: StringPtr("1234567"),
		Town:    NewLocationFactory().Create(),
	}
}

// WithID sets a custom identity for the address
func (f *AddressFactory) WithID(id int64) *models.Address {
	a := f.Create()
	a.ID = id
	return a
}

// ImportFactory provides methods to create test ImportOperation data
type ImportFactory struct{}

// NewImportFactory creates a new ImportFactory
func NewImportFactory() *ImportFactory {
	return &ImportFactory{}
}

// Create creates a finished test import
func (f *ImportFactory) Create() *models.ImportOperation {
	return &models.ImportOperation{
		ID:         1,
		Status:     models.ImportStatusSuccess,
		Username:   "tester",
		AddedCount: Int64Ptr(3),
	}
}

// WithStatus sets a custom status for the import
func (f *ImportFactory) WithStatus(id int64, status models.ImportStatus) *models.ImportOperation {
	op := f.Create()
	op.ID = id
	op.Status = status
	if status != models.ImportStatusSuccess {
		op.AddedCount = nil
	}
	return op
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to n
func Int64Ptr(n int64) *int64 { return &n }

// Float64Ptr returns a pointer to f
func Float64Ptr(f float64) *float64 { return &f }
