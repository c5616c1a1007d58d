package form

import (
	"testing"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/models"
	"registry-client/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validTown() LocationSlot {
	return LocationSlot{Mode: SlotInline, Inline: LocationInput{Name: "Springfield", X: "1", Y: "2", Z: "3.5"}}
}

func validForm() Organization {
	return Organization{
		Name:           "Acme",
		EmployeesCount: "12",
		Type:           "COMMERCIAL",
		Coordinates:    CoordinatesSlot{Mode: SlotInline, Inline: CoordinatesInput{X: "10", Y: "-20"}},
		PostalAddress: AddressSlot{Mode: SlotInline, Inline: AddressInput{
			ZipCode: "1234567",
			Town:    validTown(),
		}},
		ReusePostalAddressAsOfficial: true,
	}
}

func requireValidationError(t *testing.T, err error, path string) *apperrors.ValidationError {
	t.Helper()
	require.Error(t, err)
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, path, vErr.Path)
	return vErr
}

type staticResolver map[models.Collection]map[int64]bool

func (r staticResolver) Contains(kind models.Collection, id int64) (bool, bool) {
	rows, ok := r[kind]
	if !ok {
		return false, false
	}
	return rows[id], true
}

func TestCompileValidForm(t *testing.T) {
	var c Compiler
	payload, err := c.Compile(validForm())
	require.NoError(t, err)

	assert.Equal(t, "Acme", payload.Name)
	assert.Nil(t, payload.FullName)
	assert.Equal(t, int64(12), payload.EmployeesCount)
	assert.Equal(t, models.OrganizationTypeCommercial, payload.Type)
	assert.Nil(t, payload.Rating)
	assert.Equal(t, &models.CoordinatesPayload{X: 10, Y: -20}, payload.Coordinates)
	assert.Nil(t, payload.CoordinatesID)
	require.NotNil(t, payload.PostalAddress)
	assert.Equal(t, "1234567", *payload.PostalAddress.ZipCode)
	assert.Equal(t, &models.LocationPayload{Name: "Springfield", X: 1, Y: 2, Z: 3.5}, payload.PostalAddress.Town)
	assert.Nil(t, payload.PostalAddress.TownID)
}

func TestCompileFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Organization)
		path    string
		message string
	}{
		{
			name:    "negative employees count",
			mutate:  func(f *Organization) { f.EmployeesCount = "-1" },
			path:    "employeesCount",
			message: "must not be negative",
		},
		{
			name:    "employees count is not an integer",
			mutate:  func(f *Organization) { f.EmployeesCount = "12.5" },
			path:    "employeesCount",
			message: "must be an integer",
		},
		{
			name:    "blank name",
			mutate:  func(f *Organization) { f.Name = "   " },
			path:    "name",
			message: "is required",
		},
		{
			name:    "unknown type",
			mutate:  func(f *Organization) { f.Type = "NONPROFIT" },
			path:    "type",
			message: "must be one of COMMERCIAL, PUBLIC",
		},
		{
			name:    "zero rating",
			mutate:  func(f *Organization) { f.Rating = "0" },
			path:    "rating",
			message: "must be greater than 0",
		},
		{
			name:    "turnover is not a number",
			mutate:  func(f *Organization) { f.AnnualTurnover = "lots" },
			path:    "annualTurnover",
			message: "must be a number",
		},
		{
			name:    "short postal zip code",
			mutate:  func(f *Organization) { f.PostalAddress.Inline.ZipCode = "12345" },
			path:    "postalAddress.zipCode",
			message: "must contain at least 7 characters",
		},
		{
			name:    "zip code length counts characters",
			mutate:  func(f *Organization) { f.PostalAddress.Inline.ZipCode = "ñññññ" },
			path:    "postalAddress.zipCode",
			message: "at least 7",
		},
		{
			name:    "inline town x missing",
			mutate:  func(f *Organization) { f.PostalAddress.Inline.Town.Inline.X = "" },
			path:    "postalAddress.town.x",
			message: "is required",
		},
		{
			name:    "unset coordinates",
			mutate:  func(f *Organization) { f.Coordinates = CoordinatesSlot{} },
			path:    "coordinates.x",
			message: "is required",
		},
		{
			name:    "unset postal address points at the town name",
			mutate:  func(f *Organization) { f.PostalAddress = AddressSlot{} },
			path:    "postalAddress.town.name",
			message: "is required",
		},
		{
			name:    "reference without id",
			mutate:  func(f *Organization) { f.Coordinates = CoordinatesSlot{Mode: SlotReference} },
			path:    "coordinatesId",
			message: "must reference an existing coordinates",
		},
		{
			name: "official address without reuse must resolve",
			mutate: func(f *Organization) {
				f.ReusePostalAddressAsOfficial = false
				f.OfficialAddress = AddressSlot{Mode: SlotInline, Inline: AddressInput{Town: TownReference(0)}}
			},
			path:    "officialAddress.townId",
			message: "must reference an existing location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			var c Compiler
			payload, err := c.Compile(f)
			assert.Nil(t, payload)
			vErr := requireValidationError(t, err, tt.path)
			assert.Contains(t, vErr.Message, tt.message)
		})
	}
}

func TestZipCodeAcceptsSevenCharacters(t *testing.T) {
	f := validForm()
	f.PostalAddress.Inline.ZipCode = "ñññññññ"

	var c Compiler
	payload, err := c.Compile(f)
	require.NoError(t, err)
	assert.Equal(t, "ñññññññ", *payload.PostalAddress.ZipCode)

	f.PostalAddress.Inline.ZipCode = ""
	payload, err = c.Compile(f)
	require.NoError(t, err)
	assert.Nil(t, payload.PostalAddress.ZipCode)
}

func TestReusePostalAddressClearsOfficialSlot(t *testing.T) {
	postalSlots := map[string]AddressSlot{
		"reference": AddressReference(10),
		"inline":    validForm().PostalAddress,
	}
	officialSlots := map[string]AddressSlot{
		"unset":     {},
		"reference": AddressReference(11),
		"invalid":   {Mode: SlotInline, Inline: AddressInput{ZipCode: "1"}},
	}

	var c Compiler
	for postalName, postal := range postalSlots {
		for officialName, official := range officialSlots {
			t.Run(postalName+"/"+officialName, func(t *testing.T) {
				f := validForm()
				f.PostalAddress = postal
				f.OfficialAddress = official
				f.ReusePostalAddressAsOfficial = true

				payload, err := c.Compile(f)
				require.NoError(t, err)
				assert.True(t, payload.ReusePostalAddressAsOfficial)
				assert.Nil(t, payload.OfficialAddressID)
				assert.Nil(t, payload.OfficialAddress)

				resolved := payload.OfficialAddressResolution()
				assert.Equal(t, payload.PostalAddressID, resolved.ID)
				assert.Equal(t, payload.PostalAddress, resolved.Inline)
			})
		}
	}
}

func TestSlotsCompileToReferenceXorInline(t *testing.T) {
	f := validForm()
	f.Coordinates = CoordinatesReference(3)
	f.Coordinates.Inline = CoordinatesInput{X: "1", Y: "1"}
	f.PostalAddress = AddressSlot{Mode: SlotInline, Inline: AddressInput{Town: TownReference(100)}}
	f.ReusePostalAddressAsOfficial = false
	f.OfficialAddress = AddressReference(11)

	var c Compiler
	payload, err := c.Compile(f)
	require.NoError(t, err)

	assert.Equal(t, int64(3), *payload.CoordinatesID)
	assert.Nil(t, payload.Coordinates)
	assert.Nil(t, payload.PostalAddressID)
	assert.Equal(t, int64(100), *payload.PostalAddress.TownID)
	assert.Nil(t, payload.PostalAddress.Town)
	assert.Equal(t, int64(11), *payload.OfficialAddressID)
	assert.Nil(t, payload.OfficialAddress)
	assert.False(t, payload.ReusePostalAddressAsOfficial)
}

func TestCoordinateBounds(t *testing.T) {
	f := validForm()
	f.Coordinates.Inline = CoordinatesInput{X: "900", Y: "-600"}

	var unbounded Compiler
	_, err := unbounded.Compile(f)
	require.NoError(t, err)

	bounded := Compiler{Bounds: CoordinateBounds{MaxX: testutils.Int64Ptr(882), MinYExclusive: testutils.Int64Ptr(-540)}}
	errs := bounded.Validate(f)
	require.Len(t, errs, 2)
	assert.Equal(t, "coordinates.x", errs[0].Path)
	assert.Equal(t, "must be at most 882", errs[0].Message)
	assert.Equal(t, "coordinates.y", errs[1].Path)
	assert.Equal(t, "must be greater than -540", errs[1].Message)

	f.Coordinates.Inline = CoordinatesInput{X: "882", Y: "-539"}
	_, err = bounded.Compile(f)
	assert.NoError(t, err)
}

func TestResolverRejectsVanishedReference(t *testing.T) {
	resolver := staticResolver{
		models.CollectionCoordinates: {3: true},
		models.CollectionAddresses:   {10: true},
	}
	c := Compiler{Resolver: resolver}

	f := validForm()
	f.Coordinates = CoordinatesReference(3)
	f.PostalAddress = AddressReference(10)
	_, err := c.Compile(f)
	require.NoError(t, err)

	f.Coordinates = CoordinatesReference(4)
	_, err = c.Compile(f)
	vErr := requireValidationError(t, err, "coordinatesId")
	assert.Equal(t, "coordinates 4 no longer exists", vErr.Message)

	// locations were never loaded, so the Gateway has the last word
	f.Coordinates = CoordinatesReference(3)
	f.PostalAddress = AddressSlot{Mode: SlotInline, Inline: AddressInput{Town: TownReference(999)}}
	_, err = c.Compile(f)
	assert.NoError(t, err)
}

func TestValidateReportsAllFieldsInFormOrder(t *testing.T) {
	f := Organization{
		EmployeesCount: "-3",
		Rating:         "-1",
		PostalAddress:  AddressSlot{Mode: SlotInline, Inline: AddressInput{ZipCode: "123"}},
	}

	var c Compiler
	var paths []string
	for _, err := range c.Validate(f) {
		paths = append(paths, err.Path)
	}
	assert.Equal(t, []string{
		"name",
		"employeesCount",
		"type",
		"rating",
		"coordinates.x",
		"coordinates.y",
		"postalAddress.zipCode",
		"postalAddress.town.name",
		"postalAddress.town.x",
		"postalAddress.town.y",
		"postalAddress.town.z",
		"officialAddress.town.name",
		"officialAddress.town.x",
		"officialAddress.town.y",
		"officialAddress.town.z",
	}, paths)

	_, err := c.Compile(f)
	requireValidationError(t, err, "name")
}

func TestRoundTripFromFetchedOrganization(t *testing.T) {
	org := testutils.NewOrganizationFactory().Create()
	f := InlineFromOrganization(*org)

	var c Compiler
	assert.Empty(t, c.Validate(f))

	payload, err := c.Compile(f)
	require.NoError(t, err)
	assert.Equal(t, org.Name, payload.Name)
	assert.Equal(t, *org.FullName, *payload.FullName)
	assert.Equal(t, org.EmployeesCount, payload.EmployeesCount)
	assert.Equal(t, org.Type, payload.Type)
	assert.Equal(t, *org.Rating, *payload.Rating)
	assert.Equal(t, *org.AnnualTurnover, *payload.AnnualTurnover)
	assert.Equal(t, &models.CoordinatesPayload{X: org.Coordinates.X, Y: org.Coordinates.Y}, payload.Coordinates)
	assert.Equal(t, org.PostalAddress.Town.Name, payload.PostalAddress.Town.Name)
	assert.Equal(t, org.PostalAddress.Town.Z, payload.PostalAddress.Town.Z)
	assert.False(t, payload.ReusePostalAddressAsOfficial)
	require.NotNil(t, payload.OfficialAddress)

	shared := *org
	shared.OfficialAddress = shared.PostalAddress
	f = InlineFromOrganization(shared)
	assert.True(t, f.ReusePostalAddressAsOfficial)
	assert.Empty(t, c.Validate(f))
}

func TestEditFormReferencesCurrentRows(t *testing.T) {
	org := testutils.NewOrganizationFactory().Create()
	f := FromOrganization(*org)

	assert.Equal(t, SlotReference, f.Coordinates.Mode)
	assert.Equal(t, org.Coordinates.ID, f.Coordinates.ID)
	assert.Equal(t, "10", f.Coordinates.Inline.X)
	assert.Equal(t, SlotReference, f.PostalAddress.Mode)
	assert.Equal(t, org.PostalAddress.ID, f.PostalAddress.ID)
	assert.Equal(t, SlotReference, f.PostalAddress.Inline.Town.Mode)
	assert.Equal(t, org.PostalAddress.Town.ID, f.PostalAddress.Inline.Town.ID)
	assert.Equal(t, "Springfield", f.PostalAddress.Inline.Town.Inline.Name)
	assert.Equal(t, org.OfficialAddress.ID, f.OfficialAddress.ID)

	var c Compiler
	payload, err := c.Compile(f)
	require.NoError(t, err)
	assert.Equal(t, org.Coordinates.ID, *payload.CoordinatesID)
	assert.Nil(t, payload.Coordinates)
	assert.Equal(t, org.PostalAddress.ID, *payload.PostalAddressID)
	assert.Nil(t, payload.PostalAddress)
	assert.Equal(t, org.OfficialAddress.ID, *payload.OfficialAddressID)
	assert.Nil(t, payload.OfficialAddress)
	assert.Empty(t, payload.CreatesReferences())

	shared := *org
	shared.OfficialAddress = shared.PostalAddress
	f = FromOrganization(shared)
	assert.True(t, f.ReusePostalAddressAsOfficial)
	payload, err = c.Compile(f)
	require.NoError(t, err)
	assert.True(t, payload.ReusePostalAddressAsOfficial)
	assert.Nil(t, payload.OfficialAddressID)
}

func TestCompilerWithOwnValidator(t *testing.T) {
	c := Compiler{Validator: NewValidator()}

	f := validForm()
	assert.Empty(t, c.Validate(f))

	f.Name = "   "
	errs := c.Validate(f)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Path)
}

func TestStandaloneForms(t *testing.T) {
	c := Compiler{Bounds: CoordinateBounds{MaxX: testutils.Int64Ptr(882)}}

	coords, err := c.CompileCoordinates(CoordinatesInput{X: "4", Y: "5"})
	require.NoError(t, err)
	assert.Equal(t, &models.CoordinatesPayload{X: 4, Y: 5}, coords)

	_, err = c.CompileCoordinates(CoordinatesInput{X: "883", Y: "5"})
	requireValidationError(t, err, "x")

	_, err = c.CompileCoordinates(CoordinatesInput{X: "4"})
	requireValidationError(t, err, "y")

	addr, err := c.CompileAddress(AddressInput{ZipCode: "7654321", Town: TownReference(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), *addr.TownID)

	_, err = c.CompileAddress(AddressInput{Town: TownReference(0)})
	requireValidationError(t, err, "townId")

	_, err = c.CompileAddress(AddressInput{Town: LocationSlot{Mode: SlotInline, Inline: LocationInput{X: "1", Y: "1", Z: "1"}}})
	requireValidationError(t, err, "town.name")

	loc, err := c.CompileLocation(LocationInput{Name: " Shelbyville ", X: "1", Y: "2", Z: "-0.5"})
	require.NoError(t, err)
	assert.Equal(t, &models.LocationPayload{Name: "Shelbyville", X: 1, Y: 2, Z: -0.5}, loc)

	_, err = c.CompileLocation(LocationInput{Name: "Shelbyville", X: "1", Y: "2", Z: "NaN"})
	requireValidationError(t, err, "z")
}

func TestFormGraphFromYAML(t *testing.T) {
	doc := `
name: Acme
employeesCount: "3"
type: PUBLIC
coordinates:
  mode: reference
  id: 4
postalAddress:
  mode: inline
  inline:
    zipCode: "1234567"
    town:
      mode: reference
      id: 100
reusePostalAddressAsOfficial: true
`
	var f Organization
	require.NoError(t, yaml.Unmarshal([]byte(doc), &f))
	assert.Equal(t, SlotReference, f.Coordinates.Mode)
	assert.Equal(t, SlotInline, f.PostalAddress.Mode)
	assert.Equal(t, SlotReference, f.PostalAddress.Inline.Town.Mode)
	assert.Equal(t, SlotUnset, f.OfficialAddress.Mode)

	var c Compiler
	payload, err := c.Compile(f)
	require.NoError(t, err)
	assert.Equal(t, int64(4), *payload.CoordinatesID)
	assert.Equal(t, int64(100), *payload.PostalAddress.TownID)

	var mode SlotMode
	assert.Error(t, yaml.Unmarshal([]byte("sideways"), &mode))
}

func TestPath(t *testing.T) {
	p := Path{"postalAddress"}.Child("town")
	assert.Equal(t, "postalAddress.town", p.String())
	assert.Equal(t, "postalAddress.townId", p.ID().String())
	assert.Equal(t, "postalAddress.town", p.String())
	assert.Equal(t, "coordinatesId", Path{"coordinates"}.ID().String())
}
