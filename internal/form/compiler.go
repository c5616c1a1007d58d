package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// CoordinateBounds is the optional range policy for inline coordinates. A
// nil bound is not enforced.
type CoordinateBounds struct {
	MaxX          *int64
	MinYExclusive *int64
}

// Resolver reports whether a referenced row still exists. definitive is
// false when the answer is not known for sure, in which case the reference
// is accepted and the Gateway decides.
type Resolver interface {
	Contains(kind models.Collection, id int64) (present, definitive bool)
}

// Compiler validates form graphs and compiles them into Gateway payloads.
// The zero value is ready to use.
type Compiler struct {
	Bounds   CoordinateBounds
	Resolver Resolver
	// Validator overrides the validator used for field rules
	Validator *validator.Validate
}

var defaultValidate = NewValidator()

// NewValidator returns a validator with the rules the compiler relies on
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	return v
}

var organizationTypeRule = func() string {
	names := make([]string, 0, len(models.OrganizationTypes))
	for _, t := range models.OrganizationTypes {
		names = append(names, string(t))
	}
	return "required,oneof=" + strings.Join(names, " ")
}()

// Compile validates f and returns the payload for a create or update call.
// The first failing field is returned as *apperrors.ValidationError.
func (c *Compiler) Compile(f Organization) (*models.OrganizationPayload, error) {
	payload, errs := c.compile(&f)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return payload, nil
}

// Validate returns every failing field of f in form order
func (c *Compiler) Validate(f Organization) []*apperrors.ValidationError {
	_, errs := c.compile(&f)
	return errs
}

// CompileCoordinates validates a standalone coordinates form
func (c *Compiler) CompileCoordinates(in CoordinatesInput) (*models.CoordinatesPayload, error) {
	ck := c.checker()
	payload := c.coordinatesInline(ck, nil, in)
	if err := ck.first(); err != nil {
		return nil, err
	}
	return payload, nil
}

// CompileAddress validates a standalone address form
func (c *Compiler) CompileAddress(in AddressInput) (*models.AddressPayload, error) {
	ck := c.checker()
	payload := c.addressInline(ck, nil, in)
	if err := ck.first(); err != nil {
		return nil, err
	}
	return payload, nil
}

// CompileLocation validates a standalone town form
func (c *Compiler) CompileLocation(in LocationInput) (*models.LocationPayload, error) {
	ck := c.checker()
	payload := c.locationInline(ck, nil, in)
	if err := ck.first(); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Compiler) checker() *checker {
	v := c.Validator
	if v == nil {
		v = defaultValidate
	}
	return &checker{validate: v}
}

func (c *Compiler) compile(f *Organization) (*models.OrganizationPayload, []*apperrors.ValidationError) {
	ck := c.checker()
	payload := &models.OrganizationPayload{}

	if ck.rule(Path{"name"}, f.Name, "notblank") {
		payload.Name = strings.TrimSpace(f.Name)
	}
	if fullName := strings.TrimSpace(f.FullName); fullName != "" {
		payload.FullName = &fullName
	}
	if n, ok := ck.integer(Path{"employeesCount"}, f.EmployeesCount, true); ok && ck.rule(Path{"employeesCount"}, *n, "min=0") {
		payload.EmployeesCount = *n
	}
	orgType := strings.TrimSpace(f.Type)
	if ck.rule(Path{"type"}, orgType, organizationTypeRule) {
		payload.Type = models.OrganizationType(orgType)
	}
	if r, ok := ck.number(Path{"rating"}, f.Rating, false); ok && r != nil && ck.rule(Path{"rating"}, *r, "gt=0") {
		payload.Rating = r
	}
	if t, ok := ck.number(Path{"annualTurnover"}, f.AnnualTurnover, false); ok && t != nil && ck.rule(Path{"annualTurnover"}, *t, "gt=0") {
		payload.AnnualTurnover = t
	}

	coords := Path{"coordinates"}
	if f.Coordinates.Mode == SlotReference {
		payload.CoordinatesID = c.reference(ck, coords, models.CollectionCoordinates, f.Coordinates.ID)
	} else {
		payload.Coordinates = c.coordinatesInline(ck, coords, f.Coordinates.Inline)
	}

	payload.PostalAddressID, payload.PostalAddress = c.address(ck, Path{"postalAddress"}, f.PostalAddress)

	// with reuse the Gateway stores the postal resolution as official address
	// and the official slot stays empty
	payload.ReusePostalAddressAsOfficial = f.ReusePostalAddressAsOfficial
	if !f.ReusePostalAddressAsOfficial {
		payload.OfficialAddressID, payload.OfficialAddress = c.address(ck, Path{"officialAddress"}, f.OfficialAddress)
	}

	if len(ck.errs) > 0 {
		return nil, ck.errs
	}
	return payload, nil
}

func (c *Compiler) reference(ck *checker, path Path, kind models.Collection, id int64) *int64 {
	if id <= 0 {
		ck.fail(path.ID(), fmt.Sprintf("must reference an existing %s", kind.Entity()))
		return nil
	}
	if c.Resolver != nil {
		if present, definitive := c.Resolver.Contains(kind, id); definitive && !present {
			ck.fail(path.ID(), fmt.Sprintf("%s %d no longer exists", kind.Entity(), id))
			return nil
		}
	}
	return &id
}

func (c *Compiler) coordinatesInline(ck *checker, path Path, in CoordinatesInput) *models.CoordinatesPayload {
	x, okX := ck.integer(path.Child("x"), in.X, true)
	if okX && c.Bounds.MaxX != nil {
		okX = ck.rule(path.Child("x"), *x, fmt.Sprintf("max=%d", *c.Bounds.MaxX))
	}
	y, okY := ck.integer(path.Child("y"), in.Y, true)
	if okY && c.Bounds.MinYExclusive != nil {
		okY = ck.rule(path.Child("y"), *y, fmt.Sprintf("gt=%d", *c.Bounds.MinYExclusive))
	}
	if !okX || !okY {
		return nil
	}
	return &models.CoordinatesPayload{X: *x, Y: *y}
}

func (c *Compiler) address(ck *checker, path Path, slot AddressSlot) (*int64, *models.AddressPayload) {
	if slot.Mode == SlotReference {
		return c.reference(ck, path, models.CollectionAddresses, slot.ID), nil
	}
	return nil, c.addressInline(ck, path, slot.Inline)
}

func (c *Compiler) addressInline(ck *checker, path Path, in AddressInput) *models.AddressPayload {
	payload := &models.AddressPayload{}
	ok := true

	zip := strings.TrimSpace(in.ZipCode)
	if ck.rule(path.Child("zipCode"), zip, "omitempty,min=7") {
		if zip != "" {
			payload.ZipCode = &zip
		}
	} else {
		ok = false
	}

	town := path.Child("town")
	if in.Town.Mode == SlotReference {
		payload.TownID = c.reference(ck, town, models.CollectionLocations, in.Town.ID)
		ok = ok && payload.TownID != nil
	} else {
		payload.Town = c.locationInline(ck, town, in.Town.Inline)
		ok = ok && payload.Town != nil
	}

	if !ok {
		return nil
	}
	return payload
}

func (c *Compiler) locationInline(ck *checker, path Path, in LocationInput) *models.LocationPayload {
	okName := ck.rule(path.Child("name"), in.Name, "notblank")
	x, okX := ck.integer(path.Child("x"), in.X, true)
	y, okY := ck.integer(path.Child("y"), in.Y, true)
	z, okZ := ck.number(path.Child("z"), in.Z, true)
	if !okName || !okX || !okY || !okZ {
		return nil
	}
	return &models.LocationPayload{Name: strings.TrimSpace(in.Name), X: *x, Y: *y, Z: *z}
}

// checker accumulates validation failures in the order fields are visited
type checker struct {
	validate *validator.Validate
	errs     []*apperrors.ValidationError
}

func (ck *checker) fail(path Path, message string) {
	ck.errs = append(ck.errs, &apperrors.ValidationError{Path: path.String(), Message: message})
}

func (ck *checker) first() error {
	if len(ck.errs) == 0 {
		return nil
	}
	return ck.errs[0]
}

// rule applies a validator tag to value and records the first failure
func (ck *checker) rule(path Path, value interface{}, tag string) bool {
	err := ck.validate.Var(value, tag)
	if err == nil {
		return true
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		ck.fail(path, ruleMessage(fieldErrs[0]))
	} else {
		ck.fail(path, err.Error())
	}
	return false
}

func (ck *checker) integer(path Path, raw string, required bool) (*int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			ck.fail(path, "is required")
		}
		return nil, !required
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ck.fail(path, "must be an integer")
		return nil, false
	}
	return &n, true
}

func (ck *checker) number(path Path, raw string, required bool) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			ck.fail(path, "is required")
		}
		return nil, !required
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		ck.fail(path, "must be a number")
		return nil, false
	}
	return &f, true
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at least %s characters", fe.Param())
		}
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("failed the %s rule", fe.Tag())
}
