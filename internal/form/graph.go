package form

import (
	"fmt"
	"strings"
)

// SlotMode selects how a sub-entity slot is resolved
type SlotMode int

const (
	// SlotUnset means nothing was chosen yet. It compiles like an inline slot
	// so the error points at the first missing field.
	SlotUnset SlotMode = iota
	// SlotReference reuses an existing row by id
	SlotReference
	// SlotInline creates the sub-entity together with its parent
	SlotInline
)

var slotModeNames = map[SlotMode]string{
	SlotUnset:     "unset",
	SlotReference: "reference",
	SlotInline:    "inline",
}

func (m SlotMode) String() string {
	if name, ok := slotModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SlotMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler
func (m SlotMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *SlotMode) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*m = SlotUnset
		return nil
	}
	for mode, n := range slotModeNames {
		if n == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown slot mode %q", string(text))
}

// Path is a field path inside a form graph
type Path []string

// Child returns the path of a field nested under p
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// ID returns the path of the reference id of the slot at p, e.g.
// postalAddress -> postalAddressId and postalAddress.town -> postalAddress.townId
func (p Path) ID() Path {
	if len(p) == 0 {
		return Path{"id"}
	}
	out := make(Path, len(p))
	copy(out, p)
	out[len(out)-1] += "Id"
	return out
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Raw field values are kept as entered so that "not a number" and "missing"
// can be told apart.

// CoordinatesInput holds the inline fields of a coordinates slot
type CoordinatesInput struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
}

// LocationInput holds the inline fields of a town
type LocationInput struct {
	Name string `json:"name" yaml:"name"`
	X    string `json:"x" yaml:"x"`
	Y    string `json:"y" yaml:"y"`
	Z    string `json:"z" yaml:"z"`
}

// AddressInput holds the inline fields of an address
type AddressInput struct {
	ZipCode string       `json:"zipCode" yaml:"zipCode"`
	Town    LocationSlot `json:"town" yaml:"town"`
}

// CoordinatesSlot is the coordinates sub-entity of an organization
type CoordinatesSlot struct {
	Mode   SlotMode         `json:"mode" yaml:"mode"`
	ID     int64            `json:"id,omitempty" yaml:"id,omitempty"`
	Inline CoordinatesInput `json:"inline" yaml:"inline"`
}

// LocationSlot is the town of an address
type LocationSlot struct {
	Mode   SlotMode      `json:"mode" yaml:"mode"`
	ID     int64         `json:"id,omitempty" yaml:"id,omitempty"`
	Inline LocationInput `json:"inline" yaml:"inline"`
}

// AddressSlot is a postal or official address of an organization
type AddressSlot struct {
	Mode   SlotMode     `json:"mode" yaml:"mode"`
	ID     int64        `json:"id,omitempty" yaml:"id,omitempty"`
	Inline AddressInput `json:"inline" yaml:"inline"`
}

// Organization is the form graph of the organization create and edit forms
type Organization struct {
	Name           string `json:"name" yaml:"name"`
	FullName       string `json:"fullName" yaml:"fullName"`
	EmployeesCount string `json:"employeesCount" yaml:"employeesCount"`
	Type           string `json:"type" yaml:"type"`
	Rating         string `json:"rating" yaml:"rating"`
	AnnualTurnover string `json:"annualTurnover" yaml:"annualTurnover"`

	Coordinates     CoordinatesSlot `json:"coordinates" yaml:"coordinates"`
	PostalAddress   AddressSlot     `json:"postalAddress" yaml:"postalAddress"`
	OfficialAddress AddressSlot     `json:"officialAddress" yaml:"officialAddress"`

	ReusePostalAddressAsOfficial bool `json:"reusePostalAddressAsOfficial" yaml:"reusePostalAddressAsOfficial"`
}

// CoordinatesReference points a coordinates slot at an existing row
func CoordinatesReference(id int64) CoordinatesSlot {
	return CoordinatesSlot{Mode: SlotReference, ID: id}
}

// AddressReference points an address slot at an existing row
func AddressReference(id int64) AddressSlot {
	return AddressSlot{Mode: SlotReference, ID: id}
}

// TownReference points a town slot at an existing row
func TownReference(id int64) LocationSlot {
	return LocationSlot{Mode: SlotReference, ID: id}
}
