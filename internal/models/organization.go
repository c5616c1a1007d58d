package models

import (
	"fmt"
	"time"
)

// Coordinates is a shared point referenced by organizations
type Coordinates struct {
	ID int64 `json:"id" yaml:"id"`
	X  int64 `json:"x" yaml:"x"`
	Y  int64 `json:"y" yaml:"y"`
}

// Label returns the text shown in "reuse existing" selectors
func (c Coordinates) Label() string {
	return fmt.Sprintf("#%d (%d; %d)", c.ID, c.X, c.Y)
}

// Location is a town referenced by addresses
type Location struct {
	ID   int64   `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	X    int64   `json:"x" yaml:"x"`
	Y    int64   `json:"y" yaml:"y"`
	Z    float64 `json:"z" yaml:"z"`
}

// Label returns the text shown in "reuse existing" selectors
func (l Location) Label() string {
	return fmt.Sprintf("#%d %s (%d; %d; %g)", l.ID, l.Name, l.X, l.Y, l.Z)
}

// Address is a postal or official address shared across organizations
type Address struct {
	ID      int64     `json:"id" yaml:"id"`
	ZipCode *string   `json:"zipCode" yaml:"zipCode,omitempty"`
	Town    *Location `json:"town" yaml:"town,omitempty"`
}

// Label returns the text shown in "reuse existing" selectors
func (a Address) Label() string {
	zip := "-"
	if a.ZipCode != nil && *a.ZipCode != "" {
		zip = *a.ZipCode
	}
	town := "-"
	if a.Town != nil {
		town = a.Town.Name
	}
	return fmt.Sprintf("#%d %s, %s", a.ID, zip, town)
}

// Organization is the root entity of the registry
type Organization struct {
	ID              int64            `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	FullName        *string          `json:"fullName" yaml:"fullName,omitempty"`
	EmployeesCount  int64            `json:"employeesCount" yaml:"employeesCount"`
	Type            OrganizationType `json:"type" yaml:"type"`
	Rating          *float64         `json:"rating" yaml:"rating,omitempty"`
	AnnualTurnover  *float64         `json:"annualTurnover" yaml:"annualTurnover,omitempty"`
	CreationDate    *time.Time       `json:"creationDate,omitempty" yaml:"creationDate,omitempty"`
	Coordinates     *Coordinates     `json:"coordinates" yaml:"coordinates,omitempty"`
	PostalAddress   *Address         `json:"postalAddress" yaml:"postalAddress,omitempty"`
	OfficialAddress *Address         `json:"officialAddress" yaml:"officialAddress,omitempty"`
}

// GetID returns the organization identity
func (o Organization) GetID() int64 { return o.ID }

// GetID returns the coordinates identity
func (c Coordinates) GetID() int64 { return c.ID }

// GetID returns the address identity
func (a Address) GetID() int64 { return a.ID }

// GetID returns the location identity
func (l Location) GetID() int64 { return l.ID }

// ImportOperation is one entry of the bulk import history
type ImportOperation struct {
	ID           int64        `json:"id" yaml:"id"`
	Status       ImportStatus `json:"status" yaml:"status"`
	Username     string       `json:"username,omitempty" yaml:"username,omitempty"`
	AddedCount   *int64       `json:"addedCount" yaml:"addedCount,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
	CreatedAt    *time.Time   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// GetID returns the import identity
func (i ImportOperation) GetID() int64 { return i.ID }
