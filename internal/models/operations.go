package models

// RatingGroup is one row of the group-by-rating operation
type RatingGroup struct {
	Rating float64 `json:"rating" yaml:"rating"`
	Count  int64   `json:"count" yaml:"count"`
}

// TypeCount is the result of the count-by-type operation
type TypeCount struct {
	Type  OrganizationType `json:"type" yaml:"type"`
	Count int64            `json:"count" yaml:"count"`
}

// OperationMessage is the success body of mutating special operations
type OperationMessage struct {
	Message string `json:"message" yaml:"message"`
}
