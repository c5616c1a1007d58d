package models

// Page is one page of a Gateway list response
type Page[T any] struct {
	Content       []T   `json:"content" yaml:"content"`
	TotalPages    int   `json:"totalPages" yaml:"totalPages"`
	TotalElements int64 `json:"totalElements" yaml:"totalElements"`
	Number        int   `json:"number" yaml:"number"`
	Size          int   `json:"size" yaml:"size"`
}
