package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// printer writes command results to stdout in the selected format
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	format  string
	printed bool
}

func newPrinter(out io.Writer, format string) (*printer, error) {
	switch format {
	case "", formatYAML:
		format = formatYAML
	case formatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &printer{out: out, format: format}, nil
}

func (p *printer) print(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == formatJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}

	// a watched view prints one document per change
	if p.printed {
		if _, err := fmt.Fprintln(p.out, "---"); err != nil {
			return err
		}
	}
	p.printed = true

	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

// listOutput is one printed page of a list view
type listOutput[T any] struct {
	Collection    string `json:"collection" yaml:"collection"`
	Query         string `json:"query" yaml:"query"`
	Page          int    `json:"page" yaml:"page"`
	TotalPages    int    `json:"totalPages" yaml:"totalPages"`
	TotalElements int64  `json:"totalElements" yaml:"totalElements"`
	Stale         bool   `json:"stale,omitempty" yaml:"stale,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
	Items         []T    `json:"items" yaml:"items"`
}
