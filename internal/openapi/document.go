// Package openapi describes the gallery JSON API as an OpenAPI 3 document.
package openapi

import "strings"

const specVersion = "3.0.3"

// Document is the subset of an OpenAPI document the gallery API publishes.
type Document struct {
	OpenAPI    string         `json:"openapi"`
	Info       Info           `json:"info"`
	Paths      map[string]any `json:"paths"`
	Components Components     `json:"components,omitempty"`
}

// Info captures document metadata.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Components holds the named schemas.
type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI:    specVersion,
		Info:       Info{Title: title, Version: version},
		Paths:      map[string]any{},
		Components: Components{Schemas: map[string]any{}},
	}
}

// AddSchema registers a component schema.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || schema == nil {
		return
	}
	d.Components.Schemas[name] = schema
}

// AddOperation registers operation under path for method.
func (d *Document) AddOperation(path, method string, operation map[string]any) {
	if d == nil || path == "" || operation == nil {
		return
	}
	item, _ := d.Paths[path].(map[string]any)
	if item == nil {
		item = map[string]any{}
		d.Paths[path] = item
	}
	item[strings.ToLower(method)] = operation
}

// Ref returns a JSON reference to a component schema.
func Ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}
