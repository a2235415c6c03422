package oas

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is a fetched OpenAPI schema document, reduced to the parts the
// generator consumes. Schema entries keep the key order of the source
// document; downstream stages rely on that order for deterministic output.
type Document struct {
	// Raw is the untouched response body, kept for the optional spec dump.
	Raw json.RawMessage
	// Info describes the document (filled in by the fetcher).
	Info Info
	// Schemas maps schema-entry name to definition, in document order.
	Schemas *orderedmap.OrderedMap[string, *Schema]
}

// Info carries the document's title and version.
type Info struct {
	Title   string
	Version string
}

// Schema is one named entry under components.schemas, or a nested schema
// inside one. Only the fields the type mapper consumes are decoded; the rest
// of the definition is opaque to this tool.
type Schema struct {
	Type       string                                  `json:"type,omitempty"`
	Format     string                                  `json:"format,omitempty"`
	Nullable   bool                                    `json:"nullable,omitempty"`
	Ref        string                                  `json:"$ref,omitempty"`
	Items      *Schema                                 `json:"items,omitempty"`
	Properties *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Required   []string                                `json:"required,omitempty"`
	OneOf      []*Schema                               `json:"oneOf,omitempty"`

	// Collection is the Directus collection identifier annotation.
	Collection string `json:"x-collection,omitempty"`
}

// IsRequired reports whether the named property is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

type documentBody struct {
	Components struct {
		Schemas *orderedmap.OrderedMap[string, *Schema] `json:"schemas"`
	} `json:"components"`
}

// Parse decodes a schema document. A document without components.schemas is
// valid and yields an empty (not nil) schema map.
func Parse(data []byte) (*Document, error) {
	var body documentBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}

	schemas := body.Components.Schemas
	if schemas == nil {
		schemas = orderedmap.New[string, *Schema]()
	}

	return &Document{
		Raw:     append(json.RawMessage(nil), data...),
		Schemas: schemas,
	}, nil
}
